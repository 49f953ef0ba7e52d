package services

import (
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
)

// NewServiceContainer wires all application services over the repository
// provider. The cache may be nil, in which case every service recomputes
// balances from the store.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cache portssvc.PartyBalanceCache) *portssvc.ServiceContainer {
	partySvc := NewPartyService(repos.PartyRepo, repos.EntryRepo)

	var userOpts []UserConfigOption
	var txOpts []TransactionServiceOption
	var balOpts []BalanceServiceOption
	var settleOpts []SettlementServiceOption
	if cache != nil {
		userOpts = append(userOpts, WithUserConfigCache(cache))
		txOpts = append(txOpts, WithTransactionCache(cache))
		balOpts = append(balOpts, WithBalanceCache(cache))
		settleOpts = append(settleOpts, WithSettlementCache(cache))
	}

	userConfigSvc := NewUserConfigService(repos.UserRepo, repos.PartyRepo, userOpts...)

	return &portssvc.ServiceContainer{
		Party:       partySvc,
		Transaction: NewTransactionService(repos.EntryRepo, partySvc, userConfigSvc, txOpts...),
		Balance:     NewBalanceService(repos.EntryRepo, repos.SettlementRepo, balOpts...),
		Settlement:  NewSettlementService(repos.EntryRepo, repos.SettlementRepo, partySvc, settleOpts...),
		Reporting:   NewReportingService(repos.PartyRepo, repos.EntryRepo, repos.SettlementRepo, userConfigSvc),
		Diagnostics: NewDiagnosticsService(repos.EntryRepo, repos.SettlementRepo),
		UserConfig:  userConfigSvc,
	}
}
