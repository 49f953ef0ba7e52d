package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService aggregates closing balances across all of a user's
// parties into a trial balance. Parties are classified by their PartyKind
// tag; the aggregation never re-derives a party's role from name or remark
// strings.
type reportingService struct {
	BaseService
	partyRepo      portsrepo.PartyReader
	entryRepo      portsrepo.EntryReader
	settlementRepo portsrepo.SettlementReader
	configSvc      portssvc.UserConfigSvcFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(partyRepo portsrepo.PartyReader, entryRepo portsrepo.EntryReader, settlementRepo portsrepo.SettlementReader, configSvc portssvc.UserConfigSvcFacade) portssvc.ReportingSvcFacade {
	return &reportingService{
		partyRepo:      partyRepo,
		entryRepo:      entryRepo,
		settlementRepo: settlementRepo,
		configSvc:      configSvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance computes, per party, the settlement-seeded closing balance
// over the live partition, then classifies parties into net-credit and
// net-debit buckets. Exclusion rules:
//   - settlement entries are skipped (their effect is already carried by the
//     frozen seed balances);
//   - entries whose remarks exactly equal the company name or the commission
//     party name are skipped outside their own party's row, so virtual
//     postings are never double-counted into the originating party;
//   - commission rows are reported but kept out of the bucket totals, since
//     commission postings are one-sided by construction.
//
// A non-zero difference between the buckets is a correctness defect and is
// surfaced in the report rather than raised.
func (s *reportingService) TrialBalance(ctx context.Context, userID string) (*domain.TrialBalanceReport, error) {
	cfg, err := s.configSvc.GetUserConfig(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	parties, err := s.partyRepo.ListParties(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list parties for trial balance")
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}

	seeds, err := s.settlementRepo.ListLatestSettlements(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load settlement seeds for trial balance")
		return nil, fmt.Errorf("failed to load latest settlements: %w", err)
	}

	entries, err := s.entryRepo.ListUnsettledEntriesByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries for trial balance")
		return nil, fmt.Errorf("failed to list unsettled entries: %w", err)
	}

	partiesByName := make(map[string]domain.Party, len(parties))
	for _, p := range parties {
		partiesByName[p.Name] = p
	}

	closings := make(map[string]decimal.Decimal, len(parties))
	counts := make(map[string]int, len(parties))
	for name, settlement := range seeds {
		closings[name] = settlement.Balance
	}

	for _, entry := range entries {
		if excludeFromAggregation(entry, cfg.CompanyName) {
			continue
		}
		closings[entry.PartyName] = closings[entry.PartyName].Add(entry.Signed())
		counts[entry.PartyName]++
	}

	report := &domain.TrialBalanceReport{
		CreditTotal: decimal.Zero,
		DebitTotal:  decimal.Zero,
	}

	names := make([]string, 0, len(closings))
	for name := range closings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		balance := closings[name]
		if balance.IsZero() {
			continue
		}
		party := partiesByName[name]
		report.Parties = append(report.Parties, domain.TrialBalanceRow{
			PartyID:    party.PartyID,
			PartyName:  name,
			PartyKind:  party.Kind,
			Balance:    balance,
			EntryCount: counts[name],
		})
		if party.Kind == domain.PartyCommission {
			continue
		}
		if balance.IsPositive() {
			report.CreditTotal = report.CreditTotal.Add(balance)
		} else {
			report.DebitTotal = report.DebitTotal.Add(balance.Abs())
		}
	}

	report.Difference = report.CreditTotal.Sub(report.DebitTotal)
	if !report.Difference.IsZero() {
		s.LogWarn(ctx, "Trial balance out of balance",
			slog.String("difference", report.Difference.String()),
			slog.String("credit_total", report.CreditTotal.String()),
			slog.String("debit_total", report.DebitTotal.String()))
	} else {
		s.LogInfo(ctx, "Trial balance generated", slog.Int("party_count", len(report.Parties)))
	}
	return report, nil
}

// excludeFromAggregation applies the raw-entry exclusion rules: settlement
// entries, and entries whose remarks exactly equal the company name or the
// commission party name outside their own party's row.
func excludeFromAggregation(entry domain.LedgerEntry, companyName string) bool {
	if entry.IsSettlementEntry() {
		return true
	}
	if entry.Remarks == domain.CommissionPartyName && entry.PartyName != domain.CommissionPartyName {
		return true
	}
	if companyName != "" && entry.Remarks == companyName && entry.PartyName != companyName {
		return true
	}
	return false
}
