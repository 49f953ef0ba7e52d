package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	entryRepo := newPgxEntryRepository(dbPool)
	partyRepo := newPgxPartyRepository(dbPool)
	settlementRepo := newPgxSettlementRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		EntryRepo:      entryRepo,
		PartyRepo:      partyRepo,
		SettlementRepo: settlementRepo,
		UserRepo:       userRepo,
	}
}
