package repositories

import (
	"context"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SettlementReader defines read operations for settlements.
type SettlementReader interface {
	// FindSettlementByID retrieves a settlement by its unique identifier.
	FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error)

	// FindLatestSettlement retrieves the chronologically most recent
	// settlement for a party, or apperrors.ErrNotFound when none exists.
	FindLatestSettlement(ctx context.Context, userID string, partyName string) (*domain.Settlement, error)

	// ListSettlements retrieves a user's settlements in chronological order,
	// optionally scoped to one party.
	ListSettlements(ctx context.Context, userID string, partyName *string) ([]domain.Settlement, error)

	// ListLatestSettlements retrieves the most recent settlement per party for
	// a user, keyed by party name.
	ListLatestSettlements(ctx context.Context, userID string) (map[string]domain.Settlement, error)
}

// SettlementWriter defines write operations for settlements.
type SettlementWriter interface {
	// CreateSettlement persists the settlement together with its own ledger
	// entry and atomically marks the listed entries settled, recording their
	// balance snapshots. The whole unit runs in one store transaction,
	// serialized per (user, party) with a store-level lock. If any listed
	// entry is no longer unsettled the transaction rolls back with
	// apperrors.ErrConflict.
	CreateSettlement(ctx context.Context, settlement domain.Settlement, entry domain.LedgerEntry, snapshots map[string]decimal.Decimal) error
}

// SettlementRepositoryFacade combines all settlement repository interfaces.
type SettlementRepositoryFacade interface {
	SettlementReader
	SettlementWriter
}

// SettlementRepositoryWithTx extends SettlementRepositoryFacade with
// transaction capabilities.
type SettlementRepositoryWithTx interface {
	SettlementRepositoryFacade
	TransactionManager
}
