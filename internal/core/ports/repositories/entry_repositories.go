package repositories

import (
	"context"
	"time"

	"github.com/partybook/party_ledger_app/internal/core/domain"
)

// EntryReader defines read operations for ledger entries. All listings are
// ordered by (entry_date ASC, sequence ASC).
type EntryReader interface {
	// FindEntryByID retrieves a single entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntries retrieves all of a user's entries, optionally scoped to one
	// party name (settled and unsettled alike).
	ListEntries(ctx context.Context, userID string, partyName *string) ([]domain.LedgerEntry, error)

	// ListUnsettledEntries retrieves the live (is_settled=false) partition for
	// one party.
	ListUnsettledEntries(ctx context.Context, userID string, partyName string) ([]domain.LedgerEntry, error)

	// ListUnsettledEntriesByUser retrieves the live partition across all of a
	// user's parties, for cross-party aggregation.
	ListUnsettledEntriesByUser(ctx context.Context, userID string) ([]domain.LedgerEntry, error)

	// FindDerivedEntries retrieves the virtual entries generated from a
	// primary entry.
	FindDerivedEntries(ctx context.Context, primaryEntryID string) ([]domain.LedgerEntry, error)

	// CountEntriesByParty reports how many entries reference a party; used to
	// enforce soft-deactivation instead of deletion.
	CountEntriesByParty(ctx context.Context, userID string, partyName string) (int64, error)
}

// EntryWriter defines write operations for ledger entries.
type EntryWriter interface {
	// SaveEntries persists a batch of entries atomically and returns them with
	// their assigned insert sequences.
	SaveEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error)

	// DeleteEntry removes an entry; its derived entries cascade.
	DeleteEntry(ctx context.Context, entryID string) error

	// RelinkEntry rewrites an entry's settlement link. Administrative repair
	// only; normal settlement linking goes through SettlementWriter.
	RelinkEntry(ctx context.Context, entryID string, settlementID *string, isSettled bool, updatedBy string, updatedAt time.Time) error
}

// EntryRepositoryFacade combines all entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// EntryRepositoryWithTx extends EntryRepositoryFacade with transaction capabilities.
type EntryRepositoryWithTx interface {
	EntryRepositoryFacade
	TransactionManager
}
