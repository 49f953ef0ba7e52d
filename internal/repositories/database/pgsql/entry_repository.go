package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	"github.com/partybook/party_ledger_app/internal/models"
	"github.com/partybook/party_ledger_app/internal/utils/mapping"
)

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for ledger entry data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryWithTx {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryWithTx
var _ portsrepo.EntryRepositoryWithTx = (*PgxEntryRepository)(nil)

const entryColumns = `entry_id, user_id, party_id, party_name, entry_type, credit, debit,
	       entry_date, sequence, remarks, is_settled, settlement_id, balance_snapshot,
	       derived_from_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// scanEntry scans one entry row, mapping the nullable columns onto model pointers.
func scanEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	var credit, debit, snapshot decimal.NullDecimal
	var settlementID, derivedFromID sql.NullString

	err := row.Scan(
		&m.EntryID,
		&m.UserID,
		&m.PartyID,
		&m.PartyName,
		&m.EntryType,
		&credit,
		&debit,
		&m.EntryDate,
		&m.Sequence,
		&m.Remarks,
		&m.IsSettled,
		&settlementID,
		&snapshot,
		&derivedFromID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	if credit.Valid {
		m.Credit = &credit.Decimal
	}
	if debit.Valid {
		m.Debit = &debit.Decimal
	}
	if snapshot.Valid {
		m.BalanceSnapshot = &snapshot.Decimal
	}
	if settlementID.Valid {
		m.SettlementID = &settlementID.String
	}
	if derivedFromID.Valid {
		m.DerivedFromEntryID = &derivedFromID.String
	}
	return m, nil
}

func (r *PgxEntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries", err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// FindEntryByID retrieves a single entry by its ID.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE entry_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}
	d := mapping.ToDomainLedgerEntry(m)
	return &d, nil
}

// ListEntries retrieves a user's entries in ledger order, optionally scoped to
// one party.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, userID string, partyName *string) ([]domain.LedgerEntry, error) {
	if partyName != nil {
		query := `SELECT ` + entryColumns + `
		FROM entries
		WHERE user_id = $1 AND party_name = $2
		ORDER BY entry_date ASC, sequence ASC;`
		return r.queryEntries(ctx, query, userID, *partyName)
	}
	query := `SELECT ` + entryColumns + `
	FROM entries
	WHERE user_id = $1
	ORDER BY entry_date ASC, sequence ASC;`
	return r.queryEntries(ctx, query, userID)
}

// ListUnsettledEntries retrieves the live partition for one party in ledger order.
func (r *PgxEntryRepository) ListUnsettledEntries(ctx context.Context, userID string, partyName string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + `
	FROM entries
	WHERE user_id = $1 AND party_name = $2 AND is_settled = FALSE
	ORDER BY entry_date ASC, sequence ASC;`
	return r.queryEntries(ctx, query, userID, partyName)
}

// ListUnsettledEntriesByUser retrieves the live partition across all parties.
func (r *PgxEntryRepository) ListUnsettledEntriesByUser(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + `
	FROM entries
	WHERE user_id = $1 AND is_settled = FALSE
	ORDER BY entry_date ASC, sequence ASC;`
	return r.queryEntries(ctx, query, userID)
}

// FindDerivedEntries retrieves the virtual entries generated from a primary entry.
func (r *PgxEntryRepository) FindDerivedEntries(ctx context.Context, primaryEntryID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + `
	FROM entries
	WHERE derived_from_entry_id = $1
	ORDER BY entry_date ASC, sequence ASC;`
	return r.queryEntries(ctx, query, primaryEntryID)
}

// CountEntriesByParty reports how many entries reference a party.
func (r *PgxEntryRepository) CountEntriesByParty(ctx context.Context, userID string, partyName string) (int64, error) {
	query := `SELECT COUNT(*) FROM entries WHERE user_id = $1 AND party_name = $2;`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, userID, partyName).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count entries for party "+partyName, err)
	}
	return count, nil
}

// SaveEntries persists a batch of entries in one DB transaction and returns
// them with the sequences the database assigned on insert.
func (r *PgxEntryRepository) SaveEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	insertQuery := `
		INSERT INTO entries (
			entry_id, user_id, party_id, party_name, entry_type, credit, debit,
			entry_date, remarks, is_settled, settlement_id, balance_snapshot,
			derived_from_entry_id, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING sequence;
	`

	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelLedgerEntry(entry)
		batch.Queue(insertQuery,
			m.EntryID,
			m.UserID,
			m.PartyID,
			m.PartyName,
			m.EntryType,
			m.Credit,
			m.Debit,
			m.EntryDate,
			m.Remarks,
			m.IsSettled,
			m.SettlementID,
			m.BalanceSnapshot,
			m.DerivedFromEntryID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	saved := make([]domain.LedgerEntry, len(entries))
	copy(saved, entries)

	br := tx.SendBatch(ctx, batch)
	for i := range saved {
		if err := br.QueryRow().Scan(&saved[i].Sequence); err != nil {
			br.Close()
			return nil, apperrors.NewAppError(500, "failed to insert entry "+saved[i].EntryID, err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to execute entry insert batch", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return saved, nil
}

// DeleteEntry removes an entry. Entries derived from it cascade at the
// database level.
func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RelinkEntry rewrites an entry's settlement link during administrative repair.
func (r *PgxEntryRepository) RelinkEntry(ctx context.Context, entryID string, settlementID *string, isSettled bool, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE entries
		SET settlement_id = $2, is_settled = $3, last_updated_by = $4, last_updated_at = $5
		WHERE entry_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, settlementID, isSettled, updatedBy, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to relink entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
