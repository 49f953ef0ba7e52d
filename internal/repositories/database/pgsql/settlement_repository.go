package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	"github.com/partybook/party_ledger_app/internal/models"
	"github.com/partybook/party_ledger_app/internal/utils/mapping"
)

type PgxSettlementRepository struct {
	BaseRepository
}

// newPgxSettlementRepository creates a new repository for settlement data.
func newPgxSettlementRepository(pool *pgxpool.Pool) portsrepo.SettlementRepositoryWithTx {
	return &PgxSettlementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxSettlementRepository implements portsrepo.SettlementRepositoryWithTx
var _ portsrepo.SettlementRepositoryWithTx = (*PgxSettlementRepository)(nil)

const settlementColumns = `settlement_id, user_id, party_id, party_name, settlement_date,
	       balance, entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanSettlement(row pgx.Row) (models.Settlement, error) {
	var m models.Settlement
	err := row.Scan(
		&m.SettlementID,
		&m.UserID,
		&m.PartyID,
		&m.PartyName,
		&m.SettlementDate,
		&m.Balance,
		&m.EntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxSettlementRepository) querySettlements(ctx context.Context, query string, args ...any) ([]domain.Settlement, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query settlements", err)
	}
	defer rows.Close()

	settlements := []models.Settlement{}
	for rows.Next() {
		m, err := scanSettlement(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan settlement row", err)
		}
		settlements = append(settlements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating settlement rows", err)
	}

	return mapping.ToDomainSettlementSlice(settlements), nil
}

// FindSettlementByID retrieves a settlement by its ID.
func (r *PgxSettlementRepository) FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE settlement_id = $1;`
	m, err := scanSettlement(r.Pool.QueryRow(ctx, query, settlementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find settlement by ID "+settlementID, err)
	}
	d := mapping.ToDomainSettlement(m)
	return &d, nil
}

// FindLatestSettlement retrieves the most recent settlement for a party.
func (r *PgxSettlementRepository) FindLatestSettlement(ctx context.Context, userID string, partyName string) (*domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + `
	FROM settlements
	WHERE user_id = $1 AND party_name = $2
	ORDER BY created_at DESC
	LIMIT 1;`
	m, err := scanSettlement(r.Pool.QueryRow(ctx, query, userID, partyName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find latest settlement for party "+partyName, err)
	}
	d := mapping.ToDomainSettlement(m)
	return &d, nil
}

// ListSettlements retrieves a user's settlements in chronological order,
// optionally scoped to one party.
func (r *PgxSettlementRepository) ListSettlements(ctx context.Context, userID string, partyName *string) ([]domain.Settlement, error) {
	if partyName != nil {
		query := `SELECT ` + settlementColumns + `
		FROM settlements
		WHERE user_id = $1 AND party_name = $2
		ORDER BY created_at ASC;`
		return r.querySettlements(ctx, query, userID, *partyName)
	}
	query := `SELECT ` + settlementColumns + `
	FROM settlements
	WHERE user_id = $1
	ORDER BY created_at ASC;`
	return r.querySettlements(ctx, query, userID)
}

// ListLatestSettlements retrieves the most recent settlement per party, keyed
// by party name.
func (r *PgxSettlementRepository) ListLatestSettlements(ctx context.Context, userID string) (map[string]domain.Settlement, error) {
	query := `SELECT DISTINCT ON (party_name) ` + settlementColumns + `
	FROM settlements
	WHERE user_id = $1
	ORDER BY party_name ASC, created_at DESC;`
	settlements, err := r.querySettlements(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]domain.Settlement, len(settlements))
	for _, s := range settlements {
		latest[s.PartyName] = s
	}
	return latest, nil
}

// CreateSettlement persists the settlement, inserts its ledger entry and
// freezes the snapshot entries, all in one DB transaction. An advisory lock
// on (user, party) serializes concurrent settlements; if any snapshot entry
// was already settled by a competing run the whole unit rolls back with
// apperrors.ErrConflict.
func (r *PgxSettlementRepository) CreateSettlement(ctx context.Context, settlement domain.Settlement, entry domain.LedgerEntry, snapshots map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Held until commit or rollback.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2));`, settlement.UserID, settlement.PartyName); err != nil {
		return apperrors.NewAppError(500, "failed to acquire settlement lock for party "+settlement.PartyName, err)
	}

	m := mapping.ToModelSettlement(settlement)
	settlementQuery := `
		INSERT INTO settlements (
			settlement_id, user_id, party_id, party_name, settlement_date,
			balance, entry_id, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, settlementQuery,
		m.SettlementID,
		m.UserID,
		m.PartyID,
		m.PartyName,
		m.SettlementDate,
		m.Balance,
		m.EntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert settlement "+m.SettlementID, err)
	}

	me := mapping.ToModelLedgerEntry(entry)
	entryQuery := `
		INSERT INTO entries (
			entry_id, user_id, party_id, party_name, entry_type, credit, debit,
			entry_date, remarks, is_settled, settlement_id, balance_snapshot,
			derived_from_entry_id, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, entryQuery,
		me.EntryID,
		me.UserID,
		me.PartyID,
		me.PartyName,
		me.EntryType,
		me.Credit,
		me.Debit,
		me.EntryDate,
		me.Remarks,
		me.IsSettled,
		me.SettlementID,
		me.BalanceSnapshot,
		me.DerivedFromEntryID,
		me.CreatedAt,
		me.CreatedBy,
		me.LastUpdatedAt,
		me.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert settlement entry "+me.EntryID, err)
	}

	freezeQuery := `
		UPDATE entries
		SET is_settled = TRUE, settlement_id = $2, balance_snapshot = $3,
		    last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND is_settled = FALSE;
	`
	batch := &pgx.Batch{}
	entryIDs := make([]string, 0, len(snapshots))
	for entryID, snapshot := range snapshots {
		entryIDs = append(entryIDs, entryID)
		batch.Queue(freezeQuery, entryID, m.SettlementID, snapshot, m.LastUpdatedAt, m.LastUpdatedBy)
	}

	br := tx.SendBatch(ctx, batch)
	for _, entryID := range entryIDs {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return apperrors.NewAppError(500, "failed to freeze entry "+entryID, err)
		}
		// Zero rows means a competing settlement got to this entry first.
		if tag.RowsAffected() == 0 {
			br.Close()
			return fmt.Errorf("%w: entry %s already settled", apperrors.ErrConflict, entryID)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute settlement freeze batch", err)
	}

	return r.Commit(ctx, tx)
}
