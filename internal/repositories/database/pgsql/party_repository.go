package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	"github.com/partybook/party_ledger_app/internal/models"
	"github.com/partybook/party_ledger_app/internal/utils/mapping"
)

type PgxPartyRepository struct {
	BaseRepository
}

// newPgxPartyRepository creates a new repository for party data.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepositoryFacade {
	return &PgxPartyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPartyRepository implements portsrepo.PartyRepositoryFacade
var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

const partyColumns = `party_id, user_id, name, kind, commission_mode, commission_rate,
	       settlement_enabled, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanParty(row pgx.Row) (models.Party, error) {
	var m models.Party
	var rate decimal.NullDecimal

	err := row.Scan(
		&m.PartyID,
		&m.UserID,
		&m.Name,
		&m.Kind,
		&m.CommissionMode,
		&rate,
		&m.SettlementEnabled,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Party{}, err
	}
	if rate.Valid {
		m.CommissionRate = &rate.Decimal
	}
	return m, nil
}

// FindPartyByID retrieves a party by its ID.
func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_id = $1;`
	m, err := scanParty(r.Pool.QueryRow(ctx, query, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find party by ID "+partyID, err)
	}
	d := mapping.ToDomainParty(m)
	return &d, nil
}

// FindPartyByName retrieves a party by its user-scoped name.
func (r *PgxPartyRepository) FindPartyByName(ctx context.Context, userID string, name string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE user_id = $1 AND name = $2;`
	m, err := scanParty(r.Pool.QueryRow(ctx, query, userID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find party "+name, err)
	}
	d := mapping.ToDomainParty(m)
	return &d, nil
}

// ListParties retrieves all of a user's parties ordered by name.
func (r *PgxPartyRepository) ListParties(ctx context.Context, userID string) ([]domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE user_id = $1 ORDER BY name ASC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query parties", err)
	}
	defer rows.Close()

	parties := []models.Party{}
	for rows.Next() {
		m, err := scanParty(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan party row", err)
		}
		parties = append(parties, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating party rows", err)
	}

	return mapping.ToDomainPartySlice(parties), nil
}

// SaveParty inserts a new party. A duplicate user-scoped name maps to
// apperrors.ErrDuplicate.
func (r *PgxPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	m := mapping.ToModelParty(party)
	query := `
		INSERT INTO parties (
			party_id, user_id, name, kind, commission_mode, commission_rate,
			settlement_enabled, is_active, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PartyID,
		m.UserID,
		m.Name,
		m.Kind,
		m.CommissionMode,
		m.CommissionRate,
		m.SettlementEnabled,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: party %s already exists", apperrors.ErrDuplicate, m.Name)
		}
		return apperrors.NewAppError(500, "failed to save party "+m.Name, err)
	}
	return nil
}

// UpdateParty updates a party's mutable attributes.
func (r *PgxPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	m := mapping.ToModelParty(party)
	query := `
		UPDATE parties
		SET kind = $2, commission_mode = $3, commission_rate = $4,
		    settlement_enabled = $5, is_active = $6, last_updated_at = $7, last_updated_by = $8
		WHERE party_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.PartyID,
		m.Kind,
		m.CommissionMode,
		m.CommissionRate,
		m.SettlementEnabled,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update party "+m.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteParty removes a party that has no entries. The RESTRICT foreign key
// on entries maps to apperrors.ErrConflict when entries still reference it.
func (r *PgxPartyRepository) DeleteParty(ctx context.Context, partyID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM parties WHERE party_id = $1;`, partyID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: party %s still has ledger entries", apperrors.ErrConflict, partyID)
		}
		return apperrors.NewAppError(500, "failed to delete party "+partyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
