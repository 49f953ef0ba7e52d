package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	"github.com/partybook/party_ledger_app/internal/models"
	"github.com/partybook/party_ledger_app/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user configuration data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// FindUserConfig retrieves a user's ledger configuration.
func (r *PgxUserRepository) FindUserConfig(ctx context.Context, userID string) (*domain.UserConfig, error) {
	query := `
		SELECT user_id, company_name, default_commission_rate,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM user_configs
		WHERE user_id = $1;
	`
	var m models.UserConfig
	var rate decimal.NullDecimal
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&m.UserID,
		&m.CompanyName,
		&rate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user config for "+userID, err)
	}
	if rate.Valid {
		m.DefaultCommissionRate = &rate.Decimal
	}

	d := mapping.ToDomainUserConfig(m)
	return &d, nil
}

// SaveUserConfig upserts a user's ledger configuration.
func (r *PgxUserRepository) SaveUserConfig(ctx context.Context, cfg domain.UserConfig) error {
	m := mapping.ToModelUserConfig(cfg)
	query := `
		INSERT INTO user_configs (
			user_id, company_name, default_commission_rate,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET company_name = EXCLUDED.company_name,
		    default_commission_rate = EXCLUDED.default_commission_rate,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.CompanyName,
		m.DefaultCommissionRate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save user config for "+m.UserID, err)
	}
	return nil
}
