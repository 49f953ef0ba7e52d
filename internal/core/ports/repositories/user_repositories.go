package repositories

import (
	"context"

	"github.com/partybook/party_ledger_app/internal/core/domain"
)

// UserConfigReader defines read operations for user configuration.
type UserConfigReader interface {
	// FindUserConfig retrieves a user's ledger configuration.
	FindUserConfig(ctx context.Context, userID string) (*domain.UserConfig, error)
}

// UserConfigWriter defines write operations for user configuration.
type UserConfigWriter interface {
	// SaveUserConfig upserts a user's ledger configuration.
	SaveUserConfig(ctx context.Context, cfg domain.UserConfig) error
}

// UserRepositoryFacade combines the user configuration interfaces.
type UserRepositoryFacade interface {
	UserConfigReader
	UserConfigWriter
}
