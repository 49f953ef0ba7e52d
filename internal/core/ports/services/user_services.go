package services

import (
	"context"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/partybook/party_ledger_app/internal/dto"
)

// UserConfigSvcFacade reads and updates the per-user ledger configuration.
type UserConfigSvcFacade interface {
	// GetUserConfig retrieves the user's ledger configuration, returning
	// built-in defaults when none has been stored yet.
	GetUserConfig(ctx context.Context, userID string) (*domain.UserConfig, error)

	// UpdateUserConfig upserts the configuration. Renaming the company
	// re-tags the COMPANY party.
	UpdateUserConfig(ctx context.Context, userID string, req dto.UpdateUserConfigRequest) (*domain.UserConfig, error)
}
