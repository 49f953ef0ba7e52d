package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/partybook/party_ledger_app/internal/dto"
)

// userConfigService reads and updates the per-user ledger configuration.
// It depends on the party repository directly so a company rename can re-tag
// parties without a service-level cycle.
type userConfigService struct {
	BaseService
	userRepo  portsrepo.UserRepositoryFacade
	partyRepo portsrepo.PartyRepositoryFacade
	cache     portssvc.PartyBalanceCache
}

// UserConfigOption configures the user config service.
type UserConfigOption func(*userConfigService)

// WithUserConfigCache attaches a balance cache invalidated on company rename.
func WithUserConfigCache(cache portssvc.PartyBalanceCache) UserConfigOption {
	return func(s *userConfigService) {
		s.cache = cache
	}
}

// NewUserConfigService creates a new UserConfigService.
func NewUserConfigService(userRepo portsrepo.UserRepositoryFacade, partyRepo portsrepo.PartyRepositoryFacade, opts ...UserConfigOption) portssvc.UserConfigSvcFacade {
	svc := &userConfigService{
		userRepo:  userRepo,
		partyRepo: partyRepo,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

var _ portssvc.UserConfigSvcFacade = (*userConfigService)(nil)

// GetUserConfig retrieves the user's configuration, falling back to built-in
// defaults when nothing has been stored yet.
func (s *userConfigService) GetUserConfig(ctx context.Context, userID string) (*domain.UserConfig, error) {
	cfg, err := s.userRepo.FindUserConfig(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.UserConfig{UserID: userID}, nil
		}
		s.LogError(ctx, err, "Failed to find user config")
		return nil, fmt.Errorf("failed to find user config: %w", err)
	}
	return cfg, nil
}

// UpdateUserConfig upserts the configuration. When the company name changes,
// the previous COMPANY party reverts to a regular party and the new name is
// tagged on its next use.
func (s *userConfigService) UpdateUserConfig(ctx context.Context, userID string, req dto.UpdateUserConfigRequest) (*domain.UserConfig, error) {
	cfg, err := s.GetUserConfig(ctx, userID)
	if err != nil {
		return nil, err
	}

	previousCompany := cfg.CompanyName
	if req.CompanyName != nil {
		cfg.CompanyName = *req.CompanyName
	}
	if req.DefaultCommissionRate != nil {
		if req.DefaultCommissionRate.IsNegative() {
			return nil, fmt.Errorf("%w: commission rate must not be negative", apperrors.ErrValidation)
		}
		cfg.DefaultCommissionRate = req.DefaultCommissionRate
	}

	now := time.Now().UTC()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
		cfg.CreatedBy = userID
	}
	cfg.LastUpdatedAt = now
	cfg.LastUpdatedBy = userID

	if err := s.userRepo.SaveUserConfig(ctx, *cfg); err != nil {
		s.LogError(ctx, err, "Failed to save user config")
		return nil, fmt.Errorf("failed to save user config: %w", err)
	}

	if cfg.CompanyName != previousCompany && previousCompany != "" {
		if err := s.retagParty(ctx, userID, previousCompany, domain.PartyRegular); err != nil {
			s.LogWarn(ctx, "Failed to re-tag previous company party", slog.String("party", previousCompany), slog.String("error", err.Error()))
		}
	}

	s.LogInfo(ctx, "User config updated", slog.String("company", cfg.CompanyName))
	return cfg, nil
}

func (s *userConfigService) retagParty(ctx context.Context, userID, name string, kind domain.PartyKind) error {
	party, err := s.partyRepo.FindPartyByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if party.Kind == kind {
		return nil
	}
	party.Kind = kind
	party.LastUpdatedAt = time.Now().UTC()
	party.LastUpdatedBy = userID
	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateParty(ctx, userID, name)
	}
	return nil
}
