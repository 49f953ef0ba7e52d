package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/partybook/party_ledger_app/internal/dto"
)

// partyService manages counter-parties, including the auto-creation of
// reserved parties on first reference and the soft-deactivation rule that
// preserves ledger history.
type partyService struct {
	BaseService
	partyRepo portsrepo.PartyRepositoryFacade
	entryRepo portsrepo.EntryReader
}

// NewPartyService creates a new PartyService.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade, entryRepo portsrepo.EntryReader) portssvc.PartySvcFacade {
	return &partyService{
		partyRepo: partyRepo,
		entryRepo: entryRepo,
	}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

// GetPartyByName retrieves a party by its user-scoped name.
func (s *partyService) GetPartyByName(ctx context.Context, userID string, name string) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByName(ctx, userID, name)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find party by name", slog.String("party", name))
		}
		return nil, fmt.Errorf("failed to find party %s: %w", name, err)
	}
	return party, nil
}

// ListParties retrieves all of a user's parties.
func (s *partyService) ListParties(ctx context.Context, userID string) ([]domain.Party, error) {
	parties, err := s.partyRepo.ListParties(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list parties")
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	return parties, nil
}

// CreateParty creates a new regular party explicitly. Reserved parties are
// only ever created through EnsureParty when first referenced.
func (s *partyService) CreateParty(ctx context.Context, userID string, req dto.CreatePartyRequest) (*domain.Party, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: party name is required", apperrors.ErrValidation)
	}
	if name == domain.CommissionPartyName {
		return nil, fmt.Errorf("%w: %s is a reserved party name", apperrors.ErrValidation, name)
	}

	mode := domain.CommissionTake
	if req.CommissionMode != "" {
		mode = domain.CommissionMode(req.CommissionMode)
	}

	now := time.Now().UTC()
	party := domain.Party{
		PartyID:           uuid.NewString(),
		UserID:            userID,
		Name:              name,
		Kind:              domain.PartyRegular,
		CommissionMode:    mode,
		CommissionRate:    req.CommissionRate,
		SettlementEnabled: req.SettlementEnabled,
		IsActive:          true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: party %s already exists", apperrors.ErrDuplicate, name)
		}
		s.LogError(ctx, err, "Failed to save party", slog.String("party", name))
		return nil, fmt.Errorf("failed to save party %s: %w", name, err)
	}

	s.LogInfo(ctx, "Party created", slog.String("party", name), slog.String("party_id", party.PartyID))
	return &party, nil
}

// EnsureParty returns the named party, creating it when first referenced.
// Reserved kinds (commission, company) upgrade the tag of an existing
// regular party with the same name instead of failing.
func (s *partyService) EnsureParty(ctx context.Context, userID string, name string, kind domain.PartyKind) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByName(ctx, userID, name)
	if err == nil {
		if kind != domain.PartyRegular && party.Kind == domain.PartyRegular {
			party.Kind = kind
			party.LastUpdatedAt = time.Now().UTC()
			party.LastUpdatedBy = userID
			if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
				return nil, fmt.Errorf("failed to re-tag party %s as %s: %w", name, kind, err)
			}
			s.LogInfo(ctx, "Party re-tagged", slog.String("party", name), slog.String("kind", string(kind)))
		}
		return party, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find party %s: %w", name, err)
	}

	now := time.Now().UTC()
	created := domain.Party{
		PartyID:  uuid.NewString(),
		UserID:   userID,
		Name:     name,
		Kind:     kind,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if kind == domain.PartyRegular {
		// Commission applies to regular parties by default; the reserved
		// parties never generate commission on their own postings.
		created.CommissionMode = domain.CommissionTake
		created.SettlementEnabled = true
	} else {
		created.CommissionMode = domain.CommissionNone
	}

	if err := s.partyRepo.SaveParty(ctx, created); err != nil {
		// Lost a creation race; the party exists now.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.partyRepo.FindPartyByName(ctx, userID, name)
		}
		s.LogError(ctx, err, "Failed to auto-create party", slog.String("party", name))
		return nil, fmt.Errorf("failed to auto-create party %s: %w", name, err)
	}

	s.LogInfo(ctx, "Party auto-created", slog.String("party", name), slog.String("kind", string(kind)))
	return &created, nil
}

// UpdateParty updates a party's mutable attributes. Nil fields are left
// unchanged.
func (s *partyService) UpdateParty(ctx context.Context, userID string, partyName string, req dto.UpdatePartyRequest) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByName(ctx, userID, partyName)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyName, err)
	}

	updated := false
	if req.CommissionMode != nil {
		party.CommissionMode = domain.CommissionMode(*req.CommissionMode)
		updated = true
	}
	if req.CommissionRate != nil {
		party.CommissionRate = req.CommissionRate
		updated = true
	}
	if req.SettlementEnabled != nil {
		party.SettlementEnabled = *req.SettlementEnabled
		updated = true
	}
	if !updated {
		return party, nil
	}

	party.LastUpdatedAt = time.Now().UTC()
	party.LastUpdatedBy = userID
	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		s.LogError(ctx, err, "Failed to update party", slog.String("party", partyName))
		return nil, fmt.Errorf("failed to update party %s: %w", partyName, err)
	}

	s.LogInfo(ctx, "Party updated", slog.String("party", partyName))
	return party, nil
}

// DeactivateParty removes a party from use. A party with referencing entries
// is soft-deactivated so ledger history stays intact; only a party with no
// entries at all is physically deleted.
func (s *partyService) DeactivateParty(ctx context.Context, userID string, partyName string) error {
	party, err := s.partyRepo.FindPartyByName(ctx, userID, partyName)
	if err != nil {
		return fmt.Errorf("failed to find party %s: %w", partyName, err)
	}

	count, err := s.entryRepo.CountEntriesByParty(ctx, userID, partyName)
	if err != nil {
		return fmt.Errorf("failed to count entries for party %s: %w", partyName, err)
	}

	if count == 0 {
		if err := s.partyRepo.DeleteParty(ctx, party.PartyID); err != nil {
			s.LogError(ctx, err, "Failed to delete party", slog.String("party", partyName))
			return fmt.Errorf("failed to delete party %s: %w", partyName, err)
		}
		s.LogInfo(ctx, "Party deleted", slog.String("party", partyName))
		return nil
	}

	party.IsActive = false
	party.LastUpdatedAt = time.Now().UTC()
	party.LastUpdatedBy = userID
	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		s.LogError(ctx, err, "Failed to deactivate party", slog.String("party", partyName))
		return fmt.Errorf("failed to deactivate party %s: %w", partyName, err)
	}

	s.LogInfo(ctx, "Party deactivated", slog.String("party", partyName), slog.Int64("entry_count", count))
	return nil
}
