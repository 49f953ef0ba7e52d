package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/partybook/party_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// transactionService posts primary ledger entries and mechanically derives
// the commission, company counter-entry and Take/Give mirror entries that
// accompany them. The primary and its derived entries are persisted as one
// atomic batch.
type transactionService struct {
	BaseService
	entryRepo portsrepo.EntryRepositoryWithTx
	partySvc  portssvc.PartySvcFacade
	configSvc portssvc.UserConfigSvcFacade
	cache     portssvc.PartyBalanceCache
}

// TransactionServiceOption is a functional option for configuring the
// transaction service.
type TransactionServiceOption func(*transactionService)

// WithTransactionCache attaches the advisory balance cache so writes can
// invalidate it.
func WithTransactionCache(cache portssvc.PartyBalanceCache) TransactionServiceOption {
	return func(s *transactionService) {
		s.cache = cache
	}
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(entryRepo portsrepo.EntryRepositoryWithTx, partySvc portssvc.PartySvcFacade, configSvc portssvc.UserConfigSvcFacade, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		entryRepo: entryRepo,
		partySvc:  partySvc,
		configSvc: configSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// validateRequest rejects malformed transactions before any write.
func (s *transactionService) validateRequest(req dto.CreateTransactionRequest) error {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, req.Amount.String())
	}
	if req.Type != string(domain.Credit) && req.Type != string(domain.Debit) {
		return fmt.Errorf("%w: transaction type must be CREDIT or DEBIT", apperrors.ErrValidation)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: transaction date is required", apperrors.ErrValidation)
	}
	return nil
}

// newEntry builds a ledger entry with exactly one of credit/debit populated.
func newEntry(userID string, party *domain.Party, entryType domain.EntryType, amount decimal.Decimal, date time.Time, remarks string, now time.Time) domain.LedgerEntry {
	entry := domain.LedgerEntry{
		EntryID:   uuid.NewString(),
		UserID:    userID,
		PartyID:   party.PartyID,
		PartyName: party.Name,
		EntryType: entryType,
		EntryDate: date,
		Remarks:   remarks,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if entryType == domain.Credit {
		entry.Credit = amount
	} else {
		entry.Debit = amount
	}
	return entry
}

func oppositeType(t domain.EntryType) domain.EntryType {
	if t == domain.Credit {
		return domain.Debit
	}
	return domain.Credit
}

// GenerateVirtualEntries derives the commission, company and mirror entries
// for a primary entry. Generation is skipped entirely when the primary's
// party is itself a reserved party or the primary is a settlement entry.
// Re-running generation for a primary that already has derived entries is a
// no-op; the derived_from link makes the check exact rather than heuristic.
func (s *transactionService) GenerateVirtualEntries(ctx context.Context, primary domain.LedgerEntry, primaryParty *domain.Party) ([]domain.LedgerEntry, error) {
	if primaryParty.IsReserved() || primary.IsSettlementEntry() {
		return nil, nil
	}

	existing, err := s.entryRepo.FindDerivedEntries(ctx, primary.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing derived entries: %w", err)
	}
	if len(existing) > 0 {
		s.LogDebug(ctx, "Derived entries already present, skipping generation", slog.String("entry_id", primary.EntryID))
		return nil, nil
	}

	cfg, err := s.configSvc.GetUserConfig(ctx, primary.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	now := primary.CreatedAt
	amount := primary.Amount()
	var derived []domain.LedgerEntry

	// Commission entry: proportional amount, same polarity, reserved party.
	if primaryParty.CommissionMode != domain.CommissionNone {
		rate := cfg.CommissionRate(primaryParty)
		if rate.IsPositive() {
			commissionParty, err := s.partySvc.EnsureParty(ctx, primary.UserID, domain.CommissionPartyName, domain.PartyCommission)
			if err != nil {
				return nil, fmt.Errorf("failed to ensure commission party: %w", err)
			}
			commission := newEntry(primary.UserID, commissionParty, primary.EntryType, amount.Mul(rate), primary.EntryDate, fmt.Sprintf("Commission from %s", primaryParty.Name), now)
			commission.DerivedFromEntryID = &primary.EntryID
			derived = append(derived, commission)
		}
	}

	// Take/Give mirror: the fixed pair's entries shadow each other with
	// opposite polarity and equal amount.
	var mirrorName string
	switch primaryParty.Name {
	case domain.MirrorPartyTake:
		mirrorName = domain.MirrorPartyGive
	case domain.MirrorPartyGive:
		mirrorName = domain.MirrorPartyTake
	}

	// Company counter-entry: equal amount, opposite polarity. A mirror
	// posting already carries the offset, so the pair gets no second one;
	// stacking both would unbalance the trial balance by the amount.
	if cfg.CompanyName != "" && mirrorName == "" {
		companyParty, err := s.partySvc.EnsureParty(ctx, primary.UserID, cfg.CompanyName, domain.PartyCompany)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure company party: %w", err)
		}
		company := newEntry(primary.UserID, companyParty, oppositeType(primary.EntryType), amount, primary.EntryDate, fmt.Sprintf("Transaction with %s", primaryParty.Name), now)
		company.DerivedFromEntryID = &primary.EntryID
		derived = append(derived, company)
	}

	if mirrorName != "" {
		mirrorParty, err := s.partySvc.EnsureParty(ctx, primary.UserID, mirrorName, domain.PartyRegular)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure mirror party %s: %w", mirrorName, err)
		}
		mirror := newEntry(primary.UserID, mirrorParty, oppositeType(primary.EntryType), amount, primary.EntryDate, fmt.Sprintf("Mirror of %s", primaryParty.Name), now)
		mirror.DerivedFromEntryID = &primary.EntryID
		derived = append(derived, mirror)
	}

	return derived, nil
}

// PostTransaction validates the request, builds the primary entry, derives
// its virtual entries and persists the whole batch atomically.
func (s *transactionService) PostTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.PostedTransaction, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	party, err := s.partySvc.EnsureParty(ctx, userID, req.PartyName, domain.PartyRegular)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve party for transaction", slog.String("party", req.PartyName))
		return nil, err
	}
	if !party.IsActive {
		return nil, fmt.Errorf("%w: party %s is inactive", apperrors.ErrValidation, party.Name)
	}

	now := time.Now().UTC()
	primary := newEntry(userID, party, domain.EntryType(req.Type), req.Amount, req.Date, req.Remarks, now)

	derived, err := s.GenerateVirtualEntries(ctx, primary, party)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate virtual entries", slog.String("party", party.Name))
		return nil, err
	}

	batch := append([]domain.LedgerEntry{primary}, derived...)
	saved, err := s.entryRepo.SaveEntries(ctx, batch)
	if err != nil {
		s.LogError(ctx, err, "Failed to save transaction batch", slog.String("party", party.Name), slog.Int("batch_size", len(batch)))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.invalidateParties(ctx, userID, saved)

	s.LogInfo(ctx, "Transaction posted",
		slog.String("entry_id", saved[0].EntryID),
		slog.String("party", party.Name),
		slog.Int("derived_count", len(saved)-1))

	return &domain.PostedTransaction{Primary: saved[0], Derived: saved[1:]}, nil
}

// GetTransaction retrieves a primary entry together with its derived entries.
func (s *transactionService) GetTransaction(ctx context.Context, userID string, entryID string) (*domain.PostedTransaction, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.UserID != userID {
		// Obscure existence of other users' entries.
		return nil, apperrors.ErrNotFound
	}

	derived, err := s.entryRepo.FindDerivedEntries(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find derived entries for %s: %w", entryID, err)
	}
	return &domain.PostedTransaction{Primary: *entry, Derived: derived}, nil
}

// DeleteTransaction removes a live primary entry; its derived entries
// cascade so no one-sided commission or company posting survives. Settled
// entries are frozen and cannot be deleted.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID string, entryID string) error {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.UserID != userID {
		return apperrors.ErrNotFound
	}
	if entry.IsSettled {
		return fmt.Errorf("%w: entry %s is frozen by settlement", apperrors.ErrConflict, entryID)
	}

	// Capture affected parties before the cascade removes the rows.
	derived, err := s.entryRepo.FindDerivedEntries(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find derived entries for %s: %w", entryID, err)
	}

	if err := s.entryRepo.DeleteEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete entry", slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}

	affected := append([]domain.LedgerEntry{*entry}, derived...)
	s.invalidateParties(ctx, userID, affected)

	s.LogInfo(ctx, "Transaction deleted", slog.String("entry_id", entryID), slog.Int("cascaded", len(derived)))
	return nil
}

// invalidateParties drops the cached balance of every party touched by a
// write, through the single invalidation entry point.
func (s *transactionService) invalidateParties(ctx context.Context, userID string, entries []domain.LedgerEntry) {
	if s.cache == nil {
		return
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.PartyName]; ok {
			continue
		}
		seen[e.PartyName] = struct{}{}
		s.cache.InvalidateParty(ctx, userID, e.PartyName)
	}
}
