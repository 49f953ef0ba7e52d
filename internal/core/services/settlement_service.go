package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// settlementService freezes a party's live entries into Monday Final
// checkpoints. Settlement decisions always read the store directly; the
// advisory balance cache is never consulted here.
type settlementService struct {
	BaseService
	entryRepo      portsrepo.EntryRepositoryWithTx
	settlementRepo portsrepo.SettlementRepositoryWithTx
	partySvc       portssvc.PartySvcFacade
	cache          portssvc.PartyBalanceCache
}

// SettlementServiceOption is a functional option for configuring the
// settlement service.
type SettlementServiceOption func(*settlementService)

// WithSettlementCache attaches the advisory balance cache so settlements can
// invalidate it after freezing.
func WithSettlementCache(cache portssvc.PartyBalanceCache) SettlementServiceOption {
	return func(s *settlementService) {
		s.cache = cache
	}
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(entryRepo portsrepo.EntryRepositoryWithTx, settlementRepo portsrepo.SettlementRepositoryWithTx, partySvc portssvc.PartySvcFacade, options ...SettlementServiceOption) portssvc.SettlementSvcFacade {
	svc := &settlementService{
		entryRepo:      entryRepo,
		settlementRepo: settlementRepo,
		partySvc:       partySvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// SettleParty freezes the party's current live partition into a new
// settlement. The settlement row, its own ledger entry, and the link updates
// on every previously-live entry are applied as one store transaction; a
// concurrent settlement for the same party makes that transaction fail with
// ErrConflict, which is retried once after re-reading state.
// settlementDate is the business date of the checkpoint; the zero value
// means the creation instant.
func (s *settlementService) SettleParty(ctx context.Context, userID string, partyName string, settlementDate time.Time) (*domain.Settlement, error) {
	party, err := s.partySvc.GetPartyByName(ctx, userID, partyName)
	if err != nil {
		return nil, err
	}
	if !party.SettlementEnabled {
		return nil, fmt.Errorf("%w: settlement is disabled for party %s", apperrors.ErrValidation, party.Name)
	}

	settlement, err := s.settleOnce(ctx, userID, party, settlementDate)
	if err == nil || !errors.Is(err, apperrors.ErrConflict) {
		return settlement, err
	}

	// Lost the race: another settlement finished first. Re-read and retry
	// exactly once; if the winner already froze everything this becomes the
	// idempotent no-op path.
	s.LogWarn(ctx, "Settlement conflict, retrying once",
		slog.String("party", party.Name), slog.String("error", err.Error()))
	return s.settleOnce(ctx, userID, party, settlementDate)
}

func (s *settlementService) settleOnce(ctx context.Context, userID string, party *domain.Party, settlementDate time.Time) (*domain.Settlement, error) {
	// Seed with the chronologically latest settlement's frozen balance.
	seed := decimal.Zero
	latest, err := s.settlementRepo.FindLatestSettlement(ctx, userID, party.Name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find latest settlement for party %s: %w", party.Name, err)
	}
	if latest != nil {
		seed = latest.Balance
	}

	entries, err := s.entryRepo.ListUnsettledEntries(ctx, userID, party.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled entries for party %s: %w", party.Name, err)
	}

	// Nothing live to freeze: no-op, the prior settlement stands unchanged.
	if len(entries) == 0 {
		if latest == nil {
			return nil, fmt.Errorf("%w: party %s has no entries to settle", apperrors.ErrValidation, party.Name)
		}
		s.LogInfo(ctx, "No unsettled entries, returning existing settlement",
			slog.String("party", party.Name), slog.String("settlement_id", latest.SettlementID))
		return latest, nil
	}

	SortEntries(entries)
	running, closing := AccumulateBalances(entries, seed)

	snapshots := make(map[string]decimal.Decimal, len(entries))
	for i := range entries {
		snapshots[entries[i].EntryID] = running[i]
	}

	now := time.Now().UTC()
	if settlementDate.IsZero() {
		settlementDate = now
	}
	settlement := domain.Settlement{
		SettlementID:   uuid.NewString(),
		UserID:         userID,
		PartyID:        party.PartyID,
		PartyName:      party.Name,
		SettlementDate: settlementDate,
		Balance:        closing,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	settlement.EntryID = uuid.NewString()

	entry := s.settlementEntry(settlement, closing)

	if err := s.settlementRepo.CreateSettlement(ctx, settlement, entry, snapshots); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: concurrent settlement for party %s", apperrors.ErrConflict, party.Name)
		}
		s.LogError(ctx, err, "Failed to create settlement",
			slog.String("party", party.Name), slog.Int("entry_count", len(entries)))
		return nil, fmt.Errorf("failed to create settlement for party %s: %w", party.Name, err)
	}

	if s.cache != nil {
		s.cache.InvalidateParty(ctx, userID, party.Name)
	}

	s.LogInfo(ctx, "Party settled",
		slog.String("party", party.Name),
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("balance", closing.String()),
		slog.Int("frozen_entries", len(entries)))
	return &settlement, nil
}

// settlementEntry builds the settlement's own ledger representation: settled
// from the moment of creation and tagged with the settlement remark, so a
// later settlement's opening balance can chain from this one's closing.
func (s *settlementService) settlementEntry(settlement domain.Settlement, closing decimal.Decimal) domain.LedgerEntry {
	entry := domain.LedgerEntry{
		EntryID:      settlement.EntryID,
		UserID:       settlement.UserID,
		PartyID:      settlement.PartyID,
		PartyName:    settlement.PartyName,
		EntryDate:    settlement.SettlementDate,
		Remarks:      domain.SettlementRemark,
		IsSettled:    true,
		SettlementID: &settlement.SettlementID,
		AuditFields:  settlement.AuditFields,
	}
	snapshot := closing
	entry.BalanceSnapshot = &snapshot

	// The entry's polarity counter-balances the frozen net: a net-credit
	// balance is carried as a debit (and vice versa), so the live partition
	// restarts from the frozen seed rather than double-counting it.
	if closing.IsNegative() {
		entry.EntryType = domain.Credit
		entry.Credit = closing.Abs()
	} else {
		entry.EntryType = domain.Debit
		entry.Debit = closing
	}
	return entry
}

// ListSettlements returns a user's settlements in chronological order.
func (s *settlementService) ListSettlements(ctx context.Context, userID string, partyName *string) ([]domain.Settlement, error) {
	settlements, err := s.settlementRepo.ListSettlements(ctx, userID, partyName)
	if err != nil {
		s.LogError(ctx, err, "Failed to list settlements")
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}
