package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// balanceService computes running and closing balances over the live
// partition of a party's ledger, seeded by the most recent settlement.
type balanceService struct {
	BaseService
	entryRepo      portsrepo.EntryReader
	settlementRepo portsrepo.SettlementReader
	cache          portssvc.PartyBalanceCache
}

// BalanceServiceOption is a functional option for configuring the balance service.
type BalanceServiceOption func(*balanceService)

// WithBalanceCache attaches an advisory closing-balance cache.
func WithBalanceCache(cache portssvc.PartyBalanceCache) BalanceServiceOption {
	return func(s *balanceService) {
		s.cache = cache
	}
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(entryRepo portsrepo.EntryReader, settlementRepo portsrepo.SettlementReader, options ...BalanceServiceOption) portssvc.BalanceSvcFacade {
	svc := &balanceService{
		entryRepo:      entryRepo,
		settlementRepo: settlementRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// SortEntries orders entries by (business date asc, insert sequence asc).
// The sequence number is assigned at insert time and is the only tie-break;
// creation timestamps are never re-derived for ordering.
func SortEntries(entries []domain.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.Before(entries[j].EntryDate)
		}
		return entries[i].Sequence < entries[j].Sequence
	})
}

// AccumulateBalances folds an ordered entry sequence into a running balance
// stream starting from seed. Credits add, debits subtract. An empty input
// yields the seed and no error.
func AccumulateBalances(entries []domain.LedgerEntry, seed decimal.Decimal) ([]decimal.Decimal, decimal.Decimal) {
	running := make([]decimal.Decimal, len(entries))
	balance := seed
	for i := range entries {
		balance = balance.Add(entries[i].Signed())
		running[i] = balance
	}
	return running, balance
}

// seedBalance returns the frozen balance of the party's latest settlement,
// or zero when the party has never been settled.
func (s *balanceService) seedBalance(ctx context.Context, userID, partyName string) (decimal.Decimal, error) {
	latest, err := s.settlementRepo.FindLatestSettlement(ctx, userID, partyName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to find latest settlement for party %s: %w", partyName, err)
	}
	return latest.Balance, nil
}

// ClosingBalance returns the party's current live closing balance. The cache
// is consulted first but is advisory only; misses recompute from the store.
func (s *balanceService) ClosingBalance(ctx context.Context, userID string, partyName string) (decimal.Decimal, error) {
	if s.cache != nil {
		if balance, ok := s.cache.GetClosingBalance(ctx, userID, partyName); ok {
			s.LogDebug(ctx, "Closing balance served from cache", slog.String("party", partyName))
			return balance, nil
		}
	}

	statement, err := s.GetPartyStatement(ctx, userID, partyName)
	if err != nil {
		return decimal.Zero, err
	}

	if s.cache != nil {
		s.cache.SetClosingBalance(ctx, userID, partyName, statement.ClosingBalance)
	}
	return statement.ClosingBalance, nil
}

// GetPartyStatement loads the party's unsettled partition, orders it, and
// accumulates running balances on top of the settlement seed.
func (s *balanceService) GetPartyStatement(ctx context.Context, userID string, partyName string) (*domain.PartyStatement, error) {
	seed, err := s.seedBalance(ctx, userID, partyName)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve settlement seed", slog.String("party", partyName))
		return nil, err
	}

	entries, err := s.entryRepo.ListUnsettledEntries(ctx, userID, partyName)
	if err != nil {
		s.LogError(ctx, err, "Failed to list unsettled entries", slog.String("party", partyName))
		return nil, fmt.Errorf("failed to list unsettled entries for party %s: %w", partyName, err)
	}

	SortEntries(entries)
	running, closing := AccumulateBalances(entries, seed)

	return &domain.PartyStatement{
		PartyName:      partyName,
		OpeningBalance: seed,
		Entries:        entries,
		Running:        running,
		ClosingBalance: closing,
	}, nil
}
