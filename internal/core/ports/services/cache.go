package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// PartyBalanceCache is an advisory read-through cache of per-party closing
// balances. A stale or missing cache is never an error and never
// authoritative: settlement decisions always recompute from the store. Every
// write to a party's entry set must go through InvalidateParty, the single
// invalidation entry point.
type PartyBalanceCache interface {
	// GetClosingBalance returns the cached balance and whether it was present.
	GetClosingBalance(ctx context.Context, userID string, partyName string) (decimal.Decimal, bool)

	// SetClosingBalance stores the balance with the cache's TTL.
	SetClosingBalance(ctx context.Context, userID string, partyName string, balance decimal.Decimal)

	// InvalidateParty drops whatever is cached for (userID, partyName).
	InvalidateParty(ctx context.Context, userID string, partyName string)
}
