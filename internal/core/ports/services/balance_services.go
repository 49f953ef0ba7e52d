package services

import (
	"context"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvcFacade computes running and closing balances over a party's live
// partition, seeded by the party's most recent settlement.
type BalanceSvcFacade interface {
	// ClosingBalance returns the party's current live closing balance.
	ClosingBalance(ctx context.Context, userID string, partyName string) (decimal.Decimal, error)

	// GetPartyStatement returns the live entries with running balances and
	// the settlement-seeded opening balance.
	GetPartyStatement(ctx context.Context, userID string, partyName string) (*domain.PartyStatement, error)
}
