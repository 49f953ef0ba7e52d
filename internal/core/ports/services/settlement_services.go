package services

import (
	"context"
	"time"

	"github.com/partybook/party_ledger_app/internal/core/domain"
)

// SettlementSvcFacade freezes a party's live entries into Monday Final
// checkpoints and reads the settlement chain.
type SettlementSvcFacade interface {
	// SettleParty freezes the party's current live entries into a new
	// settlement dated settlementDate (the creation instant when zero).
	// With zero live entries it is a no-op returning the latest settlement
	// unchanged.
	SettleParty(ctx context.Context, userID string, partyName string, settlementDate time.Time) (*domain.Settlement, error)

	// ListSettlements returns a user's settlements in chronological order,
	// optionally scoped to one party.
	ListSettlements(ctx context.Context, userID string, partyName *string) ([]domain.Settlement, error)
}
