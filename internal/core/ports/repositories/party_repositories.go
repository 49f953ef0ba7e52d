package repositories

import (
	"context"

	"github.com/partybook/party_ledger_app/internal/core/domain"
)

// PartyReader defines read operations for parties.
type PartyReader interface {
	// FindPartyByID retrieves a party by its unique identifier.
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)

	// FindPartyByName retrieves a party by its user-scoped name.
	FindPartyByName(ctx context.Context, userID string, name string) (*domain.Party, error)

	// ListParties retrieves all of a user's parties, active and inactive.
	ListParties(ctx context.Context, userID string) ([]domain.Party, error)
}

// PartyWriter defines write operations for parties.
type PartyWriter interface {
	// SaveParty inserts a new party. Returns apperrors.ErrDuplicate when the
	// (user, name) pair already exists.
	SaveParty(ctx context.Context, party domain.Party) error

	// UpdateParty rewrites a party's mutable attributes (mode, rate, flags,
	// kind re-tagging on company rename).
	UpdateParty(ctx context.Context, party domain.Party) error

	// DeleteParty physically removes a party. The store must refuse while
	// ledger entries still reference it; callers soft-deactivate instead.
	DeleteParty(ctx context.Context, partyID string) error
}

// PartyRepositoryFacade combines all party repository interfaces.
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
}
