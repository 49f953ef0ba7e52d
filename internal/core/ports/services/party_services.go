package services

import (
	"context"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/partybook/party_ledger_app/internal/dto"
)

// PartyReaderSvc defines read operations for parties.
type PartyReaderSvc interface {
	// GetPartyByName retrieves a party by its user-scoped name.
	GetPartyByName(ctx context.Context, userID string, name string) (*domain.Party, error)

	// ListParties retrieves all of a user's parties.
	ListParties(ctx context.Context, userID string) ([]domain.Party, error)
}

// PartyWriterSvc defines write operations for parties.
type PartyWriterSvc interface {
	// CreateParty creates a new party explicitly.
	CreateParty(ctx context.Context, userID string, req dto.CreatePartyRequest) (*domain.Party, error)

	// EnsureParty returns the named party, auto-creating it with the given
	// kind when it is first referenced.
	EnsureParty(ctx context.Context, userID string, name string, kind domain.PartyKind) (*domain.Party, error)

	// UpdateParty updates a party's mutable attributes.
	UpdateParty(ctx context.Context, userID string, partyName string, req dto.UpdatePartyRequest) (*domain.Party, error)

	// DeactivateParty soft-deactivates a party. Parties with referencing
	// entries are never physically deleted.
	DeactivateParty(ctx context.Context, userID string, partyName string) error
}

// PartySvcFacade combines all party-related service interfaces.
type PartySvcFacade interface {
	PartyReaderSvc
	PartyWriterSvc
}
