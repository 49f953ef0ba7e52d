package dto

import (
	"time"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePartyRequest is the payload for explicitly creating a party.
type CreatePartyRequest struct {
	Name              string           `json:"name" binding:"required"`
	CommissionMode    string           `json:"commissionMode" binding:"omitempty,oneof=TAKE GIVE NONE"`
	CommissionRate    *decimal.Decimal `json:"commissionRate,omitempty"`
	SettlementEnabled bool             `json:"settlementEnabled"`
}

// UpdatePartyRequest is the payload for updating a party's mutable
// attributes. Nil fields are left unchanged.
type UpdatePartyRequest struct {
	CommissionMode    *string          `json:"commissionMode,omitempty" binding:"omitempty,oneof=TAKE GIVE NONE"`
	CommissionRate    *decimal.Decimal `json:"commissionRate,omitempty"`
	SettlementEnabled *bool            `json:"settlementEnabled,omitempty"`
}

// PartyResponse defines the data returned for a party.
type PartyResponse struct {
	PartyID           string           `json:"partyID"`
	Name              string           `json:"name"`
	Kind              string           `json:"kind"`
	CommissionMode    string           `json:"commissionMode"`
	CommissionRate    *decimal.Decimal `json:"commissionRate,omitempty"`
	SettlementEnabled bool             `json:"settlementEnabled"`
	IsActive          bool             `json:"isActive"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// ToPartyResponse converts a domain.Party to a PartyResponse DTO.
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:           p.PartyID,
		Name:              p.Name,
		Kind:              string(p.Kind),
		CommissionMode:    string(p.CommissionMode),
		CommissionRate:    p.CommissionRate,
		SettlementEnabled: p.SettlementEnabled,
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
	}
}

// ToPartyResponses converts a slice of domain.Party to []PartyResponse.
func ToPartyResponses(parties []domain.Party) []PartyResponse {
	responses := make([]PartyResponse, len(parties))
	for i := range parties {
		responses[i] = ToPartyResponse(&parties[i])
	}
	return responses
}
