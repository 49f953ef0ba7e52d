package dto

import (
	"time"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SettleRequest is the optional payload for settling a party. A missing
// settlement date defaults to the moment of settlement.
type SettleRequest struct {
	SettlementDate *time.Time `json:"settlementDate,omitempty"`
}

// SettlementResponse defines the data returned for a settlement checkpoint.
type SettlementResponse struct {
	SettlementID   string          `json:"settlementID"`
	PartyName      string          `json:"partyName"`
	SettlementDate time.Time       `json:"settlementDate"`
	Balance        decimal.Decimal `json:"balance"`
	EntryID        string          `json:"entryID"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToSettlementResponse converts a domain.Settlement to its DTO.
func ToSettlementResponse(s *domain.Settlement) SettlementResponse {
	return SettlementResponse{
		SettlementID:   s.SettlementID,
		PartyName:      s.PartyName,
		SettlementDate: s.SettlementDate,
		Balance:        s.Balance,
		EntryID:        s.EntryID,
		CreatedAt:      s.CreatedAt,
	}
}

// ToSettlementResponses converts a slice of domain.Settlement to its DTOs.
func ToSettlementResponses(settlements []domain.Settlement) []SettlementResponse {
	responses := make([]SettlementResponse, len(settlements))
	for i := range settlements {
		responses[i] = ToSettlementResponse(&settlements[i])
	}
	return responses
}
