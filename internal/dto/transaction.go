package dto

import (
	"time"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the payload for posting a new ledger
// transaction against a party.
type CreateTransactionRequest struct {
	PartyName string          `json:"partyName" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=CREDIT DEBIT"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Date      time.Time       `json:"date" binding:"required"`
	Remarks   string          `json:"remarks"`
}

// EntryResponse defines the data returned for a single ledger entry.
type EntryResponse struct {
	EntryID            string           `json:"entryID"`
	PartyName          string           `json:"partyName"`
	Type               string           `json:"type"` // CREDIT or DEBIT
	Amount             decimal.Decimal  `json:"amount"`
	Date               time.Time        `json:"date"`
	Sequence           int64            `json:"sequence"`
	Remarks            string           `json:"remarks,omitempty"`
	IsSettled          bool             `json:"isSettled"`
	SettlementID       *string          `json:"settlementID,omitempty"`
	BalanceSnapshot    *decimal.Decimal `json:"balanceSnapshot,omitempty"`
	DerivedFromEntryID *string          `json:"derivedFromEntryID,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
}

// PostedTransactionResponse is the combined response for a posted
// transaction: the primary entry plus its derived virtual entries.
type PostedTransactionResponse struct {
	Primary EntryResponse   `json:"primary"`
	Derived []EntryResponse `json:"derived"`
}

// ToEntryResponse converts a domain.LedgerEntry to an EntryResponse DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:            e.EntryID,
		PartyName:          e.PartyName,
		Type:               string(e.EntryType),
		Amount:             e.Amount(),
		Date:               e.EntryDate,
		Sequence:           e.Sequence,
		Remarks:            e.Remarks,
		IsSettled:          e.IsSettled,
		SettlementID:       e.SettlementID,
		BalanceSnapshot:    e.BalanceSnapshot,
		DerivedFromEntryID: e.DerivedFromEntryID,
		CreatedAt:          e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of domain.LedgerEntry to []EntryResponse.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

// ToPostedTransactionResponse converts a domain.PostedTransaction to its DTO.
func ToPostedTransactionResponse(p *domain.PostedTransaction) PostedTransactionResponse {
	return PostedTransactionResponse{
		Primary: ToEntryResponse(&p.Primary),
		Derived: ToEntryResponses(p.Derived),
	}
}
