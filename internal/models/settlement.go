package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is the persisted form of a Monday Final settlement checkpoint.
type Settlement struct {
	SettlementID   string          `json:"settlementID"` // Primary Key (UUID)
	UserID         string          `json:"userID"`       // FK -> users
	PartyID        string          `json:"partyID"`      // FK -> parties
	PartyName      string          `json:"partyName"`
	SettlementDate time.Time       `json:"settlementDate"`
	Balance        decimal.Decimal `json:"balance"` // Closing balance frozen by this settlement
	EntryID        string          `json:"entryID"` // The settlement entry carrying the counter-balance
	AuditFields
}
