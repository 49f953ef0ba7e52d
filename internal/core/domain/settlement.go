package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is a "Monday Final" checkpoint: it freezes a party's live
// entries and records their net balance. Settlements chain — a new
// settlement's opening balance is the previous settlement's closing balance.
// Once created, a settlement and the entries it froze are immutable except
// for administrative repair.
type Settlement struct {
	SettlementID   string          `json:"settlementID"` // Primary Key (UUID)
	UserID         string          `json:"userID"`
	PartyID        string          `json:"partyID"`
	PartyName      string          `json:"partyName"`
	SettlementDate time.Time       `json:"settlementDate"`
	Balance        decimal.Decimal `json:"balance"` // Net closing balance at the moment of freezing
	// EntryID points at the settlement's own ledger entry (tagged with
	// SettlementRemark), which is settled from the moment of creation.
	EntryID string `json:"entryID"`
	AuditFields
}
