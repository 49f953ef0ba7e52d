package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a ledger entry records a Credit or a Debit.
type EntryType string

const (
	Credit EntryType = "CREDIT"
	Debit  EntryType = "DEBIT"
)

// LedgerEntry is the persisted form of a ledger entry row. Exactly one of
// Credit and Debit is non-nil; the database enforces the same with a CHECK
// constraint.
type LedgerEntry struct {
	EntryID            string           `json:"entryID"` // Primary Key (UUID)
	UserID             string           `json:"userID"`  // FK -> users
	PartyID            string           `json:"partyID"` // FK -> parties (RESTRICT)
	PartyName          string           `json:"partyName"`
	EntryType          EntryType        `json:"entryType"`
	Credit             *decimal.Decimal `json:"credit,omitempty"`
	Debit              *decimal.Decimal `json:"debit,omitempty"`
	EntryDate          time.Time        `json:"entryDate"`
	Sequence           int64            `json:"sequence"` // BIGSERIAL, assigned on insert
	Remarks            string           `json:"remarks"`
	IsSettled          bool             `json:"isSettled"`
	SettlementID       *string          `json:"settlementID,omitempty"`       // FK -> settlements
	BalanceSnapshot    *decimal.Decimal `json:"balanceSnapshot,omitempty"`    // Running balance frozen at settlement
	DerivedFromEntryID *string          `json:"derivedFromEntryID,omitempty"` // FK -> entries (CASCADE)
	AuditFields
}
