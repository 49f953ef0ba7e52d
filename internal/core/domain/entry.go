package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a ledger entry is a Credit or a Debit.
type EntryType string

const (
	Credit EntryType = "CREDIT"
	Debit  EntryType = "DEBIT"
)

// SettlementRemark tags the ledger entry a settlement records for itself.
// Entries carrying this remark are excluded from raw trial-balance
// aggregation; their effect is already captured in the frozen balances.
const SettlementRemark = "Monday Final Settlement"

// LedgerEntry is the atomic unit of the ledger: one credit or debit posted
// against a party. Exactly one of Credit/Debit is non-zero.
type LedgerEntry struct {
	EntryID   string    `json:"entryID"` // Primary Key (UUID)
	UserID    string    `json:"userID"`  // Owning user
	PartyID   string    `json:"partyID"`
	PartyName string    `json:"partyName"` // Denormalized for display and remarks matching
	EntryType EntryType `json:"entryType"`
	// Credit and Debit mirror the source ledger's two-column shape; the
	// non-zero column must agree with EntryType.
	Credit    decimal.Decimal `json:"credit"`
	Debit     decimal.Decimal `json:"debit"`
	EntryDate time.Time       `json:"entryDate"` // Business date
	// Sequence is a monotonically increasing insert-order number. Ordering is
	// always (EntryDate, Sequence); creation timestamps are never re-parsed
	// for tie-breaking.
	Sequence int64  `json:"sequence"`
	Remarks  string `json:"remarks"`
	// IsSettled and SettlementID must agree: a settled entry points at the
	// settlement that froze it, a live entry points at nothing. Disagreement
	// is an orphan, surfaced by diagnostics.
	IsSettled    bool   `json:"isSettled"`
	SettlementID *string `json:"settlementID,omitempty"`
	// BalanceSnapshot is the running balance at the moment the entry was
	// frozen by a settlement. Unset while the entry is live.
	BalanceSnapshot *decimal.Decimal `json:"balanceSnapshot,omitempty"`
	// DerivedFromEntryID links a virtual entry (commission, company
	// counter-entry, mirror) back to the primary entry it was generated from.
	// Deleting the primary cascades to its derived entries.
	DerivedFromEntryID *string `json:"derivedFromEntryID,omitempty"`
	AuditFields
}

// Amount returns the magnitude of the entry regardless of polarity.
func (e LedgerEntry) Amount() decimal.Decimal {
	if e.EntryType == Credit {
		return e.Credit
	}
	return e.Debit
}

// Signed returns the entry's effect on a running balance: credits add,
// debits subtract.
func (e LedgerEntry) Signed() decimal.Decimal {
	if e.EntryType == Credit {
		return e.Credit
	}
	return e.Debit.Neg()
}

// IsSettlementEntry reports whether the entry is a settlement's own ledger
// representation.
func (e LedgerEntry) IsSettlementEntry() bool {
	return e.Remarks == SettlementRemark
}

// PostedTransaction is the result of posting one user transaction: the
// primary entry plus the virtual entries derived from it.
type PostedTransaction struct {
	Primary LedgerEntry   `json:"primary"`
	Derived []LedgerEntry `json:"derived"`
}
