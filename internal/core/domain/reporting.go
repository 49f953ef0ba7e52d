package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents one party's closing position in a trial balance
// report. Balance is signed: positive is net credit, negative is net debit.
type TrialBalanceRow struct {
	PartyID    string          `json:"partyID"`
	PartyName  string          `json:"partyName"`
	PartyKind  PartyKind       `json:"partyKind"`
	Balance    decimal.Decimal `json:"balance"`
	EntryCount int             `json:"entryCount"`
}

// TrialBalanceReport aggregates closing balances across all of a user's
// parties. CreditTotal and DebitTotal must be equal; a non-zero Difference is
// a correctness defect and is surfaced as data rather than raised as an
// error, so operators can see how far out of balance the ledger is.
type TrialBalanceReport struct {
	Parties     []TrialBalanceRow `json:"parties"`
	CreditTotal decimal.Decimal   `json:"creditTotal"`
	DebitTotal  decimal.Decimal   `json:"debitTotal"`
	Difference  decimal.Decimal   `json:"difference"`
}

// PartyStatement is the per-party running-balance view: the live entries with
// running balances, seeded by the most recent settlement.
type PartyStatement struct {
	PartyName      string            `json:"partyName"`
	OpeningBalance decimal.Decimal   `json:"openingBalance"` // Last settlement's frozen balance, zero if none
	Entries        []LedgerEntry     `json:"entries"`
	Running        []decimal.Decimal `json:"running"` // Running balance after each entry
	ClosingBalance decimal.Decimal   `json:"closingBalance"`
}
