package dto

import (
	"time"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse is one party's row in the trial balance report.
type TrialBalanceRowResponse struct {
	PartyName  string          `json:"partyName"`
	Kind       string          `json:"kind"`
	Balance    decimal.Decimal `json:"balance"`
	EntryCount int             `json:"entryCount"`
}

// TrialBalanceResponse is the cross-party trial balance report. A non-zero
// difference means the ledger is out of balance.
type TrialBalanceResponse struct {
	Parties     []TrialBalanceRowResponse `json:"parties"`
	CreditTotal decimal.Decimal           `json:"creditTotal"`
	DebitTotal  decimal.Decimal           `json:"debitTotal"`
	Difference  decimal.Decimal           `json:"difference"`
	Balanced    bool                      `json:"balanced"`
	GeneratedAt time.Time                 `json:"generatedAt"`
}

// PartyStatementResponse is the per-party running balance view.
type PartyStatementResponse struct {
	PartyName      string            `json:"partyName"`
	OpeningBalance decimal.Decimal   `json:"openingBalance"`
	Entries        []EntryResponse   `json:"entries"`
	Running        []decimal.Decimal `json:"running"`
	ClosingBalance decimal.Decimal   `json:"closingBalance"`
}

// ToTrialBalanceResponse converts a domain.TrialBalanceReport to its DTO.
func ToTrialBalanceResponse(r *domain.TrialBalanceReport, generatedAt time.Time) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(r.Parties))
	for i, row := range r.Parties {
		rows[i] = TrialBalanceRowResponse{
			PartyName:  row.PartyName,
			Kind:       string(row.PartyKind),
			Balance:    row.Balance,
			EntryCount: row.EntryCount,
		}
	}
	return TrialBalanceResponse{
		Parties:     rows,
		CreditTotal: r.CreditTotal,
		DebitTotal:  r.DebitTotal,
		Difference:  r.Difference,
		Balanced:    r.Difference.IsZero(),
		GeneratedAt: generatedAt,
	}
}

// ToPartyStatementResponse converts a domain.PartyStatement to its DTO.
func ToPartyStatementResponse(s *domain.PartyStatement) PartyStatementResponse {
	return PartyStatementResponse{
		PartyName:      s.PartyName,
		OpeningBalance: s.OpeningBalance,
		Entries:        ToEntryResponses(s.Entries),
		Running:        s.Running,
		ClosingBalance: s.ClosingBalance,
	}
}
