package services

import (
	"context"

	"github.com/partybook/party_ledger_app/internal/core/domain"
)

// ReportingSvcFacade produces cross-party reconciliation reports.
type ReportingSvcFacade interface {
	// TrialBalance aggregates closing balances across all of the user's
	// parties after applying the settlement/commission/company exclusion
	// rules. A non-zero difference is reported, never raised.
	TrialBalance(ctx context.Context, userID string) (*domain.TrialBalanceReport, error)
}
