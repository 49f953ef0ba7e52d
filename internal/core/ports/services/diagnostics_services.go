package services

import (
	"context"

	"github.com/partybook/party_ledger_app/internal/core/domain"
)

// DiagnosticsSvcFacade runs read-only integrity sweeps and the separate
// administrator repair operation.
type DiagnosticsSvcFacade interface {
	// RunDiagnostics sweeps a user's entries (optionally one party) for
	// orphaned links, dangling settlements and stale unsettled entries.
	// It never mutates state.
	RunDiagnostics(ctx context.Context, userID string, partyName *string) (*domain.DiagnosticsReport, error)

	// RepairOrphans re-links or clears orphaned settlement references for a
	// party. Explicitly administrator-invoked; every change is returned for
	// the audit log.
	RepairOrphans(ctx context.Context, userID string, partyName string, adminUserID string) ([]domain.RepairAction, error)
}
