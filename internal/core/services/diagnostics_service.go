package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portsrepo "github.com/partybook/party_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
)

// diagnosticsService sweeps the ledger for settlement-link integrity
// defects. The sweep is strictly read-only; RepairOrphans is the separate
// administrator-invoked mutation.
type diagnosticsService struct {
	BaseService
	entryRepo      portsrepo.EntryRepositoryWithTx
	settlementRepo portsrepo.SettlementReader
}

// NewDiagnosticsService creates a new DiagnosticsService.
func NewDiagnosticsService(entryRepo portsrepo.EntryRepositoryWithTx, settlementRepo portsrepo.SettlementReader) portssvc.DiagnosticsSvcFacade {
	return &diagnosticsService{
		entryRepo:      entryRepo,
		settlementRepo: settlementRepo,
	}
}

var _ portssvc.DiagnosticsSvcFacade = (*diagnosticsService)(nil)

// RunDiagnostics cross-checks entries against settlements:
//   - orphan links: a settlement_id that does not resolve, or an is_settled
//     flag that disagrees with the link;
//   - dangling settlements: referenced by no entry and not the most recent
//     settlement for their party;
//   - stale unsettled entries: live entries created before a later
//     settlement for the same party.
func (s *diagnosticsService) RunDiagnostics(ctx context.Context, userID string, partyName *string) (*domain.DiagnosticsReport, error) {
	entries, err := s.entryRepo.ListEntries(ctx, userID, partyName)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries for diagnostics")
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	settlements, err := s.settlementRepo.ListSettlements(ctx, userID, partyName)
	if err != nil {
		s.LogError(ctx, err, "Failed to list settlements for diagnostics")
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	report := &domain.DiagnosticsReport{RanAt: time.Now().UTC()}

	settlementsByID := make(map[string]domain.Settlement, len(settlements))
	latestByParty := make(map[string]domain.Settlement)
	for _, st := range settlements {
		settlementsByID[st.SettlementID] = st
		if latest, ok := latestByParty[st.PartyName]; !ok || st.CreatedAt.After(latest.CreatedAt) {
			latestByParty[st.PartyName] = st
		}
	}

	referenced := make(map[string]bool, len(settlements))

	for _, entry := range entries {
		if entry.SettlementID != nil {
			if _, ok := settlementsByID[*entry.SettlementID]; !ok {
				report.Orphans = append(report.Orphans, domain.Finding{
					Kind:         domain.FindingOrphanLink,
					PartyName:    entry.PartyName,
					EntryID:      entry.EntryID,
					SettlementID: *entry.SettlementID,
					Detail:       "settlement link does not resolve to an existing settlement",
				})
			} else if entry.EntryID != settlementsByID[*entry.SettlementID].EntryID {
				referenced[*entry.SettlementID] = true
			}
			if !entry.IsSettled {
				report.Orphans = append(report.Orphans, domain.Finding{
					Kind:         domain.FindingOrphanLink,
					PartyName:    entry.PartyName,
					EntryID:      entry.EntryID,
					SettlementID: *entry.SettlementID,
					Detail:       "entry carries a settlement link but is not marked settled",
				})
			}
			continue
		}

		if entry.IsSettled {
			report.Orphans = append(report.Orphans, domain.Finding{
				Kind:      domain.FindingOrphanLink,
				PartyName: entry.PartyName,
				EntryID:   entry.EntryID,
				Detail:    "entry is marked settled but has no settlement link",
			})
			continue
		}

		// Live entry: flag it when a later settlement exists for its party.
		if latest, ok := latestByParty[entry.PartyName]; ok && entry.CreatedAt.Before(latest.CreatedAt) {
			report.StaleUnsettled = append(report.StaleUnsettled, domain.Finding{
				Kind:         domain.FindingStaleUnsettled,
				PartyName:    entry.PartyName,
				EntryID:      entry.EntryID,
				SettlementID: latest.SettlementID,
				Detail:       "live entry predates a later settlement for the same party",
			})
		}
	}

	for _, st := range settlements {
		if referenced[st.SettlementID] {
			continue
		}
		if latest, ok := latestByParty[st.PartyName]; ok && latest.SettlementID == st.SettlementID {
			continue
		}
		report.DanglingSettlements = append(report.DanglingSettlements, domain.Finding{
			Kind:         domain.FindingDanglingSettlement,
			PartyName:    st.PartyName,
			SettlementID: st.SettlementID,
			Detail:       "settlement is referenced by no entry and is not the party's latest",
		})
	}

	s.LogInfo(ctx, "Diagnostics sweep completed",
		slog.Int("orphans", len(report.Orphans)),
		slog.Int("dangling_settlements", len(report.DanglingSettlements)),
		slog.Int("stale_unsettled", len(report.StaleUnsettled)))
	return report, nil
}

// RepairOrphans re-links orphaned entries to the chronologically correct
// settlement, or clears the link (returning the entry to the live partition)
// when no settlement postdates the entry. Each applied repair is returned and
// logged as a distinct audit action; nothing is repaired silently.
func (s *diagnosticsService) RepairOrphans(ctx context.Context, userID string, partyName string, adminUserID string) ([]domain.RepairAction, error) {
	report, err := s.RunDiagnostics(ctx, userID, &partyName)
	if err != nil {
		return nil, err
	}
	if len(report.Orphans) == 0 {
		return nil, nil
	}

	settlements, err := s.settlementRepo.ListSettlements(ctx, userID, &partyName)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements for repair: %w", err)
	}

	now := time.Now().UTC()
	actions := make([]domain.RepairAction, 0, len(report.Orphans))
	for _, orphan := range report.Orphans {
		entry, err := s.entryRepo.FindEntryByID(ctx, orphan.EntryID)
		if err != nil {
			return actions, fmt.Errorf("failed to reload orphan entry %s: %w", orphan.EntryID, err)
		}
		if entry.UserID != userID {
			return actions, apperrors.ErrForbidden
		}

		target := earliestSettlementAfter(settlements, entry.CreatedAt)
		action := domain.RepairAction{EntryID: entry.EntryID, PartyName: entry.PartyName}
		if target != nil {
			action.SettlementID = &target.SettlementID
			action.Detail = "re-linked to the chronologically correct settlement"
			err = s.entryRepo.RelinkEntry(ctx, entry.EntryID, &target.SettlementID, true, adminUserID, now)
		} else {
			action.Detail = "cleared broken settlement link, entry returned to live partition"
			err = s.entryRepo.RelinkEntry(ctx, entry.EntryID, nil, false, adminUserID, now)
		}
		if err != nil {
			s.LogError(ctx, err, "Failed to repair orphan entry", slog.String("entry_id", entry.EntryID))
			return actions, fmt.Errorf("failed to repair entry %s: %w", entry.EntryID, err)
		}

		s.LogInfo(ctx, "Orphan entry repaired",
			slog.String("entry_id", entry.EntryID),
			slog.String("party", entry.PartyName),
			slog.String("admin_user_id", adminUserID),
			slog.String("action", action.Detail))
		actions = append(actions, action)
	}
	return actions, nil
}

// earliestSettlementAfter picks the first settlement created at or after t,
// the checkpoint that would have frozen an entry created at t.
func earliestSettlementAfter(settlements []domain.Settlement, t time.Time) *domain.Settlement {
	var target *domain.Settlement
	for i := range settlements {
		st := &settlements[i]
		if st.CreatedAt.Before(t) {
			continue
		}
		if target == nil || st.CreatedAt.Before(target.CreatedAt) {
			target = st
		}
	}
	return target
}
