package domain

import "time"

// FindingKind classifies a diagnostics finding.
type FindingKind string

const (
	// FindingOrphanLink is an entry whose settlement_id does not resolve to
	// an existing settlement.
	FindingOrphanLink FindingKind = "ORPHAN_LINK"
	// FindingDanglingSettlement is a settlement no entry references and which
	// is not the most recent settlement for its party.
	FindingDanglingSettlement FindingKind = "DANGLING_SETTLEMENT"
	// FindingStaleUnsettled is a live entry created before a later settlement
	// for the same party, indicating a broken settle transition.
	FindingStaleUnsettled FindingKind = "STALE_UNSETTLED"
)

// Finding is a single diagnostics result. Diagnostics never mutate state;
// repair is a separate, explicitly invoked administrative operation.
type Finding struct {
	Kind         FindingKind `json:"kind"`
	PartyName    string      `json:"partyName"`
	EntryID      string      `json:"entryID,omitempty"`
	SettlementID string      `json:"settlementID,omitempty"`
	Detail       string      `json:"detail"`
}

// DiagnosticsReport groups findings per category for one user (optionally
// scoped to a single party).
type DiagnosticsReport struct {
	Orphans             []Finding `json:"orphans"`
	DanglingSettlements []Finding `json:"danglingSettlements"`
	StaleUnsettled      []Finding `json:"staleUnsettled"`
	RanAt               time.Time `json:"ranAt"`
}

// Empty reports whether the sweep found nothing.
func (r DiagnosticsReport) Empty() bool {
	return len(r.Orphans) == 0 && len(r.DanglingSettlements) == 0 && len(r.StaleUnsettled) == 0
}

// RepairAction records one administrative repair applied to an orphaned
// entry, for the audit trail.
type RepairAction struct {
	EntryID      string  `json:"entryID"`
	PartyName    string  `json:"partyName"`
	SettlementID *string `json:"settlementID,omitempty"` // Re-linked target, nil when the link was cleared
	Detail       string  `json:"detail"`
}
