package dto

import (
	"time"

	"github.com/partybook/party_ledger_app/internal/core/domain"
)

// FindingResponse is one diagnostics finding.
type FindingResponse struct {
	Kind         string `json:"kind"`
	PartyName    string `json:"partyName"`
	EntryID      string `json:"entryID,omitempty"`
	SettlementID string `json:"settlementID,omitempty"`
	Detail       string `json:"detail"`
}

// DiagnosticsResponse groups findings per category.
type DiagnosticsResponse struct {
	Orphans             []FindingResponse `json:"orphans"`
	DanglingSettlements []FindingResponse `json:"danglingSettlements"`
	StaleUnsettled      []FindingResponse `json:"staleUnsettled"`
	Clean               bool              `json:"clean"`
	RanAt               time.Time         `json:"ranAt"`
}

// RepairRequest targets the admin repair operation at one party.
type RepairRequest struct {
	PartyName string `json:"partyName" binding:"required"`
}

// RepairActionResponse describes one applied repair.
type RepairActionResponse struct {
	EntryID      string  `json:"entryID"`
	PartyName    string  `json:"partyName"`
	SettlementID *string `json:"settlementID,omitempty"`
	Detail       string  `json:"detail"`
}

// RepairResponse lists the repairs applied by one invocation.
type RepairResponse struct {
	Actions []RepairActionResponse `json:"actions"`
}

func toFindingResponses(findings []domain.Finding) []FindingResponse {
	responses := make([]FindingResponse, len(findings))
	for i, f := range findings {
		responses[i] = FindingResponse{
			Kind:         string(f.Kind),
			PartyName:    f.PartyName,
			EntryID:      f.EntryID,
			SettlementID: f.SettlementID,
			Detail:       f.Detail,
		}
	}
	return responses
}

// ToDiagnosticsResponse converts a domain.DiagnosticsReport to its DTO.
func ToDiagnosticsResponse(r *domain.DiagnosticsReport) DiagnosticsResponse {
	return DiagnosticsResponse{
		Orphans:             toFindingResponses(r.Orphans),
		DanglingSettlements: toFindingResponses(r.DanglingSettlements),
		StaleUnsettled:      toFindingResponses(r.StaleUnsettled),
		Clean:               r.Empty(),
		RanAt:               r.RanAt,
	}
}

// ToRepairResponse converts applied repair actions to their DTO.
func ToRepairResponse(actions []domain.RepairAction) RepairResponse {
	responses := make([]RepairActionResponse, len(actions))
	for i, a := range actions {
		responses[i] = RepairActionResponse{
			EntryID:      a.EntryID,
			PartyName:    a.PartyName,
			SettlementID: a.SettlementID,
			Detail:       a.Detail,
		}
	}
	return RepairResponse{Actions: responses}
}
