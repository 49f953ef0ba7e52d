package domain

import "github.com/shopspring/decimal"

// PartyKind tags a party as a regular counter-party or one of the reserved
// virtual parties. It is set once at creation and consulted everywhere instead
// of re-deriving the role from name or remark text.
type PartyKind string

const (
	PartyRegular    PartyKind = "REGULAR"
	PartyCommission PartyKind = "COMMISSION"
	PartyCompany    PartyKind = "COMPANY"
)

// CommissionMode indicates which direction commission flows for a party.
type CommissionMode string

const (
	CommissionTake CommissionMode = "TAKE"
	CommissionGive CommissionMode = "GIVE"
	CommissionNone CommissionMode = "NONE"
)

// CommissionPartyName is the reserved name of the per-user commission party.
const CommissionPartyName = "Commission"

// MirrorPartyTake and MirrorPartyGive are the fixed pair of counterparty
// names whose transactions mirror each other with opposite polarity.
const (
	MirrorPartyTake = "Take"
	MirrorPartyGive = "Give"
)

// Party represents a counter-party in a user's ledger. Party names are unique
// within a user's scope.
type Party struct {
	PartyID           string           `json:"partyID"` // Primary Key (UUID)
	UserID            string           `json:"userID"`  // Owning user
	Name              string           `json:"name"`
	Kind              PartyKind        `json:"kind"`
	CommissionMode    CommissionMode   `json:"commissionMode"`
	CommissionRate    *decimal.Decimal `json:"commissionRate,omitempty"` // Overrides the user default when set
	SettlementEnabled bool             `json:"settlementEnabled"`
	IsActive          bool             `json:"isActive"` // Soft-deactivation flag; parties with entries are never deleted
	AuditFields
}

// IsReserved reports whether the party is one of the virtual parties that
// virtual-entry generation must never recurse into.
func (p Party) IsReserved() bool {
	return p.Kind == PartyCommission || p.Kind == PartyCompany
}
