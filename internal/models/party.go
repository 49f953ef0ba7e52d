package models

import "github.com/shopspring/decimal"

// PartyKind tags a party row as regular or one of the reserved kinds.
type PartyKind string

const (
	PartyRegular    PartyKind = "REGULAR"
	PartyCommission PartyKind = "COMMISSION"
	PartyCompany    PartyKind = "COMPANY"
)

// CommissionMode controls commission generation for a party's postings.
type CommissionMode string

const (
	CommissionTake CommissionMode = "TAKE"
	CommissionGive CommissionMode = "GIVE"
	CommissionNone CommissionMode = "NONE"
)

// Party is the persisted form of a counter-party. Names are unique per user.
type Party struct {
	PartyID           string           `json:"partyID"` // Primary Key (UUID)
	UserID            string           `json:"userID"`  // FK -> users
	Name              string           `json:"name"`
	Kind              PartyKind        `json:"kind"`
	CommissionMode    CommissionMode   `json:"commissionMode"`
	CommissionRate    *decimal.Decimal `json:"commissionRate,omitempty"` // Overrides the user default
	SettlementEnabled bool             `json:"settlementEnabled"`
	IsActive          bool             `json:"isActive"` // Soft-deactivation flag
	AuditFields
}
