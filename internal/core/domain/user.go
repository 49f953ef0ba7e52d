package domain

import "github.com/shopspring/decimal"

// DefaultCommissionRate applies when neither the party nor the user
// configuration carries a rate (3%).
var DefaultCommissionRate = decimal.NewFromFloat(0.03)

// UserConfig holds the per-user ledger configuration consumed by
// virtual-entry generation and trial-balance exclusion rules.
type UserConfig struct {
	UserID      string `json:"userID"`
	CompanyName string `json:"companyName"` // Reserved company party name
	// DefaultCommissionRate overrides the built-in 3% default when set.
	// A party-level rate overrides both.
	DefaultCommissionRate *decimal.Decimal `json:"defaultCommissionRate,omitempty"`
	AuditFields
}

// CommissionRate resolves the effective commission rate for a party:
// party override, then user default, then the built-in default.
func (c UserConfig) CommissionRate(party *Party) decimal.Decimal {
	if party != nil && party.CommissionRate != nil {
		return *party.CommissionRate
	}
	if c.DefaultCommissionRate != nil {
		return *c.DefaultCommissionRate
	}
	return DefaultCommissionRate
}
