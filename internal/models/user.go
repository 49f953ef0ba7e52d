package models

import "github.com/shopspring/decimal"

// UserConfig is the persisted per-user ledger configuration.
type UserConfig struct {
	UserID                string           `json:"userID"` // Primary Key, FK -> users
	CompanyName           string           `json:"companyName"`
	DefaultCommissionRate *decimal.Decimal `json:"defaultCommissionRate,omitempty"`
	AuditFields
}
