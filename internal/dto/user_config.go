package dto

import (
	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateUserConfigRequest is the payload for updating the per-user ledger
// configuration. Nil fields are left unchanged.
type UpdateUserConfigRequest struct {
	CompanyName           *string          `json:"companyName,omitempty"`
	DefaultCommissionRate *decimal.Decimal `json:"defaultCommissionRate,omitempty"`
}

// UserConfigResponse defines the data returned for a user's configuration.
type UserConfigResponse struct {
	UserID                string          `json:"userID"`
	CompanyName           string          `json:"companyName"`
	DefaultCommissionRate decimal.Decimal `json:"defaultCommissionRate"`
}

// ToUserConfigResponse converts a domain.UserConfig to its DTO, resolving the
// effective default commission rate.
func ToUserConfigResponse(c *domain.UserConfig) UserConfigResponse {
	return UserConfigResponse{
		UserID:                c.UserID,
		CompanyName:           c.CompanyName,
		DefaultCommissionRate: c.CommissionRate(nil),
	}
}
