package mapping

import (
	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/partybook/party_ledger_app/internal/models"
)

// ToModelUserConfig converts a domain UserConfig to a model UserConfig
func ToModelUserConfig(d domain.UserConfig) models.UserConfig {
	return models.UserConfig{
		UserID:                d.UserID,
		CompanyName:           d.CompanyName,
		DefaultCommissionRate: d.DefaultCommissionRate,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUserConfig converts a model UserConfig to a domain UserConfig
func ToDomainUserConfig(m models.UserConfig) domain.UserConfig {
	return domain.UserConfig{
		UserID:                m.UserID,
		CompanyName:           m.CompanyName,
		DefaultCommissionRate: m.DefaultCommissionRate,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}
