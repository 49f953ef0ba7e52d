package mapping

import (
	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/partybook/party_ledger_app/internal/models"
)

// ToModelParty converts a domain Party to a model Party
func ToModelParty(d domain.Party) models.Party {
	return models.Party{
		PartyID:           d.PartyID,
		UserID:            d.UserID,
		Name:              d.Name,
		Kind:              models.PartyKind(d.Kind),
		CommissionMode:    models.CommissionMode(d.CommissionMode),
		CommissionRate:    d.CommissionRate,
		SettlementEnabled: d.SettlementEnabled,
		IsActive:          d.IsActive,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainParty converts a model Party to a domain Party
func ToDomainParty(m models.Party) domain.Party {
	return domain.Party{
		PartyID:           m.PartyID,
		UserID:            m.UserID,
		Name:              m.Name,
		Kind:              domain.PartyKind(m.Kind),
		CommissionMode:    domain.CommissionMode(m.CommissionMode),
		CommissionRate:    m.CommissionRate,
		SettlementEnabled: m.SettlementEnabled,
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPartySlice converts a slice of model Parties to domain form
func ToDomainPartySlice(ms []models.Party) []domain.Party {
	ds := make([]domain.Party, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainParty(m)
	}
	return ds
}
