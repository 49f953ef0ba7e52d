package mapping

import (
	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/partybook/party_ledger_app/internal/models"
)

// ToModelSettlement converts a domain Settlement to a model Settlement
func ToModelSettlement(d domain.Settlement) models.Settlement {
	return models.Settlement{
		SettlementID:   d.SettlementID,
		UserID:         d.UserID,
		PartyID:        d.PartyID,
		PartyName:      d.PartyName,
		SettlementDate: d.SettlementDate,
		Balance:        d.Balance,
		EntryID:        d.EntryID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSettlement converts a model Settlement to a domain Settlement
func ToDomainSettlement(m models.Settlement) domain.Settlement {
	return domain.Settlement{
		SettlementID:   m.SettlementID,
		UserID:         m.UserID,
		PartyID:        m.PartyID,
		PartyName:      m.PartyName,
		SettlementDate: m.SettlementDate,
		Balance:        m.Balance,
		EntryID:        m.EntryID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainSettlementSlice converts a slice of model Settlements to domain form
func ToDomainSettlementSlice(ms []models.Settlement) []domain.Settlement {
	ds := make([]domain.Settlement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSettlement(m)
	}
	return ds
}
