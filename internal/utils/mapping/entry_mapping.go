package mapping

import (
	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/partybook/party_ledger_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
// The domain's two-column shape folds into at most one non-nil amount,
// matching the table's CHECK constraints. A zero amount maps to NULL: only
// settlement checkpoint entries for a net-zero balance carry one, and the
// store accepts no zero amount column.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	m := models.LedgerEntry{
		EntryID:            d.EntryID,
		UserID:             d.UserID,
		PartyID:            d.PartyID,
		PartyName:          d.PartyName,
		EntryType:          models.EntryType(d.EntryType),
		EntryDate:          d.EntryDate,
		Sequence:           d.Sequence,
		Remarks:            d.Remarks,
		IsSettled:          d.IsSettled,
		SettlementID:       d.SettlementID,
		BalanceSnapshot:    d.BalanceSnapshot,
		DerivedFromEntryID: d.DerivedFromEntryID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	if d.EntryType == domain.Credit {
		if !d.Credit.IsZero() {
			credit := d.Credit
			m.Credit = &credit
		}
	} else if !d.Debit.IsZero() {
		debit := d.Debit
		m.Debit = &debit
	}
	return m
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	d := domain.LedgerEntry{
		EntryID:            m.EntryID,
		UserID:             m.UserID,
		PartyID:            m.PartyID,
		PartyName:          m.PartyName,
		EntryType:          domain.EntryType(m.EntryType),
		EntryDate:          m.EntryDate,
		Sequence:           m.Sequence,
		Remarks:            m.Remarks,
		IsSettled:          m.IsSettled,
		SettlementID:       m.SettlementID,
		BalanceSnapshot:    m.BalanceSnapshot,
		DerivedFromEntryID: m.DerivedFromEntryID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
	if m.Credit != nil {
		d.Credit = *m.Credit
	}
	if m.Debit != nil {
		d.Debit = *m.Debit
	}
	return d
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to domain form
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
