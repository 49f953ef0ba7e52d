package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/partybook/party_ledger_app/internal/core/services"
)

const adminUserID = "admin-1"

type DiagnosticsServiceTestSuite struct {
	suite.Suite
	entryRepo      *MockEntryRepository
	settlementRepo *MockSettlementRepository
	service        portssvc.DiagnosticsSvcFacade
	ctx            context.Context
}

func (s *DiagnosticsServiceTestSuite) SetupTest() {
	s.entryRepo = new(MockEntryRepository)
	s.settlementRepo = new(MockSettlementRepository)
	s.service = services.NewDiagnosticsService(s.entryRepo, s.settlementRepo)
	s.ctx = context.Background()
}

func partyScope(name string) interface{} {
	return mock.MatchedBy(func(p *string) bool { return p != nil && *p == name })
}

func settledEntry(id, party, settlementID string, createdAt time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      id,
		UserID:       testUserID,
		PartyName:    party,
		IsSettled:    true,
		SettlementID: &settlementID,
		AuditFields:  domain.AuditFields{CreatedAt: createdAt},
	}
}

func liveEntry(id, party string, createdAt time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     id,
		UserID:      testUserID,
		PartyName:   party,
		AuditFields: domain.AuditFields{CreatedAt: createdAt},
	}
}

func (s *DiagnosticsServiceTestSuite) TestRunDiagnostics_FindsEveryDefectKind() {
	t1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 0, 7)

	settlements := []domain.Settlement{
		{SettlementID: "st-old", PartyName: testPartyName, EntryID: "se-old", AuditFields: domain.AuditFields{CreatedAt: t1}},
		{SettlementID: "st-new", PartyName: testPartyName, EntryID: "se-new", AuditFields: domain.AuditFields{CreatedAt: t2}},
	}
	entries := []domain.LedgerEntry{
		settledEntry("e-ok", testPartyName, "st-new", t1),             // healthy, keeps st-new referenced
		settledEntry("e-ghost", testPartyName, "st-missing", t1),      // link resolves to nothing
		{EntryID: "e-flag", UserID: testUserID, PartyName: testPartyName, IsSettled: true}, // settled without a link
		liveEntry("e-stale", testPartyName, t1.Add(-time.Hour)),       // live but predates st-new
	}

	s.entryRepo.On("ListEntries", s.ctx, testUserID, (*string)(nil)).Return(entries, nil).Once()
	s.settlementRepo.On("ListSettlements", s.ctx, testUserID, (*string)(nil)).Return(settlements, nil).Once()

	report, err := s.service.RunDiagnostics(s.ctx, testUserID, nil)

	s.Require().NoError(err)
	s.Require().Len(report.Orphans, 2)
	assert.Equal(s.T(), "e-ghost", report.Orphans[0].EntryID)
	assert.Equal(s.T(), "e-flag", report.Orphans[1].EntryID)

	// st-old is referenced by nothing and is not the party's latest.
	s.Require().Len(report.DanglingSettlements, 1)
	assert.Equal(s.T(), "st-old", report.DanglingSettlements[0].SettlementID)

	s.Require().Len(report.StaleUnsettled, 1)
	assert.Equal(s.T(), "e-stale", report.StaleUnsettled[0].EntryID)
	assert.False(s.T(), report.Empty())
}

func (s *DiagnosticsServiceTestSuite) TestRunDiagnostics_CleanLedger() {
	t1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	settlements := []domain.Settlement{
		{SettlementID: "st-1", PartyName: testPartyName, EntryID: "se-1", AuditFields: domain.AuditFields{CreatedAt: t1}},
	}
	entries := []domain.LedgerEntry{
		settledEntry("e1", testPartyName, "st-1", t1.Add(-time.Hour)),
		liveEntry("e2", testPartyName, t1.Add(time.Hour)),
	}

	s.entryRepo.On("ListEntries", s.ctx, testUserID, (*string)(nil)).Return(entries, nil).Once()
	s.settlementRepo.On("ListSettlements", s.ctx, testUserID, (*string)(nil)).Return(settlements, nil).Once()

	report, err := s.service.RunDiagnostics(s.ctx, testUserID, nil)

	s.Require().NoError(err)
	assert.True(s.T(), report.Empty())
}

func (s *DiagnosticsServiceTestSuite) TestRunDiagnostics_SettlementOwnEntryDoesNotCountAsReference() {
	t1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 0, 7)
	settlements := []domain.Settlement{
		{SettlementID: "st-old", PartyName: testPartyName, EntryID: "se-old", AuditFields: domain.AuditFields{CreatedAt: t1}},
		{SettlementID: "st-new", PartyName: testPartyName, EntryID: "se-new", AuditFields: domain.AuditFields{CreatedAt: t2}},
	}
	// st-old is referenced only by its own settlement entry, which must not
	// keep it from being flagged as dangling.
	entries := []domain.LedgerEntry{
		settledEntry("se-old", testPartyName, "st-old", t1),
		settledEntry("se-new", testPartyName, "st-new", t2),
	}

	s.entryRepo.On("ListEntries", s.ctx, testUserID, (*string)(nil)).Return(entries, nil).Once()
	s.settlementRepo.On("ListSettlements", s.ctx, testUserID, (*string)(nil)).Return(settlements, nil).Once()

	report, err := s.service.RunDiagnostics(s.ctx, testUserID, nil)

	s.Require().NoError(err)
	s.Require().Len(report.DanglingSettlements, 1)
	assert.Equal(s.T(), "st-old", report.DanglingSettlements[0].SettlementID)
}

func (s *DiagnosticsServiceTestSuite) TestRepairOrphans_RelinksAndClears() {
	t1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	settlements := []domain.Settlement{
		{SettlementID: "st-1", PartyName: testPartyName, EntryID: "se-1", AuditFields: domain.AuditFields{CreatedAt: t1}},
	}
	ghost := settledEntry("e-ghost", testPartyName, "st-missing", t1.Add(-time.Hour))
	late := settledEntry("e-late", testPartyName, "st-missing", t1.Add(time.Hour))

	s.entryRepo.On("ListEntries", s.ctx, testUserID, partyScope(testPartyName)).
		Return([]domain.LedgerEntry{ghost, late}, nil).Once()
	s.settlementRepo.On("ListSettlements", s.ctx, testUserID, partyScope(testPartyName)).
		Return(settlements, nil).Twice()
	s.entryRepo.On("FindEntryByID", s.ctx, "e-ghost").Return(&ghost, nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, "e-late").Return(&late, nil).Once()
	// e-ghost predates st-1, so it is re-linked there; e-late postdates every
	// settlement, so its broken link is cleared.
	s.entryRepo.On("RelinkEntry", s.ctx, "e-ghost", mock.MatchedBy(func(p *string) bool {
		return p != nil && *p == "st-1"
	}), true, adminUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	s.entryRepo.On("RelinkEntry", s.ctx, "e-late", (*string)(nil), false, adminUserID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	actions, err := s.service.RepairOrphans(s.ctx, testUserID, testPartyName, adminUserID)

	s.Require().NoError(err)
	s.Require().Len(actions, 2)
	s.Require().NotNil(actions[0].SettlementID)
	assert.Equal(s.T(), "st-1", *actions[0].SettlementID)
	assert.Nil(s.T(), actions[1].SettlementID)
	s.entryRepo.AssertExpectations(s.T())
	s.settlementRepo.AssertExpectations(s.T())
}

func (s *DiagnosticsServiceTestSuite) TestRepairOrphans_NothingToRepair() {
	t1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	s.entryRepo.On("ListEntries", s.ctx, testUserID, partyScope(testPartyName)).
		Return([]domain.LedgerEntry{liveEntry("e1", testPartyName, t1)}, nil).Once()
	s.settlementRepo.On("ListSettlements", s.ctx, testUserID, partyScope(testPartyName)).
		Return([]domain.Settlement{}, nil).Once()

	actions, err := s.service.RepairOrphans(s.ctx, testUserID, testPartyName, adminUserID)

	s.Require().NoError(err)
	assert.Empty(s.T(), actions)
	s.entryRepo.AssertNotCalled(s.T(), "RelinkEntry", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DiagnosticsServiceTestSuite) TestRepairOrphans_RefusesForeignEntries() {
	t1 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	foreign := settledEntry("e-ghost", testPartyName, "st-missing", t1)
	foreign.UserID = "someone-else"
	listed := foreign
	listed.UserID = testUserID

	s.entryRepo.On("ListEntries", s.ctx, testUserID, partyScope(testPartyName)).
		Return([]domain.LedgerEntry{listed}, nil).Once()
	s.settlementRepo.On("ListSettlements", s.ctx, testUserID, partyScope(testPartyName)).
		Return([]domain.Settlement{}, nil).Twice()
	s.entryRepo.On("FindEntryByID", s.ctx, "e-ghost").Return(&foreign, nil).Once()

	_, err := s.service.RepairOrphans(s.ctx, testUserID, testPartyName, adminUserID)

	assert.ErrorIs(s.T(), err, apperrors.ErrForbidden)
	s.entryRepo.AssertNotCalled(s.T(), "RelinkEntry", s.ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDiagnosticsServiceSuite(t *testing.T) {
	suite.Run(t, new(DiagnosticsServiceTestSuite))
}
