package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/partybook/party_ledger_app/internal/core/services"
	"github.com/partybook/party_ledger_app/internal/dto"
)

type PartyServiceTestSuite struct {
	suite.Suite
	partyRepo *MockPartyRepository
	entryRepo *MockEntryRepository
	service   portssvc.PartySvcFacade
	ctx       context.Context
}

func (s *PartyServiceTestSuite) SetupTest() {
	s.partyRepo = new(MockPartyRepository)
	s.entryRepo = new(MockEntryRepository)
	s.service = services.NewPartyService(s.partyRepo, s.entryRepo)
	s.ctx = context.Background()
}

func (s *PartyServiceTestSuite) TestCreateParty_DefaultsToTakeMode() {
	req := dto.CreatePartyRequest{Name: "  " + testPartyName + "  ", SettlementEnabled: true}

	s.partyRepo.On("SaveParty", s.ctx, mock.MatchedBy(func(p domain.Party) bool {
		return p.Name == testPartyName &&
			p.Kind == domain.PartyRegular &&
			p.CommissionMode == domain.CommissionTake &&
			p.SettlementEnabled &&
			p.IsActive &&
			p.PartyID != ""
	})).Return(nil).Once()

	party, err := s.service.CreateParty(s.ctx, testUserID, req)

	s.Require().NoError(err)
	assert.Equal(s.T(), testPartyName, party.Name)
	s.partyRepo.AssertExpectations(s.T())
}

func (s *PartyServiceTestSuite) TestCreateParty_RejectsBlankName() {
	_, err := s.service.CreateParty(s.ctx, testUserID, dto.CreatePartyRequest{Name: "   "})

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	s.partyRepo.AssertNotCalled(s.T(), "SaveParty", s.ctx, mock.Anything)
}

func (s *PartyServiceTestSuite) TestCreateParty_RejectsReservedName() {
	_, err := s.service.CreateParty(s.ctx, testUserID, dto.CreatePartyRequest{Name: domain.CommissionPartyName})

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *PartyServiceTestSuite) TestCreateParty_DuplicateName() {
	s.partyRepo.On("SaveParty", s.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := s.service.CreateParty(s.ctx, testUserID, dto.CreatePartyRequest{Name: testPartyName})

	assert.ErrorIs(s.T(), err, apperrors.ErrDuplicate)
}

func (s *PartyServiceTestSuite) TestEnsureParty_ReturnsExistingUnchanged() {
	existing := regularParty(testPartyName)
	s.partyRepo.On("FindPartyByName", s.ctx, testUserID, testPartyName).Return(existing, nil).Once()

	party, err := s.service.EnsureParty(s.ctx, testUserID, testPartyName, domain.PartyRegular)

	s.Require().NoError(err)
	assert.Equal(s.T(), existing, party)
	s.partyRepo.AssertNotCalled(s.T(), "UpdateParty", s.ctx, mock.Anything)
	s.partyRepo.AssertNotCalled(s.T(), "SaveParty", s.ctx, mock.Anything)
}

func (s *PartyServiceTestSuite) TestEnsureParty_UpgradesRegularToReservedKind() {
	existing := regularParty("Apex Finance")
	s.partyRepo.On("FindPartyByName", s.ctx, testUserID, "Apex Finance").Return(existing, nil).Once()
	s.partyRepo.On("UpdateParty", s.ctx, mock.MatchedBy(func(p domain.Party) bool {
		return p.Kind == domain.PartyCompany
	})).Return(nil).Once()

	party, err := s.service.EnsureParty(s.ctx, testUserID, "Apex Finance", domain.PartyCompany)

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.PartyCompany, party.Kind)
	s.partyRepo.AssertExpectations(s.T())
}

func (s *PartyServiceTestSuite) TestEnsureParty_AutoCreatesRegularWithDefaults() {
	s.partyRepo.On("FindPartyByName", s.ctx, testUserID, testPartyName).
		Return(nil, apperrors.ErrNotFound).Once()
	s.partyRepo.On("SaveParty", s.ctx, mock.MatchedBy(func(p domain.Party) bool {
		return p.Kind == domain.PartyRegular &&
			p.CommissionMode == domain.CommissionTake &&
			p.SettlementEnabled &&
			p.IsActive
	})).Return(nil).Once()

	party, err := s.service.EnsureParty(s.ctx, testUserID, testPartyName, domain.PartyRegular)

	s.Require().NoError(err)
	assert.Equal(s.T(), testPartyName, party.Name)
	s.partyRepo.AssertExpectations(s.T())
}

func (s *PartyServiceTestSuite) TestEnsureParty_AutoCreatesReservedWithoutCommission() {
	s.partyRepo.On("FindPartyByName", s.ctx, testUserID, domain.CommissionPartyName).
		Return(nil, apperrors.ErrNotFound).Once()
	s.partyRepo.On("SaveParty", s.ctx, mock.MatchedBy(func(p domain.Party) bool {
		return p.Kind == domain.PartyCommission &&
			p.CommissionMode == domain.CommissionNone &&
			!p.SettlementEnabled
	})).Return(nil).Once()

	party, err := s.service.EnsureParty(s.ctx, testUserID, domain.CommissionPartyName, domain.PartyCommission)

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.PartyCommission, party.Kind)
}

func (s *PartyServiceTestSuite) TestEnsureParty_LostCreationRaceRefetches() {
	winner := regularParty(testPartyName)
	s.partyRepo.On("FindPartyByName", s.ctx, testUserID, testPartyName).
		Return(nil, apperrors.ErrNotFound).Once()
	s.partyRepo.On("SaveParty", s.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	s.partyRepo.On("FindPartyByName", s.ctx, testUserID, testPartyName).
		Return(winner, nil).Once()

	party, err := s.service.EnsureParty(s.ctx, testUserID, testPartyName, domain.PartyRegular)

	s.Require().NoError(err)
	assert.Equal(s.T(), winner, party)
	s.partyRepo.AssertExpectations(s.T())
}

func (s *PartyServiceTestSuite) TestUpdateParty_NilFieldsLeaveStateUntouched() {
	existing := regularParty(testPartyName)
	s.partyRepo.On("FindPartyByName", s.ctx, testUserID, testPartyName).Return(existing, nil).Once()

	party, err := s.service.UpdateParty(s.ctx, testUserID, testPartyName, dto.UpdatePartyRequest{})

	s.Require().NoError(err)
	assert.Equal(s.T(), existing, party)
	s.partyRepo.AssertNotCalled(s.T(), "UpdateParty", s.ctx, mock.Anything)
}

func (s *PartyServiceTestSuite) TestUpdateParty_AppliesProvidedFields() {
	existing := regularParty(testPartyName)
	mode := string(domain.CommissionGive)
	rate := decimal.NewFromFloat(0.02)
	disabled := false

	s.partyRepo.On("FindPartyByName", s.ctx, testUserID, testPartyName).Return(existing, nil).Once()
	s.partyRepo.On("UpdateParty", s.ctx, mock.MatchedBy(func(p domain.Party) bool {
		return p.CommissionMode == domain.CommissionGive &&
			p.CommissionRate != nil && p.CommissionRate.Equal(rate) &&
			!p.SettlementEnabled
	})).Return(nil).Once()

	party, err := s.service.UpdateParty(s.ctx, testUserID, testPartyName, dto.UpdatePartyRequest{
		CommissionMode:    &mode,
		CommissionRate:    &rate,
		SettlementEnabled: &disabled,
	})

	s.Require().NoError(err)
	assert.Equal(s.T(), domain.CommissionGive, party.CommissionMode)
	s.partyRepo.AssertExpectations(s.T())
}

func (s *PartyServiceTestSuite) TestDeactivateParty_NoEntriesDeletesPhysically() {
	existing := regularParty(testPartyName)
	s.partyRepo.On("FindPartyByName", s.ctx, testUserID, testPartyName).Return(existing, nil).Once()
	s.entryRepo.On("CountEntriesByParty", s.ctx, testUserID, testPartyName).Return(int64(0), nil).Once()
	s.partyRepo.On("DeleteParty", s.ctx, existing.PartyID).Return(nil).Once()

	err := s.service.DeactivateParty(s.ctx, testUserID, testPartyName)

	s.Require().NoError(err)
	s.partyRepo.AssertNotCalled(s.T(), "UpdateParty", s.ctx, mock.Anything)
}

func (s *PartyServiceTestSuite) TestDeactivateParty_WithEntriesSoftDeactivates() {
	existing := regularParty(testPartyName)
	s.partyRepo.On("FindPartyByName", s.ctx, testUserID, testPartyName).Return(existing, nil).Once()
	s.entryRepo.On("CountEntriesByParty", s.ctx, testUserID, testPartyName).Return(int64(12), nil).Once()
	s.partyRepo.On("UpdateParty", s.ctx, mock.MatchedBy(func(p domain.Party) bool {
		return !p.IsActive
	})).Return(nil).Once()

	err := s.service.DeactivateParty(s.ctx, testUserID, testPartyName)

	s.Require().NoError(err)
	s.partyRepo.AssertNotCalled(s.T(), "DeleteParty", s.ctx, existing.PartyID)
	s.partyRepo.AssertExpectations(s.T())
}

func TestPartyServiceSuite(t *testing.T) {
	suite.Run(t, new(PartyServiceTestSuite))
}
