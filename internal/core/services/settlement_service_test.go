package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	"github.com/partybook/party_ledger_app/internal/core/domain"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/partybook/party_ledger_app/internal/core/services"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	entryRepo      *MockEntryRepository
	settlementRepo *MockSettlementRepository
	partySvc       *MockPartyService
	cache          *MockBalanceCache
	service        portssvc.SettlementSvcFacade
	ctx            context.Context
}

func (s *SettlementServiceTestSuite) SetupTest() {
	s.entryRepo = new(MockEntryRepository)
	s.settlementRepo = new(MockSettlementRepository)
	s.partySvc = new(MockPartyService)
	s.cache = new(MockBalanceCache)
	s.service = services.NewSettlementService(s.entryRepo, s.settlementRepo, s.partySvc, services.WithSettlementCache(s.cache))
	s.ctx = context.Background()
}

func (s *SettlementServiceTestSuite) TestSettleParty_FreezesLivePartition() {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	entries := []domain.LedgerEntry{
		creditEntry("e1", 500, day, 1),
		debitEntry("e2", 200, day, 2),
	}

	s.partySvc.On("GetPartyByName", s.ctx, testUserID, testPartyName).
		Return(regularParty(testPartyName), nil).Once()
	s.settlementRepo.On("FindLatestSettlement", s.ctx, testUserID, testPartyName).
		Return(nil, apperrors.ErrNotFound).Once()
	s.entryRepo.On("ListUnsettledEntries", s.ctx, testUserID, testPartyName).
		Return(entries, nil).Once()
	s.settlementRepo.On("CreateSettlement", s.ctx,
		mock.MatchedBy(func(st domain.Settlement) bool {
			return st.PartyName == testPartyName && st.Balance.Equal(decimal.NewFromInt(300))
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			// Net credit of 300 is counter-balanced by a settled debit entry.
			return entry.EntryType == domain.Debit &&
				entry.Debit.Equal(decimal.NewFromInt(300)) &&
				entry.IsSettled &&
				entry.Remarks == domain.SettlementRemark &&
				entry.SettlementID != nil
		}),
		mock.MatchedBy(func(snapshots map[string]decimal.Decimal) bool {
			return len(snapshots) == 2 &&
				snapshots["e1"].Equal(decimal.NewFromInt(500)) &&
				snapshots["e2"].Equal(decimal.NewFromInt(300))
		}),
	).Return(nil).Once()
	s.cache.On("InvalidateParty", s.ctx, testUserID, testPartyName).Once()

	settlement, err := s.service.SettleParty(s.ctx, testUserID, testPartyName, time.Time{})

	s.Require().NoError(err)
	assert.True(s.T(), settlement.Balance.Equal(decimal.NewFromInt(300)))
	assert.Equal(s.T(), testPartyName, settlement.PartyName)
	assert.NotEmpty(s.T(), settlement.SettlementID)
	assert.NotEmpty(s.T(), settlement.EntryID)
	s.settlementRepo.AssertExpectations(s.T())
	s.cache.AssertExpectations(s.T())
}

func (s *SettlementServiceTestSuite) TestSettleParty_NegativeClosingCarriedAsCredit() {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	s.partySvc.On("GetPartyByName", s.ctx, testUserID, testPartyName).
		Return(regularParty(testPartyName), nil).Once()
	s.settlementRepo.On("FindLatestSettlement", s.ctx, testUserID, testPartyName).
		Return(nil, apperrors.ErrNotFound).Once()
	s.entryRepo.On("ListUnsettledEntries", s.ctx, testUserID, testPartyName).
		Return([]domain.LedgerEntry{debitEntry("e1", 400, day, 1)}, nil).Once()
	s.settlementRepo.On("CreateSettlement", s.ctx,
		mock.MatchedBy(func(st domain.Settlement) bool {
			return st.Balance.Equal(decimal.NewFromInt(-400))
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			return entry.EntryType == domain.Credit && entry.Credit.Equal(decimal.NewFromInt(400))
		}),
		mock.Anything,
	).Return(nil).Once()
	s.cache.On("InvalidateParty", s.ctx, testUserID, testPartyName).Once()

	settlement, err := s.service.SettleParty(s.ctx, testUserID, testPartyName, time.Time{})

	s.Require().NoError(err)
	assert.True(s.T(), settlement.Balance.Equal(decimal.NewFromInt(-400)))
}

func (s *SettlementServiceTestSuite) TestSettleParty_NetZeroPartitionSettles() {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	s.partySvc.On("GetPartyByName", s.ctx, testUserID, testPartyName).
		Return(regularParty(testPartyName), nil).Once()
	s.settlementRepo.On("FindLatestSettlement", s.ctx, testUserID, testPartyName).
		Return(nil, apperrors.ErrNotFound).Once()
	s.entryRepo.On("ListUnsettledEntries", s.ctx, testUserID, testPartyName).
		Return([]domain.LedgerEntry{
			creditEntry("e1", 200, day, 1),
			debitEntry("e2", 200, day, 2),
		}, nil).Once()
	s.settlementRepo.On("CreateSettlement", s.ctx,
		mock.MatchedBy(func(st domain.Settlement) bool {
			return st.Balance.IsZero()
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			// A zero closing is carried by an amount-less checkpoint entry.
			return entry.Credit.IsZero() && entry.Debit.IsZero() && entry.IsSettled
		}),
		mock.MatchedBy(func(snapshots map[string]decimal.Decimal) bool {
			return snapshots["e1"].Equal(decimal.NewFromInt(200)) && snapshots["e2"].IsZero()
		}),
	).Return(nil).Once()
	s.cache.On("InvalidateParty", s.ctx, testUserID, testPartyName).Once()

	settlement, err := s.service.SettleParty(s.ctx, testUserID, testPartyName, time.Time{})

	s.Require().NoError(err)
	assert.True(s.T(), settlement.Balance.IsZero())
	s.settlementRepo.AssertExpectations(s.T())
}

func (s *SettlementServiceTestSuite) TestSettleParty_UsesProvidedSettlementDate() {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mondayFinal := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	s.partySvc.On("GetPartyByName", s.ctx, testUserID, testPartyName).
		Return(regularParty(testPartyName), nil).Once()
	s.settlementRepo.On("FindLatestSettlement", s.ctx, testUserID, testPartyName).
		Return(nil, apperrors.ErrNotFound).Once()
	s.entryRepo.On("ListUnsettledEntries", s.ctx, testUserID, testPartyName).
		Return([]domain.LedgerEntry{creditEntry("e1", 100, day, 1)}, nil).Once()
	s.settlementRepo.On("CreateSettlement", s.ctx,
		mock.MatchedBy(func(st domain.Settlement) bool {
			// The business date is the caller's; created_at stays the
			// creation instant.
			return st.SettlementDate.Equal(mondayFinal) && !st.CreatedAt.Equal(mondayFinal)
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			return entry.EntryDate.Equal(mondayFinal)
		}),
		mock.Anything,
	).Return(nil).Once()
	s.cache.On("InvalidateParty", s.ctx, testUserID, testPartyName).Once()

	settlement, err := s.service.SettleParty(s.ctx, testUserID, testPartyName, mondayFinal)

	s.Require().NoError(err)
	assert.True(s.T(), settlement.SettlementDate.Equal(mondayFinal))
	s.settlementRepo.AssertExpectations(s.T())
}

func (s *SettlementServiceTestSuite) TestSettleParty_ChainsFromPreviousSettlement() {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	previous := &domain.Settlement{SettlementID: "st-1", PartyName: testPartyName, Balance: decimal.NewFromInt(300)}

	s.partySvc.On("GetPartyByName", s.ctx, testUserID, testPartyName).
		Return(regularParty(testPartyName), nil).Once()
	s.settlementRepo.On("FindLatestSettlement", s.ctx, testUserID, testPartyName).
		Return(previous, nil).Once()
	s.entryRepo.On("ListUnsettledEntries", s.ctx, testUserID, testPartyName).
		Return([]domain.LedgerEntry{creditEntry("e1", 100, day, 5)}, nil).Once()
	s.settlementRepo.On("CreateSettlement", s.ctx,
		mock.MatchedBy(func(st domain.Settlement) bool {
			return st.Balance.Equal(decimal.NewFromInt(400))
		}),
		mock.Anything,
		mock.MatchedBy(func(snapshots map[string]decimal.Decimal) bool {
			return snapshots["e1"].Equal(decimal.NewFromInt(400))
		}),
	).Return(nil).Once()
	s.cache.On("InvalidateParty", s.ctx, testUserID, testPartyName).Once()

	settlement, err := s.service.SettleParty(s.ctx, testUserID, testPartyName, time.Time{})

	s.Require().NoError(err)
	assert.True(s.T(), settlement.Balance.Equal(decimal.NewFromInt(400)))
}

func (s *SettlementServiceTestSuite) TestSettleParty_NoLiveEntriesIsIdempotentNoOp() {
	previous := &domain.Settlement{SettlementID: "st-1", PartyName: testPartyName, Balance: decimal.NewFromInt(300)}

	s.partySvc.On("GetPartyByName", s.ctx, testUserID, testPartyName).
		Return(regularParty(testPartyName), nil).Once()
	s.settlementRepo.On("FindLatestSettlement", s.ctx, testUserID, testPartyName).
		Return(previous, nil).Once()
	s.entryRepo.On("ListUnsettledEntries", s.ctx, testUserID, testPartyName).
		Return([]domain.LedgerEntry{}, nil).Once()

	settlement, err := s.service.SettleParty(s.ctx, testUserID, testPartyName, time.Time{})

	s.Require().NoError(err)
	assert.Equal(s.T(), "st-1", settlement.SettlementID)
	s.settlementRepo.AssertNotCalled(s.T(), "CreateSettlement", s.ctx, mock.Anything, mock.Anything, mock.Anything)
}

func (s *SettlementServiceTestSuite) TestSettleParty_NothingEverSettledIsRejected() {
	s.partySvc.On("GetPartyByName", s.ctx, testUserID, testPartyName).
		Return(regularParty(testPartyName), nil).Once()
	s.settlementRepo.On("FindLatestSettlement", s.ctx, testUserID, testPartyName).
		Return(nil, apperrors.ErrNotFound).Once()
	s.entryRepo.On("ListUnsettledEntries", s.ctx, testUserID, testPartyName).
		Return([]domain.LedgerEntry{}, nil).Once()

	_, err := s.service.SettleParty(s.ctx, testUserID, testPartyName, time.Time{})

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
}

func (s *SettlementServiceTestSuite) TestSettleParty_DisabledPartyIsRejected() {
	party := regularParty(testPartyName)
	party.SettlementEnabled = false

	s.partySvc.On("GetPartyByName", s.ctx, testUserID, testPartyName).
		Return(party, nil).Once()

	_, err := s.service.SettleParty(s.ctx, testUserID, testPartyName, time.Time{})

	assert.ErrorIs(s.T(), err, apperrors.ErrValidation)
	s.entryRepo.AssertNotCalled(s.T(), "ListUnsettledEntries", s.ctx, testUserID, testPartyName)
}

func (s *SettlementServiceTestSuite) TestSettleParty_LostRaceRetriesOnce() {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	winner := &domain.Settlement{SettlementID: "st-winner", PartyName: testPartyName, Balance: decimal.NewFromInt(300)}

	s.partySvc.On("GetPartyByName", s.ctx, testUserID, testPartyName).
		Return(regularParty(testPartyName), nil).Once()
	// First attempt: the partition looks live, but the store reports a
	// concurrent settlement froze it first.
	s.settlementRepo.On("FindLatestSettlement", s.ctx, testUserID, testPartyName).
		Return(nil, apperrors.ErrNotFound).Once()
	s.entryRepo.On("ListUnsettledEntries", s.ctx, testUserID, testPartyName).
		Return([]domain.LedgerEntry{creditEntry("e1", 300, day, 1)}, nil).Once()
	s.settlementRepo.On("CreateSettlement", s.ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrConflict).Once()
	// Retry: the winner's settlement is now the latest and nothing is live,
	// so the retry resolves to the idempotent no-op path.
	s.settlementRepo.On("FindLatestSettlement", s.ctx, testUserID, testPartyName).
		Return(winner, nil).Once()
	s.entryRepo.On("ListUnsettledEntries", s.ctx, testUserID, testPartyName).
		Return([]domain.LedgerEntry{}, nil).Once()

	settlement, err := s.service.SettleParty(s.ctx, testUserID, testPartyName, time.Time{})

	s.Require().NoError(err)
	assert.Equal(s.T(), "st-winner", settlement.SettlementID)
	s.settlementRepo.AssertExpectations(s.T())
	s.entryRepo.AssertExpectations(s.T())
}

func (s *SettlementServiceTestSuite) TestListSettlements_PassesPartyScope() {
	expected := []domain.Settlement{{SettlementID: "st-1", PartyName: testPartyName}}
	s.settlementRepo.On("ListSettlements", s.ctx, testUserID, (*string)(nil)).
		Return(expected, nil).Once()

	settlements, err := s.service.ListSettlements(s.ctx, testUserID, nil)

	s.Require().NoError(err)
	assert.Equal(s.T(), expected, settlements)
	s.settlementRepo.AssertExpectations(s.T())
}

func TestSettlementServiceSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
