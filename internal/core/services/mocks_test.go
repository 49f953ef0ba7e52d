package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/partybook/party_ledger_app/internal/core/domain"
	"github.com/partybook/party_ledger_app/internal/dto"
)

// MockEntryRepository is a mock type for the EntryRepositoryWithTx interface
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, userID string, partyName *string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, partyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) ListUnsettledEntries(ctx context.Context, userID string, partyName string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, userID, partyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) ListUnsettledEntriesByUser(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) FindDerivedEntries(ctx context.Context, primaryEntryID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, primaryEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) CountEntriesByParty(ctx context.Context, userID string, partyName string) (int64, error) {
	args := m.Called(ctx, userID, partyName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) SaveEntries(ctx context.Context, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, entries)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		// Echo the input batch, the way the store hands back what it wrote.
		return entries, nil
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockEntryRepository) RelinkEntry(ctx context.Context, entryID string, settlementID *string, isSettled bool, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, settlementID, isSettled, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockEntryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockEntryRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockEntryRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockSettlementRepository is a mock type for the SettlementRepositoryWithTx interface
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	args := m.Called(ctx, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) FindLatestSettlement(ctx context.Context, userID string, partyName string) (*domain.Settlement, error) {
	args := m.Called(ctx, userID, partyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) ListSettlements(ctx context.Context, userID string, partyName *string) ([]domain.Settlement, error) {
	args := m.Called(ctx, userID, partyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) ListLatestSettlements(ctx context.Context, userID string) (map[string]domain.Settlement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Settlement), args.Error(1)
}

func (m *MockSettlementRepository) CreateSettlement(ctx context.Context, settlement domain.Settlement, entry domain.LedgerEntry, snapshots map[string]decimal.Decimal) error {
	args := m.Called(ctx, settlement, entry, snapshots)
	return args.Error(0)
}

func (m *MockSettlementRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockSettlementRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSettlementRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockPartyRepository is a mock type for the PartyRepositoryFacade interface
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) FindPartyByName(ctx context.Context, userID string, name string) (*domain.Party, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) ListParties(ctx context.Context, userID string) ([]domain.Party, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Party), args.Error(1)
}

func (m *MockPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) DeleteParty(ctx context.Context, partyID string) error {
	args := m.Called(ctx, partyID)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserConfig(ctx context.Context, userID string) (*domain.UserConfig, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserConfig), args.Error(1)
}

func (m *MockUserRepository) SaveUserConfig(ctx context.Context, cfg domain.UserConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// MockPartyService is a mock type for the PartySvcFacade interface
type MockPartyService struct {
	mock.Mock
}

func (m *MockPartyService) GetPartyByName(ctx context.Context, userID string, name string) (*domain.Party, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyService) ListParties(ctx context.Context, userID string) ([]domain.Party, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Party), args.Error(1)
}

func (m *MockPartyService) CreateParty(ctx context.Context, userID string, req dto.CreatePartyRequest) (*domain.Party, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyService) EnsureParty(ctx context.Context, userID string, name string, kind domain.PartyKind) (*domain.Party, error) {
	args := m.Called(ctx, userID, name, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyService) UpdateParty(ctx context.Context, userID string, partyName string, req dto.UpdatePartyRequest) (*domain.Party, error) {
	args := m.Called(ctx, userID, partyName, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyService) DeactivateParty(ctx context.Context, userID string, partyName string) error {
	args := m.Called(ctx, userID, partyName)
	return args.Error(0)
}

// MockUserConfigService is a mock type for the UserConfigSvcFacade interface
type MockUserConfigService struct {
	mock.Mock
}

func (m *MockUserConfigService) GetUserConfig(ctx context.Context, userID string) (*domain.UserConfig, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserConfig), args.Error(1)
}

func (m *MockUserConfigService) UpdateUserConfig(ctx context.Context, userID string, req dto.UpdateUserConfigRequest) (*domain.UserConfig, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserConfig), args.Error(1)
}

// MockBalanceCache is a mock type for the PartyBalanceCache interface
type MockBalanceCache struct {
	mock.Mock
}

func (m *MockBalanceCache) GetClosingBalance(ctx context.Context, userID string, partyName string) (decimal.Decimal, bool) {
	args := m.Called(ctx, userID, partyName)
	return args.Get(0).(decimal.Decimal), args.Bool(1)
}

func (m *MockBalanceCache) SetClosingBalance(ctx context.Context, userID string, partyName string, balance decimal.Decimal) {
	m.Called(ctx, userID, partyName, balance)
}

func (m *MockBalanceCache) InvalidateParty(ctx context.Context, userID string, partyName string) {
	m.Called(ctx, userID, partyName)
}
