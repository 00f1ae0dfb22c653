package mocks

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/store/escrowtrade"
)

type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(tx *gorm.DB, user *model.User) (*model.User, error) {
	args := m.Called(tx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserStore) GetByID(tx *gorm.DB, id string) (*model.User, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserStore) GetByEmail(tx *gorm.DB, email string) (*model.User, error) {
	args := m.Called(tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *UserStore) UpdateKYCStatus(tx *gorm.DB, id string, status model.KYCStatus) error {
	return m.Called(tx, id, status).Error(0)
}

func (m *UserStore) UpdateRole(tx *gorm.DB, id string, role model.UserRole) error {
	return m.Called(tx, id, role).Error(0)
}

type CryptocurrencyStore struct {
	mock.Mock
}

func (m *CryptocurrencyStore) ListActive(tx *gorm.DB) ([]model.Cryptocurrency, error) {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Cryptocurrency), args.Error(1)
}

func (m *CryptocurrencyStore) GetBySymbol(tx *gorm.DB, symbol string) (*model.Cryptocurrency, error) {
	args := m.Called(tx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cryptocurrency), args.Error(1)
}

func (m *CryptocurrencyStore) Upsert(tx *gorm.DB, c *model.Cryptocurrency) error {
	return m.Called(tx, c).Error(0)
}

type MarketRateStore struct {
	mock.Mock
}

func (m *MarketRateStore) List(tx *gorm.DB) ([]model.MarketRate, error) {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MarketRate), args.Error(1)
}

func (m *MarketRateStore) GetBySymbol(tx *gorm.DB, symbol string) (*model.MarketRate, error) {
	args := m.Called(tx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MarketRate), args.Error(1)
}

func (m *MarketRateStore) Upsert(tx *gorm.DB, rate *model.MarketRate) (*model.MarketRate, error) {
	args := m.Called(tx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MarketRate), args.Error(1)
}

func (m *MarketRateStore) InsertMissing(tx *gorm.DB, rate *model.MarketRate) (bool, error) {
	args := m.Called(tx, rate)
	return args.Bool(0), args.Error(1)
}

type SwapTransactionStore struct {
	mock.Mock
}

func (m *SwapTransactionStore) Create(tx *gorm.DB, swap *model.SwapTransaction) (*model.SwapTransaction, error) {
	args := m.Called(tx, swap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SwapTransaction), args.Error(1)
}

func (m *SwapTransactionStore) GetByIDForUser(tx *gorm.DB, id int64, userID string) (*model.SwapTransaction, error) {
	args := m.Called(tx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SwapTransaction), args.Error(1)
}

func (m *SwapTransactionStore) GetByIDForUpdate(tx *gorm.DB, id int64) (*model.SwapTransaction, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SwapTransaction), args.Error(1)
}

func (m *SwapTransactionStore) ListByUser(tx *gorm.DB, userID string) ([]model.SwapTransaction, error) {
	args := m.Called(tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SwapTransaction), args.Error(1)
}

func (m *SwapTransactionStore) UpdateStatus(tx *gorm.DB, id int64, from model.SwapStatus, fields map[string]interface{}) error {
	return m.Called(tx, id, from, fields).Error(0)
}

func (m *SwapTransactionStore) ExpirePending(tx *gorm.DB, now time.Time) (int64, error) {
	args := m.Called(tx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SwapTransactionStore) CountByStatus(tx *gorm.DB, status model.SwapStatus) (int64, error) {
	args := m.Called(tx, status)
	return args.Get(0).(int64), args.Error(1)
}

type InrPaymentMethodStore struct {
	mock.Mock
}

func (m *InrPaymentMethodStore) Create(tx *gorm.DB, method *model.InrPaymentMethod) (*model.InrPaymentMethod, error) {
	args := m.Called(tx, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InrPaymentMethod), args.Error(1)
}

func (m *InrPaymentMethodStore) ListActiveByUser(tx *gorm.DB, userID string) ([]model.InrPaymentMethod, error) {
	args := m.Called(tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InrPaymentMethod), args.Error(1)
}

func (m *InrPaymentMethodStore) GetActiveByIDForUser(tx *gorm.DB, id int64, userID string) (*model.InrPaymentMethod, error) {
	args := m.Called(tx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InrPaymentMethod), args.Error(1)
}

func (m *InrPaymentMethodStore) Deactivate(tx *gorm.DB, id int64, userID string) error {
	return m.Called(tx, id, userID).Error(0)
}

type InrTransactionStore struct {
	mock.Mock
}

func (m *InrTransactionStore) Create(tx *gorm.DB, txn *model.InrTransaction) (*model.InrTransaction, error) {
	args := m.Called(tx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InrTransaction), args.Error(1)
}

func (m *InrTransactionStore) GetByIDForUser(tx *gorm.DB, id int64, userID string) (*model.InrTransaction, error) {
	args := m.Called(tx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InrTransaction), args.Error(1)
}

func (m *InrTransactionStore) GetByIDForUpdate(tx *gorm.DB, id int64) (*model.InrTransaction, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InrTransaction), args.Error(1)
}

func (m *InrTransactionStore) ListByUser(tx *gorm.DB, userID string) ([]model.InrTransaction, error) {
	args := m.Called(tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InrTransaction), args.Error(1)
}

func (m *InrTransactionStore) UpdateStatus(tx *gorm.DB, id int64, from model.InrTransactionStatus, fields map[string]interface{}) error {
	return m.Called(tx, id, from, fields).Error(0)
}

func (m *InrTransactionStore) ExpirePending(tx *gorm.DB, now time.Time) (int64, error) {
	args := m.Called(tx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *InrTransactionStore) CountByStatus(tx *gorm.DB, status model.InrTransactionStatus) (int64, error) {
	args := m.Called(tx, status)
	return args.Get(0).(int64), args.Error(1)
}

type EscrowTradeStore struct {
	mock.Mock
}

func (m *EscrowTradeStore) Create(tx *gorm.DB, trade *model.EscrowTrade) (*model.EscrowTrade, error) {
	args := m.Called(tx, trade)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *EscrowTradeStore) GetByID(tx *gorm.DB, id int64) (*model.EscrowTrade, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *EscrowTradeStore) GetByIDForUpdate(tx *gorm.DB, id int64) (*model.EscrowTrade, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *EscrowTradeStore) ListByParty(tx *gorm.DB, userID string, filter escrowtrade.ListFilter) ([]model.EscrowTrade, error) {
	args := m.Called(tx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EscrowTrade), args.Error(1)
}

func (m *EscrowTradeStore) ListOpen(tx *gorm.DB, excludeUserID string, filter escrowtrade.ListFilter) ([]model.EscrowTrade, error) {
	args := m.Called(tx, excludeUserID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EscrowTrade), args.Error(1)
}

func (m *EscrowTradeStore) List(tx *gorm.DB, filter escrowtrade.ListFilter) ([]model.EscrowTrade, error) {
	args := m.Called(tx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EscrowTrade), args.Error(1)
}

func (m *EscrowTradeStore) CountByStatus(tx *gorm.DB, statuses ...model.EscrowStatus) (int64, error) {
	args := m.Called(tx, statuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *EscrowTradeStore) ListExpiredIDs(tx *gorm.DB, now time.Time) ([]int64, error) {
	args := m.Called(tx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *EscrowTradeStore) Transition(tx *gorm.DB, id int64, from model.EscrowStatus, fields map[string]interface{}) error {
	return m.Called(tx, id, from, fields).Error(0)
}

func (m *EscrowTradeStore) SetEscrowAddress(tx *gorm.DB, id int64, address string) error {
	return m.Called(tx, id, address).Error(0)
}

type EscrowMessageStore struct {
	mock.Mock
}

func (m *EscrowMessageStore) Create(tx *gorm.DB, msg *model.EscrowMessage) (*model.EscrowMessage, error) {
	args := m.Called(tx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowMessage), args.Error(1)
}

func (m *EscrowMessageStore) ListByTrade(tx *gorm.DB, tradeID int64) ([]model.EscrowMessage, error) {
	args := m.Called(tx, tradeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EscrowMessage), args.Error(1)
}

type EscrowEventStore struct {
	mock.Mock
}

func (m *EscrowEventStore) Append(tx *gorm.DB, event *model.EscrowEvent) (*model.EscrowEvent, error) {
	args := m.Called(tx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowEvent), args.Error(1)
}

func (m *EscrowEventStore) ListByTrade(tx *gorm.DB, tradeID int64) ([]model.EscrowEvent, error) {
	args := m.Called(tx, tradeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EscrowEvent), args.Error(1)
}

type UserWalletStore struct {
	mock.Mock
}

func (m *UserWalletStore) Create(tx *gorm.DB, wallet *model.UserWallet) (*model.UserWallet, error) {
	args := m.Called(tx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserWallet), args.Error(1)
}

func (m *UserWalletStore) CreateIfMissing(tx *gorm.DB, wallet *model.UserWallet) (bool, error) {
	args := m.Called(tx, wallet)
	return args.Bool(0), args.Error(1)
}

func (m *UserWalletStore) ListActiveByUser(tx *gorm.DB, userID string) ([]model.UserWallet, error) {
	args := m.Called(tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserWallet), args.Error(1)
}

func (m *UserWalletStore) GetForUpdate(tx *gorm.DB, userID, cryptocurrency string) (*model.UserWallet, error) {
	args := m.Called(tx, userID, cryptocurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserWallet), args.Error(1)
}

func (m *UserWalletStore) Credit(tx *gorm.DB, id int64, amount decimal.Decimal) error {
	return m.Called(tx, id, amount).Error(0)
}
