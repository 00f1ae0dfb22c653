package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
	"github.com/dwarvesf/tradeshield-backend/internal/oracle"
)

type Oracle struct {
	mock.Mock
}

var _ oracle.IOracle = (*Oracle)(nil)

func (m *Oracle) GetExchangeRate(ctx context.Context, from, to string) decimal.Decimal {
	return m.Called(ctx, from, to).Get(0).(decimal.Decimal)
}

func (m *Oracle) GetMarketRates(ctx context.Context) ([]model.MarketRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MarketRate), args.Error(1)
}

func (m *Oracle) GetMarketRate(ctx context.Context, symbol string) (*model.MarketRate, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MarketRate), args.Error(1)
}

func (m *Oracle) UpsertMarketRate(ctx context.Context, rate *model.MarketRate) (*model.MarketRate, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MarketRate), args.Error(1)
}

func (m *Oracle) EnsureFallbackMarketRates(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *Oracle) SetListener(listener oracle.RatesListener) {
	m.Called(listener)
}

func (m *Oracle) ClearAllCaches() {
	m.Called()
}

func (m *Oracle) GetCacheStatistics() *oracle.CacheStatistics {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*oracle.CacheStatistics)
}
