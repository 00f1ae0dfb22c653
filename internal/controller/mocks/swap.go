package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/tradeshield-backend/internal/controller/swap"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type Swap struct {
	mock.Mock
}

func (m *Swap) Quote(ctx context.Context, from, to string, amount decimal.Decimal) (*swap.Quote, error) {
	args := m.Called(ctx, from, to, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*swap.Quote), args.Error(1)
}

func (m *Swap) Create(ctx context.Context, userID string, in swap.CreateInput) (*model.SwapTransaction, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SwapTransaction), args.Error(1)
}

func (m *Swap) Get(ctx context.Context, userID string, id int64) (*model.SwapTransaction, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SwapTransaction), args.Error(1)
}

func (m *Swap) List(ctx context.Context, userID string) ([]model.SwapTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SwapTransaction), args.Error(1)
}

func (m *Swap) UpdateStatus(ctx context.Context, id int64, status model.SwapStatus, txHash string) (*model.SwapTransaction, error) {
	args := m.Called(ctx, id, status, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SwapTransaction), args.Error(1)
}

func (m *Swap) ExpirePending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ swap.IController = (*Swap)(nil)
