package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/tradeshield-backend/internal/controller/inr"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type Inr struct {
	mock.Mock
}

func (m *Inr) Create(ctx context.Context, userID string, in inr.CreateInput) (*model.InrTransaction, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InrTransaction), args.Error(1)
}

func (m *Inr) Get(ctx context.Context, userID string, id int64) (*model.InrTransaction, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InrTransaction), args.Error(1)
}

func (m *Inr) List(ctx context.Context, userID string) ([]model.InrTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InrTransaction), args.Error(1)
}

func (m *Inr) SubmitPaymentProof(ctx context.Context, userID string, id int64, proof string) (*model.InrTransaction, error) {
	args := m.Called(ctx, userID, id, proof)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InrTransaction), args.Error(1)
}

func (m *Inr) UpdateStatus(ctx context.Context, id int64, status model.InrTransactionStatus, txHash string) (*model.InrTransaction, error) {
	args := m.Called(ctx, id, status, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InrTransaction), args.Error(1)
}

func (m *Inr) ExpirePending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ inr.IController = (*Inr)(nil)
