package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/tradeshield-backend/internal/controller/escrow"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type Escrow struct {
	mock.Mock
}

func (m *Escrow) Create(ctx context.Context, actor escrow.Actor, in escrow.CreateInput) (*model.EscrowTrade, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *Escrow) Get(ctx context.Context, actor escrow.Actor, id int64) (*model.EscrowTrade, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *Escrow) ListMine(ctx context.Context, actor escrow.Actor, status model.EscrowStatus) ([]model.EscrowTrade, error) {
	args := m.Called(ctx, actor, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EscrowTrade), args.Error(1)
}

func (m *Escrow) ListOpen(ctx context.Context, actor escrow.Actor) ([]model.EscrowTrade, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EscrowTrade), args.Error(1)
}

func (m *Escrow) ListAll(ctx context.Context, status model.EscrowStatus) ([]model.EscrowTrade, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EscrowTrade), args.Error(1)
}

func (m *Escrow) Accept(ctx context.Context, actor escrow.Actor, id int64) (*model.EscrowTrade, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *Escrow) Fund(ctx context.Context, actor escrow.Actor, id int64, txHash string) (*model.EscrowTrade, error) {
	args := m.Called(ctx, actor, id, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *Escrow) ConfirmPayment(ctx context.Context, actor escrow.Actor, id int64, paymentProof string) (*model.EscrowTrade, error) {
	args := m.Called(ctx, actor, id, paymentProof)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *Escrow) Dispute(ctx context.Context, actor escrow.Actor, id int64, reason string) (*model.EscrowTrade, error) {
	args := m.Called(ctx, actor, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *Escrow) Resolve(ctx context.Context, actor escrow.Actor, id int64, resolution escrow.Resolution, notes string) (*model.EscrowTrade, error) {
	args := m.Called(ctx, actor, id, resolution, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *Escrow) Cancel(ctx context.Context, actor escrow.Actor, id int64) (*model.EscrowTrade, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowTrade), args.Error(1)
}

func (m *Escrow) ListMessages(ctx context.Context, actor escrow.Actor, id int64) ([]model.EscrowMessage, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EscrowMessage), args.Error(1)
}

func (m *Escrow) PostMessage(ctx context.Context, actor escrow.Actor, id int64, message, attachmentURL string) (*model.EscrowMessage, error) {
	args := m.Called(ctx, actor, id, message, attachmentURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EscrowMessage), args.Error(1)
}

func (m *Escrow) Events(ctx context.Context, actor escrow.Actor, id int64) (*escrow.EventTrail, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*escrow.EventTrail), args.Error(1)
}

func (m *Escrow) ExpireOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var _ escrow.IController = (*Escrow)(nil)
