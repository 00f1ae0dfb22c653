// Package mocks holds testify mocks of the controllers for handler tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/tradeshield-backend/internal/controller/account"
	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type Account struct {
	mock.Mock
}

func (m *Account) Register(ctx context.Context, in account.RegisterInput) (*account.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Session), args.Error(1)
}

func (m *Account) Login(ctx context.Context, email, password string) (*account.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Session), args.Error(1)
}

func (m *Account) Me(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *Account) SetKYCStatus(ctx context.Context, userID string, status model.KYCStatus) (*model.User, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *Account) SetRole(ctx context.Context, userID string, role model.UserRole) (*model.User, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *Account) ListPaymentMethods(ctx context.Context, userID string) ([]model.InrPaymentMethod, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InrPaymentMethod), args.Error(1)
}

func (m *Account) AddPaymentMethod(ctx context.Context, userID string, in account.PaymentMethodInput) (*model.InrPaymentMethod, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InrPaymentMethod), args.Error(1)
}

func (m *Account) RemovePaymentMethod(ctx context.Context, userID string, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *Account) ListWallets(ctx context.Context, userID string) ([]model.UserWallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserWallet), args.Error(1)
}

func (m *Account) CreateWallet(ctx context.Context, userID, cryptocurrency string) (*model.UserWallet, error) {
	args := m.Called(ctx, userID, cryptocurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserWallet), args.Error(1)
}

var _ account.IController = (*Account)(nil)
