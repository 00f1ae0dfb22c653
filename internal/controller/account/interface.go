package account

import (
	"context"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type Session struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type PaymentMethodInput struct {
	Type    model.PaymentMethodType
	Details model.PaymentMethodDetails
}

type IController interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Me(ctx context.Context, userID string) (*model.User, error)

	SetKYCStatus(ctx context.Context, userID string, status model.KYCStatus) (*model.User, error)
	SetRole(ctx context.Context, userID string, role model.UserRole) (*model.User, error)

	ListPaymentMethods(ctx context.Context, userID string) ([]model.InrPaymentMethod, error)
	// AddPaymentMethod validates the details for the method type; card numbers are stored masked
	AddPaymentMethod(ctx context.Context, userID string, in PaymentMethodInput) (*model.InrPaymentMethod, error)
	RemovePaymentMethod(ctx context.Context, userID string, id int64) error

	ListWallets(ctx context.Context, userID string) ([]model.UserWallet, error)
	CreateWallet(ctx context.Context, userID, cryptocurrency string) (*model.UserWallet, error)
}
