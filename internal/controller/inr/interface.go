package inr

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type CreateInput struct {
	PaymentMethodID int64
	Type            model.TradeType
	Cryptocurrency  string
	CryptoAmount    decimal.Decimal
	CryptoAddress   string
}

type IController interface {
	// Create prices an INR on/off-ramp order from the market INR price
	Create(ctx context.Context, userID string, in CreateInput) (*model.InrTransaction, error)
	Get(ctx context.Context, userID string, id int64) (*model.InrTransaction, error)
	List(ctx context.Context, userID string) ([]model.InrTransaction, error)

	// SubmitPaymentProof marks a pending order of the caller as paid
	SubmitPaymentProof(ctx context.Context, userID string, id int64, proof string) (*model.InrTransaction, error)

	// UpdateStatus is the operator path through the confirmation flow
	UpdateStatus(ctx context.Context, id int64, status model.InrTransactionStatus, txHash string) (*model.InrTransaction, error)

	ExpirePending(ctx context.Context) (int64, error)
}
