package swap

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type Quote struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	FromAmount   decimal.Decimal `json:"fromAmount"`
	ToAmount     decimal.Decimal `json:"toAmount"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	PlatformFee  decimal.Decimal `json:"platformFee"`
	NetworkFee   decimal.Decimal `json:"networkFee"`
	TotalFee     decimal.Decimal `json:"totalFee"`
	PriceImpact  string          `json:"priceImpact"`
}

type CreateInput struct {
	FromCurrency  string
	ToCurrency    string
	FromAmount    decimal.Decimal
	ToAddress     string
	FromAddress   string
	RefundAddress string
}

type IController interface {
	Quote(ctx context.Context, from, to string, amount decimal.Decimal) (*Quote, error)
	Create(ctx context.Context, userID string, in CreateInput) (*model.SwapTransaction, error)
	Get(ctx context.Context, userID string, id int64) (*model.SwapTransaction, error)
	List(ctx context.Context, userID string) ([]model.SwapTransaction, error)

	// UpdateStatus is the operator path through the swap lifecycle
	UpdateStatus(ctx context.Context, id int64, status model.SwapStatus, txHash string) (*model.SwapTransaction, error)

	// ExpirePending fails pending swaps past their deadline
	ExpirePending(ctx context.Context) (int64, error)
}
