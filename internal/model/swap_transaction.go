package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SwapStatus string

const (
	SwapStatusPending    SwapStatus = "pending"
	SwapStatusProcessing SwapStatus = "processing"
	SwapStatusCompleted  SwapStatus = "completed"
	SwapStatusFailed     SwapStatus = "failed"
)

var swapTransitions = map[SwapStatus][]SwapStatus{
	SwapStatusPending:    {SwapStatusProcessing, SwapStatusFailed},
	SwapStatusProcessing: {SwapStatusCompleted, SwapStatusFailed},
}

// CanTransitionTo reports whether an operator may move a swap from s to next.
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	for _, allowed := range swapTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type SwapTransaction struct {
	ID              int64           `gorm:"column:id;primaryKey" json:"id"`
	UserID          string          `gorm:"column:user_id;index" json:"userId"`
	FromCurrency    string          `gorm:"column:from_currency" json:"fromCurrency"`
	ToCurrency      string          `gorm:"column:to_currency" json:"toCurrency"`
	FromAmount      decimal.Decimal `gorm:"column:from_amount;type:numeric(20,8)" json:"fromAmount"`
	ToAmount        decimal.Decimal `gorm:"column:to_amount;type:numeric(20,8)" json:"toAmount"`
	ExchangeRate    decimal.Decimal `gorm:"column:exchange_rate;type:numeric(20,8)" json:"exchangeRate"`
	PlatformFee     decimal.Decimal `gorm:"column:platform_fee;type:numeric(20,8)" json:"platformFee"`
	NetworkFee      decimal.Decimal `gorm:"column:network_fee;type:numeric(20,8)" json:"networkFee"`
	Status          SwapStatus      `gorm:"column:status;default:pending" json:"status"`
	FromAddress     string          `gorm:"column:from_address" json:"fromAddress"`
	ToAddress       string          `gorm:"column:to_address" json:"toAddress"`
	TransactionHash string          `gorm:"column:transaction_hash" json:"transactionHash"`
	RefundAddress   string          `gorm:"column:refund_address" json:"refundAddress"`
	ExpiresAt       *time.Time      `gorm:"column:expires_at" json:"expiresAt"`
	CompletedAt     *time.Time      `gorm:"column:completed_at" json:"completedAt"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"createdAt"`
}

func (SwapTransaction) TableName() string {
	return "swap_transactions"
}
