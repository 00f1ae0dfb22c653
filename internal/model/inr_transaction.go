package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

type InrTransactionStatus string

const (
	InrStatusPending   InrTransactionStatus = "pending"
	InrStatusPaid      InrTransactionStatus = "paid"
	InrStatusConfirmed InrTransactionStatus = "confirmed"
	InrStatusCompleted InrTransactionStatus = "completed"
	InrStatusFailed    InrTransactionStatus = "failed"
)

var inrTransitions = map[InrTransactionStatus][]InrTransactionStatus{
	InrStatusPending:   {InrStatusPaid, InrStatusFailed},
	InrStatusPaid:      {InrStatusConfirmed, InrStatusFailed},
	InrStatusConfirmed: {InrStatusCompleted, InrStatusFailed},
}

func (s InrTransactionStatus) CanTransitionTo(next InrTransactionStatus) bool {
	for _, allowed := range inrTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type InrTransaction struct {
	ID              int64                `gorm:"column:id;primaryKey" json:"id"`
	UserID          string               `gorm:"column:user_id;index" json:"userId"`
	PaymentMethodID int64                `gorm:"column:payment_method_id" json:"paymentMethodId"`
	Type            TradeType            `gorm:"column:type" json:"type"`
	Cryptocurrency  string               `gorm:"column:cryptocurrency" json:"cryptocurrency"`
	CryptoAmount    decimal.Decimal      `gorm:"column:crypto_amount;type:numeric(20,8)" json:"cryptoAmount"`
	InrAmount       decimal.Decimal      `gorm:"column:inr_amount;type:numeric(12,2)" json:"inrAmount"`
	ExchangeRate    decimal.Decimal      `gorm:"column:exchange_rate;type:numeric(12,2)" json:"exchangeRate"`
	PlatformFee     decimal.Decimal      `gorm:"column:platform_fee;type:numeric(12,2)" json:"platformFee"`
	Status          InrTransactionStatus `gorm:"column:status;default:pending" json:"status"`
	PaymentProof    string               `gorm:"column:payment_proof" json:"paymentProof"`
	CryptoAddress   string               `gorm:"column:crypto_address" json:"cryptoAddress"`
	TransactionHash string               `gorm:"column:transaction_hash" json:"transactionHash"`
	ExpiresAt       *time.Time           `gorm:"column:expires_at" json:"expiresAt"`
	CompletedAt     *time.Time           `gorm:"column:completed_at" json:"completedAt"`
	CreatedAt       time.Time            `gorm:"column:created_at" json:"createdAt"`
}

func (InrTransaction) TableName() string {
	return "inr_transactions"
}
