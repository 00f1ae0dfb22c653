package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EscrowStatus string

const (
	EscrowStatusCreated   EscrowStatus = "created"
	EscrowStatusAccepted  EscrowStatus = "accepted"
	EscrowStatusFunded    EscrowStatus = "funded"
	EscrowStatusPaid      EscrowStatus = "paid"
	EscrowStatusDispute   EscrowStatus = "dispute"
	EscrowStatusCompleted EscrowStatus = "completed"
	EscrowStatusCancelled EscrowStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible.
func (s EscrowStatus) IsTerminal() bool {
	return s == EscrowStatusCompleted || s == EscrowStatusCancelled
}

type EscrowPaymentMethod string

const (
	EscrowPaymentUPI          EscrowPaymentMethod = "upi"
	EscrowPaymentBankTransfer EscrowPaymentMethod = "bank_transfer"
	EscrowPaymentIMPS         EscrowPaymentMethod = "imps"
)

type EscrowTrade struct {
	ID                    int64               `gorm:"column:id;primaryKey" json:"id"`
	CreatorID             string              `gorm:"column:creator_id;index" json:"creatorId"`
	CounterpartyID        *string             `gorm:"column:counterparty_id;index" json:"counterpartyId"`
	Type                  TradeType           `gorm:"column:type" json:"type"`
	Cryptocurrency        string              `gorm:"column:cryptocurrency" json:"cryptocurrency"`
	CryptoAmount          decimal.Decimal     `gorm:"column:crypto_amount;type:numeric(20,8)" json:"cryptoAmount"`
	InrAmount             decimal.Decimal     `gorm:"column:inr_amount;type:numeric(12,2)" json:"inrAmount"`
	PaymentMethod         EscrowPaymentMethod `gorm:"column:payment_method" json:"paymentMethod"`
	Status                EscrowStatus        `gorm:"column:status;default:created" json:"status"`
	EscrowAddress         string              `gorm:"column:escrow_address" json:"escrowAddress"`
	CreatorConfirmed      bool                `gorm:"column:creator_confirmed" json:"creatorConfirmed"`
	CounterpartyConfirmed bool                `gorm:"column:counterparty_confirmed" json:"counterpartyConfirmed"`
	PaymentProof          string              `gorm:"column:payment_proof" json:"paymentProof"`
	FundingTxHash         string              `gorm:"column:funding_tx_hash" json:"fundingTxHash"`
	DisputeReason         string              `gorm:"column:dispute_reason" json:"disputeReason"`
	ModeratorID           *string             `gorm:"column:moderator_id" json:"moderatorId"`
	ModeratorNotes        string              `gorm:"column:moderator_notes" json:"moderatorNotes"`
	FundedAt              *time.Time          `gorm:"column:funded_at" json:"fundedAt"`
	ExpiresAt             *time.Time          `gorm:"column:expires_at" json:"expiresAt"`
	CompletedAt           *time.Time          `gorm:"column:completed_at" json:"completedAt"`
	CreatedAt             time.Time           `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt             time.Time           `gorm:"column:updated_at" json:"updatedAt"`
}

func (EscrowTrade) TableName() string {
	return "escrow_trades"
}

func (t *EscrowTrade) HasCounterparty() bool {
	return t.CounterpartyID != nil && *t.CounterpartyID != ""
}

func (t *EscrowTrade) IsCreator(userID string) bool {
	return t.CreatorID == userID
}

func (t *EscrowTrade) IsCounterparty(userID string) bool {
	return t.HasCounterparty() && *t.CounterpartyID == userID
}

func (t *EscrowTrade) IsParty(userID string) bool {
	return t.IsCreator(userID) || t.IsCounterparty(userID)
}

// SellerID is the party that locks crypto into escrow. It is empty while a
// buy trade has no counterparty yet.
func (t *EscrowTrade) SellerID() string {
	if t.Type == TradeTypeSell {
		return t.CreatorID
	}
	if t.HasCounterparty() {
		return *t.CounterpartyID
	}
	return ""
}

// BuyerID is the party that pays INR and receives the crypto.
func (t *EscrowTrade) BuyerID() string {
	if t.Type == TradeTypeBuy {
		return t.CreatorID
	}
	if t.HasCounterparty() {
		return *t.CounterpartyID
	}
	return ""
}

func (t *EscrowTrade) IsSeller(userID string) bool {
	return userID != "" && t.SellerID() == userID
}

func (t *EscrowTrade) IsBuyer(userID string) bool {
	return userID != "" && t.BuyerID() == userID
}

// HasConfirmed reports whether the given party already confirmed the trade.
func (t *EscrowTrade) HasConfirmed(userID string) bool {
	switch {
	case t.IsCreator(userID):
		return t.CreatorConfirmed
	case t.IsCounterparty(userID):
		return t.CounterpartyConfirmed
	default:
		return false
	}
}

func (t *EscrowTrade) BothConfirmed() bool {
	return t.CreatorConfirmed && t.CounterpartyConfirmed
}
