package model

import "time"

type PaymentMethodType string

const (
	PaymentMethodUPI          PaymentMethodType = "upi"
	PaymentMethodBankTransfer PaymentMethodType = "bank_transfer"
	PaymentMethodIMPS         PaymentMethodType = "imps"
	PaymentMethodCard         PaymentMethodType = "card"
)

// PaymentMethodDetails is stored as jsonb; which fields are set depends on the method type.
type PaymentMethodDetails struct {
	UpiID             string `json:"upiId,omitempty"`
	AccountNumber     string `json:"accountNumber,omitempty"`
	IfscCode          string `json:"ifscCode,omitempty"`
	AccountHolderName string `json:"accountHolderName,omitempty"`
	BankName          string `json:"bankName,omitempty"`
	CardNumber        string `json:"cardNumber,omitempty"`
	CardHolderName    string `json:"cardHolderName,omitempty"`
}

type InrPaymentMethod struct {
	ID         int64                `gorm:"column:id;primaryKey" json:"id"`
	UserID     string               `gorm:"column:user_id;index" json:"userId"`
	Type       PaymentMethodType    `gorm:"column:type" json:"type"`
	Details    PaymentMethodDetails `gorm:"column:details;type:jsonb;serializer:json" json:"details"`
	IsVerified bool                 `gorm:"column:is_verified" json:"isVerified"`
	IsActive   bool                 `gorm:"column:is_active;default:true" json:"isActive"`
	CreatedAt  time.Time            `gorm:"column:created_at" json:"createdAt"`
}

func (InrPaymentMethod) TableName() string {
	return "inr_payment_methods"
}
