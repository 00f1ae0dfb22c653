package model

import "time"

type EscrowMessage struct {
	ID            int64     `gorm:"column:id;primaryKey" json:"id"`
	TradeID       int64     `gorm:"column:trade_id;index" json:"tradeId"`
	SenderID      string    `gorm:"column:sender_id" json:"senderId"`
	Message       string    `gorm:"column:message" json:"message"`
	AttachmentUrl string    `gorm:"column:attachment_url" json:"attachmentUrl"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (EscrowMessage) TableName() string {
	return "escrow_messages"
}
