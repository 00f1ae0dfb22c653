package escrowmessage

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type store struct {
}

func New() IStore {
	return &store{}
}

func (s *store) Create(tx *gorm.DB, msg *model.EscrowMessage) (*model.EscrowMessage, error) {
	return msg, tx.Create(msg).Error
}

func (s *store) ListByTrade(tx *gorm.DB, tradeID int64) ([]model.EscrowMessage, error) {
	var msgs []model.EscrowMessage
	err := tx.Where("trade_id = ?", tradeID).Order("created_at ASC, id ASC").Find(&msgs).Error
	return msgs, err
}
