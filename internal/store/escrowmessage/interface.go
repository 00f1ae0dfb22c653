package escrowmessage

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, msg *model.EscrowMessage) (*model.EscrowMessage, error)
	ListByTrade(tx *gorm.DB, tradeID int64) ([]model.EscrowMessage, error)
}
