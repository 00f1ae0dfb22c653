package escrowevent

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type IStore interface {
	Append(tx *gorm.DB, event *model.EscrowEvent) (*model.EscrowEvent, error)
	ListByTrade(tx *gorm.DB, tradeID int64) ([]model.EscrowEvent, error)
}
