package escrowevent

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type store struct {
}

func New() IStore {
	return &store{}
}

// Append links event to the latest event of its trade and stores it. Callers
// hold the trade row lock, so the tail cannot move underneath.
func (s *store) Append(tx *gorm.DB, event *model.EscrowEvent) (*model.EscrowEvent, error) {
	var last model.EscrowEvent
	err := tx.Where("trade_id = ?", event.TradeID).Order("id DESC").Limit(1).Find(&last).Error
	if err != nil {
		return nil, err
	}

	event.PrevHash = last.Hash
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.CreatedAt = event.CreatedAt.UTC().Truncate(time.Microsecond)
	event.Hash = event.ComputeHash()

	if err := tx.Create(event).Error; err != nil {
		return nil, errors.Wrap(err, "append escrow event")
	}
	return event, nil
}

func (s *store) ListByTrade(tx *gorm.DB, tradeID int64) ([]model.EscrowEvent, error) {
	var events []model.EscrowEvent
	err := tx.Where("trade_id = ?", tradeID).Order("id ASC").Find(&events).Error
	return events, err
}
