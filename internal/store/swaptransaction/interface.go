package swaptransaction

import (
	"time"

	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, swap *model.SwapTransaction) (*model.SwapTransaction, error)
	GetByIDForUser(tx *gorm.DB, id int64, userID string) (*model.SwapTransaction, error)
	GetByIDForUpdate(tx *gorm.DB, id int64) (*model.SwapTransaction, error)
	ListByUser(tx *gorm.DB, userID string) ([]model.SwapTransaction, error)
	UpdateStatus(tx *gorm.DB, id int64, from model.SwapStatus, fields map[string]interface{}) error
	ExpirePending(tx *gorm.DB, now time.Time) (int64, error)
	CountByStatus(tx *gorm.DB, status model.SwapStatus) (int64, error)
}
