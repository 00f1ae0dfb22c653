package inrtransaction

import (
	"time"

	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, txn *model.InrTransaction) (*model.InrTransaction, error)
	GetByIDForUser(tx *gorm.DB, id int64, userID string) (*model.InrTransaction, error)
	GetByIDForUpdate(tx *gorm.DB, id int64) (*model.InrTransaction, error)
	ListByUser(tx *gorm.DB, userID string) ([]model.InrTransaction, error)
	UpdateStatus(tx *gorm.DB, id int64, from model.InrTransactionStatus, fields map[string]interface{}) error
	ExpirePending(tx *gorm.DB, now time.Time) (int64, error)
	CountByStatus(tx *gorm.DB, status model.InrTransactionStatus) (int64, error)
}
