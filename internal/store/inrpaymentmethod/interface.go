package inrpaymentmethod

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, method *model.InrPaymentMethod) (*model.InrPaymentMethod, error)
	ListActiveByUser(tx *gorm.DB, userID string) ([]model.InrPaymentMethod, error)
	GetActiveByIDForUser(tx *gorm.DB, id int64, userID string) (*model.InrPaymentMethod, error)
	Deactivate(tx *gorm.DB, id int64, userID string) error
}
