package user

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, user *model.User) (*model.User, error)
	GetByID(tx *gorm.DB, id string) (*model.User, error)
	GetByEmail(tx *gorm.DB, email string) (*model.User, error)
	UpdateKYCStatus(tx *gorm.DB, id string, status model.KYCStatus) error
	UpdateRole(tx *gorm.DB, id string, role model.UserRole) error
}
