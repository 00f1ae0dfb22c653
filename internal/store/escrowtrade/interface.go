package escrowtrade

import (
	"time"

	"gorm.io/gorm"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type ListFilter struct {
	Status model.EscrowStatus
	Limit  int
	Offset int
}

type IStore interface {
	Create(tx *gorm.DB, trade *model.EscrowTrade) (*model.EscrowTrade, error)
	GetByID(tx *gorm.DB, id int64) (*model.EscrowTrade, error)
	GetByIDForUpdate(tx *gorm.DB, id int64) (*model.EscrowTrade, error)
	ListByParty(tx *gorm.DB, userID string, filter ListFilter) ([]model.EscrowTrade, error)
	ListOpen(tx *gorm.DB, excludeUserID string, filter ListFilter) ([]model.EscrowTrade, error)
	List(tx *gorm.DB, filter ListFilter) ([]model.EscrowTrade, error)
	ListExpiredIDs(tx *gorm.DB, now time.Time) ([]int64, error)
	Transition(tx *gorm.DB, id int64, from model.EscrowStatus, fields map[string]interface{}) error
	SetEscrowAddress(tx *gorm.DB, id int64, address string) error
	CountByStatus(tx *gorm.DB, statuses ...model.EscrowStatus) (int64, error)
}
