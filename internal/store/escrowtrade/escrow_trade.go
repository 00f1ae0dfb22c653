package escrowtrade

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwarvesf/tradeshield-backend/internal/model"
)

type store struct {
}

func New() IStore {
	return &store{}
}

func (s *store) Create(tx *gorm.DB, trade *model.EscrowTrade) (*model.EscrowTrade, error) {
	return trade, tx.Create(trade).Error
}

func (s *store) GetByID(tx *gorm.DB, id int64) (*model.EscrowTrade, error) {
	var trade model.EscrowTrade
	err := tx.Where("id = ?", id).First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "escrow trade %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// GetByIDForUpdate locks the trade row until the surrounding transaction ends.
func (s *store) GetByIDForUpdate(tx *gorm.DB, id int64) (*model.EscrowTrade, error) {
	var trade model.EscrowTrade
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(model.ErrNotFound, "escrow trade %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func (s *store) ListByParty(tx *gorm.DB, userID string, filter ListFilter) ([]model.EscrowTrade, error) {
	query := tx.Where("creator_id = ? OR counterparty_id = ?", userID, userID)
	return s.find(query, filter)
}

func (s *store) ListOpen(tx *gorm.DB, excludeUserID string, filter ListFilter) ([]model.EscrowTrade, error) {
	query := tx.Where("status = ? AND counterparty_id IS NULL AND creator_id <> ?", model.EscrowStatusCreated, excludeUserID)
	filter.Status = ""
	return s.find(query, filter)
}

func (s *store) List(tx *gorm.DB, filter ListFilter) ([]model.EscrowTrade, error) {
	return s.find(tx, filter)
}

func (s *store) find(query *gorm.DB, filter ListFilter) ([]model.EscrowTrade, error) {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	var trades []model.EscrowTrade
	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&trades).Error
	return trades, err
}

// ListExpiredIDs returns trades nobody has funded before their deadline.
func (s *store) ListExpiredIDs(tx *gorm.DB, now time.Time) ([]int64, error) {
	var ids []int64
	err := tx.Model(&model.EscrowTrade{}).
		Where("status IN ? AND expires_at IS NOT NULL AND expires_at < ?",
			[]model.EscrowStatus{model.EscrowStatusCreated, model.EscrowStatusAccepted}, now).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// Transition writes fields only while the trade is still in status from.
func (s *store) Transition(tx *gorm.DB, id int64, from model.EscrowStatus, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	res := tx.Model(&model.EscrowTrade{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(model.ErrInvalidTransition, "escrow trade %d is no longer %s", id, from)
	}
	return nil
}

func (s *store) SetEscrowAddress(tx *gorm.DB, id int64, address string) error {
	return tx.Model(&model.EscrowTrade{}).Where("id = ?", id).Update("escrow_address", address).Error
}

func (s *store) CountByStatus(tx *gorm.DB, statuses ...model.EscrowStatus) (int64, error) {
	var count int64
	err := tx.Model(&model.EscrowTrade{}).Where("status IN ?", statuses).Count(&count).Error
	return count, err
}
