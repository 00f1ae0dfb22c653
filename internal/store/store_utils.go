package store

import (
	"context"

	"gorm.io/gorm"

	pgstore "github.com/dwarvesf/tradeshield-backend/internal/store/postgres"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

// DBRepo hands out request-scoped connections and transactions.
type DBRepo interface {
	DB(ctx context.Context) *gorm.DB
	DoInTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	Close() error
}

type repo struct {
	Database *gorm.DB
}

// NewPostgresStore postgres init by gorm
func NewPostgresStore(appConfig *config.AppConfig, logger *logger.Logger) DBRepo {
	return &repo{Database: pgstore.New(appConfig, logger)}
}

// NewRepo wraps an already opened connection.
func NewRepo(db *gorm.DB) DBRepo {
	return &repo{Database: db}
}

func (r *repo) DB(ctx context.Context) *gorm.DB {
	return r.Database.WithContext(ctx)
}

func (r *repo) DoInTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return DoInTx(r.Database.WithContext(ctx), fn)
}

func (r *repo) Close() error {
	sqlDB, err := r.Database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
