package pgstore

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

// New opens the postgres connection pool and exits the process when it cannot.
func New(appConfig *config.AppConfig, logger *logger.Logger) *gorm.DB {
	db, err := Open(DSN(appConfig.Postgres), appConfig.Environment)
	if err != nil {
		logger.Fatal("failed to connect to postgres", map[string]string{
			"error": err.Error(),
		})
	}

	logger.Info("database connected", map[string]string{
		"host": appConfig.Postgres.Host,
		"name": appConfig.Postgres.Name,
	})
	return db
}

func DSN(conn config.DBConnection) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		conn.Host,
		conn.User,
		conn.Pass,
		conn.Name,
		conn.Port,
		conn.SSLMode,
	)
}

func Open(dsn string, env environments.Environment) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if env == environments.Development {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn),
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				SingularTable: false,
			},
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(logLevel),
		})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
