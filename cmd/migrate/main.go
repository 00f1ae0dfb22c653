package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	pgstore "github.com/dwarvesf/tradeshield-backend/internal/store/postgres"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/config"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/logger"
)

func newMigrator(db *gorm.DB, dir string) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get database connection")
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "create postgres driver")
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", dir), "postgres", driver)
	if err != nil {
		return nil, errors.Wrap(err, "create migrate instance")
	}
	return m, nil
}

// run applies direction "up" or "down". steps > 0 limits how many files are
// applied; "down" without steps rolls back a single migration.
func run(m *migrate.Migrate, direction string, steps int) error {
	var err error
	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps <= 0 {
			steps = 1
		}
		err = m.Steps(-steps)
	default:
		return errors.Errorf("unknown direction %q", direction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrapf(err, "migrate %s", direction)
	}
	return nil
}

func main() {
	dir := flag.String("dir", filepath.Join("migrations", "schema"), "directory holding the migration files")
	steps := flag.Int("steps", 0, "number of migrations to apply")
	flag.Parse()

	direction := "up"
	if flag.NArg() > 0 {
		direction = flag.Arg(0)
	}

	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	db := pgstore.New(appConfig, logger)

	m, err := newMigrator(db, *dir)
	if err != nil {
		logger.Error("[main][newMigrator] failed to prepare migrations", map[string]string{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	if err := run(m, direction, *steps); err != nil {
		logger.Error("[main][run] failed to run migrations", map[string]string{
			"direction": direction,
			"error":     err.Error(),
		})
		os.Exit(1)
	}

	version, dirty, _ := m.Version()
	logger.Info("Migrations completed successfully", map[string]string{
		"direction": direction,
		"version":   fmt.Sprintf("%d", version),
		"dirty":     fmt.Sprintf("%t", dirty),
	})
}
