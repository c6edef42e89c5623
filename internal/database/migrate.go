package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"skill-assess/internal/config"
	"skill-assess/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// oracleAlreadyExists is the Oracle error raised when re-creating an existing table.
const oracleAlreadyExists = "ORA-00955"

// NewMigrator returns a golang-migrate instance over the embedded migrations of driver.
// Oracle is not supported by golang-migrate; use RunOracleMigrations for it.
func NewMigrator(db *sql.DB, driver string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, path.Join("migrations", driver))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s migrations: %w", driver, err)
	}

	var m *migrate.Migrate
	switch driver {
	case config.DriverMySQL:
		target, err := migratemysql.WithInstance(db, &migratemysql.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to prepare mysql migrations: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, driver, target)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrator: %w", err)
		}
	case config.DriverPostgres:
		target, err := migratepostgres.WithInstance(db, &migratepostgres.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to prepare postgres migrations: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, driver, target)
		if err != nil {
			return nil, fmt.Errorf("failed to create migrator: %w", err)
		}
	default:
		return nil, fmt.Errorf("golang-migrate does not support driver %q", driver)
	}
	return m, nil
}

// MigrateUp applies every pending migration for driver.
func MigrateUp(ctx context.Context, db *sql.DB, driver string) error {
	if driver == config.DriverOracle {
		return RunOracleMigrations(ctx, db)
	}
	m, err := NewMigrator(db, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back steps migrations, or all of them when steps is not positive.
func MigrateDown(db *sql.DB, driver string, steps int) error {
	m, err := NewMigrator(db, driver)
	if err != nil {
		return err
	}
	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return nil
}

// RunOracleMigrations executes every embedded Oracle .up.sql file in name order, one
// statement per file. Tables that already exist are skipped, so the run is repeatable.
func RunOracleMigrations(ctx context.Context, db *sql.DB) error {
	files, err := migrationFiles(config.DriverOracle)
	if err != nil {
		return err
	}

	for _, name := range files {
		content, err := migrationsFS.ReadFile(path.Join("migrations", config.DriverOracle, name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}

		stmt := strings.TrimSuffix(strings.TrimSpace(string(content)), ";")
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if strings.Contains(err.Error(), oracleAlreadyExists) {
				logger.Get().Info("Skipped migration, objects already exist", zap.String("file", name))
				continue
			}
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
		logger.Get().Info("Executed migration", zap.String("file", name))
	}
	return nil
}

// migrationFiles lists the .up.sql files embedded for driver, sorted by name.
func migrationFiles(driver string) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, path.Join("migrations", driver))
	if err != nil {
		return nil, fmt.Errorf("could not read %s migrations: %w", driver, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
