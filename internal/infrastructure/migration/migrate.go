// Package migration applies the PostgreSQL schema with golang-migrate and
// scaffolds new numbered migration files.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migrator runs schema migrations against one database
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// New reads migrations from a directory on disk
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{migrate: m, logger: logger}, nil
}

// NewFromFS reads migrations from an fs.FS, normally the embedded migrations package
func NewFromFS(db *sql.DB, fsys fs.FS, logger *zap.Logger) (*Migrator, error) {
	source, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{migrate: m, logger: logger}, nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("schema is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return m.logVersion("migrations applied")
}

// Down rolls back every migration
func (m *Migrator) Down() error {
	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}
	m.logger.Info("all migrations rolled back")
	return nil
}

// Steps applies n migrations; negative n rolls back
func (m *Migrator) Steps(n int) error {
	err := m.migrate.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration steps failed: %w", err)
	}
	return m.logVersion("migration steps applied")
}

// Version returns the applied version; zero means no migration has run
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force records version as applied without running it, to recover from a dirty state
func (m *Migrator) Force(version int) error {
	m.logger.Warn("forcing migration version", zap.Int("version", version))
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}

func (m *Migrator) logVersion(msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
