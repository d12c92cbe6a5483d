package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/feedoffice/backend/internal/infrastructure/config"
	"github.com/feedoffice/backend/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the gorm connection pool
type Database struct {
	DB     *gorm.DB
	driver string
}

// NewDatabase opens a pool for cfg.Driver (postgres or sqlite). SQLite pools
// are limited to one connection because SQLite serialises writers anyway.
func NewDatabase(cfg *config.DatabaseConfig, log gormlogger.Interface) (*Database, error) {
	if log == nil {
		log = gormlogger.Discard
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.SQLitePath))
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 log,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Database{DB: db, driver: cfg.Driver}, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_busy_timeout") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000"
}

// AutoMigrate creates or updates every table from the models. PostgreSQL
// deployments use the SQL migrations instead; this serves SQLite.
func (d *Database) AutoMigrate(ctx context.Context) error {
	if err := d.DB.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Driver returns the configured driver name
func (d *Database) Driver() string {
	return d.driver
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
