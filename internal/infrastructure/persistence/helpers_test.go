package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/feedoffice/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the schema migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

// newMockDB creates a postgres-dialect gorm DB backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
