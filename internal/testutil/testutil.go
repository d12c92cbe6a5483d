// Package testutil provides SQLite-backed fixtures and gin helpers shared by
// application and handler tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/feedoffice/backend/internal/domain/catalog"
	"github.com/feedoffice/backend/internal/domain/identity"
	"github.com/feedoffice/backend/internal/domain/inventory"
	"github.com/feedoffice/backend/internal/domain/partner"
	"github.com/feedoffice/backend/internal/infrastructure/config"
	"github.com/feedoffice/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Env is a private in-memory database with a transaction scope over it
type Env struct {
	DB      *gorm.DB
	Scope   *persistence.GormTransactionScope
	AdminID uuid.UUID
}

// NewEnv migrates a fresh SQLite database. It is closed when the test ends.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	return &Env{
		DB:      db.DB,
		Scope:   persistence.NewGormTransactionScope(db.DB, 10*time.Second, 5*time.Second),
		AdminID: NewTestUUID("admin"),
	}
}

// AnimalType stores a new animal type
func (e *Env) AnimalType(t *testing.T, name string) *catalog.AnimalType {
	t.Helper()
	at, err := catalog.NewAnimalType(name)
	require.NoError(t, err)
	require.NoError(t, e.Scope.Reader().AnimalTypes().Save(context.Background(), at))
	return at
}

// FeedCategory stores a feed category under a new animal type named after it
func (e *Env) FeedCategory(t *testing.T, name string, price int64) *catalog.FeedCategory {
	t.Helper()
	at := e.AnimalType(t, "Animals for "+name)
	fc, err := catalog.NewFeedCategory(at.ID, name, decimal.NewFromInt(50), decimal.NewFromInt(price))
	require.NoError(t, err)
	require.NoError(t, e.Scope.Reader().FeedCategories().Save(context.Background(), fc))
	return fc
}

// Customer stores a SINGLE customer
func (e *Env) Customer(t *testing.T, name string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.CustomerDetails{
		Name:     name,
		Phone:    "+91 98765 43210",
		District: "Nashik",
		State:    "Maharashtra",
	})
	require.NoError(t, err)
	require.NoError(t, e.Scope.Reader().Customers().Save(context.Background(), c))
	return c
}

// RawMaterial stores a raw material measured in KG
func (e *Env) RawMaterial(t *testing.T, name string) *inventory.RawMaterial {
	t.Helper()
	m, err := inventory.NewRawMaterial(name, inventory.UnitKG)
	require.NoError(t, err)
	require.NoError(t, e.Scope.Reader().RawMaterials().Save(context.Background(), m))
	return m
}

// Stock adds bags to a category's balance without writing a ledger row
func (e *Env) Stock(t *testing.T, categoryID uuid.UUID, bags int64) {
	t.Helper()
	require.NoError(t, e.Scope.Reader().FeedStock().Increment(context.Background(), categoryID, bags))
}

// Available returns the current bag balance of a category, 0 if it has no row
func (e *Env) Available(t *testing.T, categoryID uuid.UUID) int64 {
	t.Helper()
	rows, err := e.Scope.Reader().FeedStock().FindByFeedCategoryIDs(context.Background(), []uuid.UUID{categoryID})
	require.NoError(t, err)
	if len(rows) == 0 {
		return 0
	}
	return rows[0].QuantityAvailable
}

// AdminUser stores an active admin account
func (e *Env) AdminUser(t *testing.T, username, password string, role identity.Role) *identity.AdminUser {
	t.Helper()
	u, err := identity.NewAdminUser(username, password, "Test "+username, role)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormAdminUserRepository(e.DB).Save(context.Background(), u))
	return u
}

// NewTestUUID generates a deterministic UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
