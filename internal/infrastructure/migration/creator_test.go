package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/feedoffice/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add refund reason", "add_refund_reason"},
		{"Add-Refund-Reason", "add_refund_reason"},
		{"index  on  orders", "index_on_orders"},
		{"  spaces  ", "spaces"},
		{"special!@#chars", "special_chars"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, slugify(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "init schema")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_init_schema.up.sql"), first.UpPath)
	assert.FileExists(t, first.DownPath)

	second, err := CreateMigration(dir, "Add delivery route")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	assert.Equal(t, "add_delivery_route", second.Name)

	content, err := os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Add delivery route")

	_, err = CreateMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory is empty", func(t *testing.T) {
		list, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("orders by version and ignores strays", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"000010_late.up.sql", "000010_late.down.sql",
			"000002_early.up.sql", "000002_early.down.sql",
			"README.md", "notes.sql",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}

		list, err := ListMigrations(dir)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, uint(2), list[0].Version)
		assert.Equal(t, "late", list[1].Name)
		assert.NotEmpty(t, list[1].DownPath)
	})
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		m := migrationFileRegex.FindStringSubmatch(e.Name())
		require.NotNil(t, m, "unexpected file %s", e.Name())
		if m[3] == "up" {
			ups[m[1]] = true
		} else {
			downs[m[1]] = true
		}
	}
	assert.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}
