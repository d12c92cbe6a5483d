package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	migrationFileRegex = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)
	nonWordRegex       = regexp.MustCompile(`[^a-z0-9]+`)
)

// MigrationFile is a generated up/down pair
type MigrationFile struct {
	Version  uint
	Name     string
	UpPath   string
	DownPath string
}

// CreateMigration writes the next sequential pair (000002_name.up.sql, ...) into dir
func CreateMigration(dir, name string) (*MigrationFile, error) {
	slug := slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(dir)
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if n := len(existing); n > 0 {
		next = existing[n-1].Version + 1
	}

	base := fmt.Sprintf("%06d_%s", next, slug)
	mf := &MigrationFile{
		Version:  next,
		Name:     slug,
		UpPath:   filepath.Join(dir, base+".up.sql"),
		DownPath: filepath.Join(dir, base+".down.sql"),
	}

	if err := os.WriteFile(mf.UpPath, []byte("-- "+name+"\n\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(mf.DownPath, []byte("-- revert "+name+"\n\n"), 0o644); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

// ListMigrations returns the migrations found in dir ordered by version.
// A missing directory yields an empty list.
func ListMigrations(dir string) ([]MigrationFile, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := make(map[uint]*MigrationFile)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := migrationFileRegex.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		v, err := strconv.ParseUint(match[1], 10, 32)
		if err != nil {
			continue
		}
		version := uint(v)
		mf, ok := byVersion[version]
		if !ok {
			mf = &MigrationFile{Version: version, Name: match[2]}
			byVersion[version] = mf
		}
		path := filepath.Join(dir, entry.Name())
		if match[3] == "up" {
			mf.UpPath = path
		} else {
			mf.DownPath = path
		}
	}

	out := make([]MigrationFile, 0, len(byVersion))
	for _, mf := range byVersion {
		out = append(out, *mf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func slugify(name string) string {
	return strings.Trim(nonWordRegex.ReplaceAllString(strings.ToLower(name), "_"), "_")
}
