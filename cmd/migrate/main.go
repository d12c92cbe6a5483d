package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/feedoffice/backend/internal/infrastructure/config"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/infrastructure/migration"
	"github.com/feedoffice/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	// create and list work on files and need no database
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name>")
		}
		mf, err := migration.CreateMigration(sourceDir(migrationsPath), args[1])
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath))
		return

	case "list":
		files, err := migration.ListMigrations(sourceDir(migrationsPath))
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(files) == 0 {
			log.Info("No migrations found")
			return
		}
		for _, mf := range files {
			fmt.Printf("  %06d  %s\n", mf.Version, mf.Name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver == "sqlite" {
		log.Fatal("SQL migrations target PostgreSQL; SQLite schemas are created by the server on startup")
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.New(db, sourceDir(migrationsPath), log)
	} else {
		m, err = migration.NewFromFS(db, migrations.FS, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// sourceDir resolves the on-disk migrations directory
func sourceDir(path string) string {
	if path == "" {
		path = defaultMigrationsPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func printUsage() {
	fmt.Println(`Feed office database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  step <n>          Apply n migrations (positive=up, negative=down)
  version           Show current migration version
  force <version>   Force set migration version (use with caution)
  create <name>     Create a new migration file pair
  list              List migrations on disk

Flags:
  -path string        Migrations directory (default: embedded migrations;
                      ./migrations for create and list)
  -log-level string   Log level: debug, info, warn, error (default: info)

Environment Variables:
  FEED_DATABASE_HOST, FEED_DATABASE_PORT, FEED_DATABASE_USER,
  FEED_DATABASE_PASSWORD, FEED_DATABASE_DBNAME, FEED_DATABASE_SSLMODE`)
}
