// Command migrate manages the database schema and the migration files.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/clube/backend/internal/infrastructure/logger"
	"github.com/clube/backend/internal/infrastructure/migration"
	"github.com/clube/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		path     string
		logLevel string
		embedded bool
	)
	flag.StringVar(&path, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&embedded, "embedded", false, "Use the migrations compiled into the binary instead of -path")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	src := source{dir: resolveMigrationsPath(path), embedded: embedded}
	log.Debug("Migration CLI started",
		zap.String("command", args[0]),
		zap.String("migrations_path", src.dir),
		zap.Bool("embedded", embedded),
	)

	if err := execute(args, src, log); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		}
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func execute(args []string, src source, log *zap.Logger) error {
	if !needsDatabase(args[0]) {
		return runFileCommand(args, src, os.Stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	files := migration.Dir(src.dir)
	if src.embedded {
		files = migration.Embedded(migrations.FS)
	}
	m, err := migration.New(db, files, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return runSchemaCommand(args, m, os.Stdout)
}

// resolveMigrationsPath finds ./migrations from the working directory or,
// for an installed binary, two levels above the executable
func resolveMigrationsPath(path string) string {
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Clube database migration tool

Usage:
  migrate [flags] <command> [arguments]

Schema commands (read CLUBE_DATABASE_* settings):
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (recovers a dirty schema)
  drop -confirm         Drop all database objects

File commands:
  create <name> [desc]  Create the next numbered migration pair
  list                  List available migrations
  verify                Check that every migration has a down file

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -embedded             Use the migrations compiled into the binary
  -log-level string     Log level: debug, info, warn, error (default: info)

Examples:
  migrate up
  migrate step -1
  migrate create add_lockers "Lockers rented to members"
  migrate -embedded version`)
}
