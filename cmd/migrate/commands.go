package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"github.com/clube/backend/internal/infrastructure/migration"
	"github.com/clube/backend/migrations"
)

// schemaMigrator is the part of migration.Migrator the schema commands use
type schemaMigrator interface {
	Up() error
	Down() error
	Steps(n int) error
	GoTo(version uint) error
	Version() (uint, bool, error)
	Force(version int) error
	Drop() error
}

var errUsage = errors.New("usage")

// source tells where migration files are read from
type source struct {
	dir      string
	embedded bool
}

func (s source) fs() fs.FS {
	if s.embedded {
		return migrations.FS
	}
	return os.DirFS(s.dir)
}

func (s source) list() ([]string, error) {
	if s.embedded {
		return migration.List(migrations.FS)
	}
	return migration.ListMigrations(s.dir)
}

// needsDatabase reports whether command talks to the database
func needsDatabase(command string) bool {
	return !slices.Contains([]string{"create", "list", "verify"}, command)
}

// runFileCommand runs the commands that only read or write migration files
func runFileCommand(args []string, src source, out io.Writer) error {
	switch args[0] {
	case "create":
		if src.embedded {
			return errors.New("create writes to -path and cannot be combined with -embedded")
		}
		if len(args) < 2 {
			return fmt.Errorf("%w: migrate create <name> [description]", errUsage)
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(src.dir, args[1], description)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "created %s\n  %s\n  %s\n", mf.Version, mf.UpPath, mf.DownPath)
		return err

	case "list":
		names, err := src.list()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			_, err = fmt.Fprintln(out, "no migrations found")
			return err
		}
		for _, name := range names {
			if _, err := fmt.Fprintln(out, name); err != nil {
				return err
			}
		}
		return nil

	case "verify":
		if err := migration.Verify(src.fs()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "migrations are consistent")
		return err
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// runSchemaCommand runs one command against the database schema
func runSchemaCommand(args []string, m schemaMigrator, out io.Writer) error {
	switch args[0] {
	case "up":
		return m.Up()

	case "down":
		return m.Down()

	case "step":
		n, err := intArg(args, "migrate step <n>")
		if err != nil {
			return err
		}
		if n == 0 {
			return errors.New("step count cannot be zero")
		}
		return m.Steps(n)

	case "goto":
		v, err := intArg(args, "migrate goto <version>")
		if err != nil {
			return err
		}
		if v < 1 {
			return errors.New("version must be positive")
		}
		return m.GoTo(uint(v))

	case "force":
		v, err := intArg(args, "migrate force <version>")
		if err != nil {
			return err
		}
		return m.Force(v)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			_, err = fmt.Fprintln(out, "version=none")
			return err
		}
		_, err = fmt.Fprintf(out, "version=%d dirty=%t\n", version, dirty)
		return err

	case "drop":
		if !slices.Contains(args[1:], "-confirm") && !slices.Contains(args[1:], "--confirm") {
			return errors.New("drop removes every table; run 'migrate drop -confirm'")
		}
		return m.Drop()
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func intArg(args []string, usage string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[1])
	}
	return n, nil
}
