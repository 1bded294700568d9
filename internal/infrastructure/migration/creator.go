package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
	// versions are zero-padded sequence numbers: 000001, 000002, ...
	versionWidth = 6
)

const migrationUpTemplate = `-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

-- Remember the tenant_id column and a (tenant_id, ...) unique index for
-- anything that must be unique within one club.

`

const migrationDownTemplate = `-- Migration: {{.Name}} (Rollback)
-- Created: {{.Timestamp}}
-- Description: Rollback for {{.Description}}

`

// MigrationFile describes a freshly created up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes the next numbered migration pair into migrationsDir
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, errors.New("migration name must contain letters or digits")
	}
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(migrationsDir)
	if err != nil {
		return nil, err
	}
	next, err := nextVersion(existing)
	if err != nil {
		return nil, err
	}

	version := fmt.Sprintf("%0*d", versionWidth, next)
	baseName := version + "_" + slug
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   time.Now().Format(time.RFC3339),
		UpPath:      filepath.Join(migrationsDir, baseName+upSuffix),
		DownPath:    filepath.Join(migrationsDir, baseName+downSuffix),
	}

	if err := createMigrationFile(mf.UpPath, migrationUpTemplate, mf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := createMigrationFile(mf.DownPath, migrationDownTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

func nextVersion(names []string) (int, error) {
	highest := 0
	for _, name := range names {
		v, err := versionOf(name)
		if err != nil {
			return 0, err
		}
		if v > highest {
			highest = v
		}
	}
	return highest + 1, nil
}

func versionOf(baseName string) (int, error) {
	prefix, _, _ := strings.Cut(baseName, "_")
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("migration %q does not start with a version number", baseName)
	}
	return v, nil
}

func createMigrationFile(path, tmplContent string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// sanitizeName lowercases name and keeps letters, digits and single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			if s := b.String(); s != "" && !strings.HasSuffix(s, "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the base names of the up migrations in a directory,
// in version order. A missing directory yields an empty list.
func ListMigrations(migrationsDir string) ([]string, error) {
	names, err := List(os.DirFS(migrationsDir))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	return names, err
}

// List returns the base names of the up migrations in fsys, in version order
func List(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), upSuffix); ok {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Verify checks that every up migration has a down file and that no two
// migrations share a version
func Verify(fsys fs.FS) error {
	names, err := List(fsys)
	if err != nil {
		return err
	}
	seen := make(map[int]string, len(names))
	for _, name := range names {
		v, err := versionOf(name)
		if err != nil {
			return err
		}
		if other, ok := seen[v]; ok {
			return fmt.Errorf("migrations %q and %q share version %d", other, name, v)
		}
		seen[v] = name
		if _, err := fs.Stat(fsys, name+downSuffix); err != nil {
			return fmt.Errorf("migration %q has no down file", name)
		}
	}
	return nil
}
