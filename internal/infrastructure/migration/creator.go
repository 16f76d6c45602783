package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/pos/backend/internal/infrastructure/config"
)

const migrationUpTemplate = `-- Migration: {{.Name}}
-- Dialect: {{.Dialect}}
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

`

const migrationDownTemplate = `-- Migration: {{.Name}} (Rollback)
-- Dialect: {{.Dialect}}
-- Created: {{.Timestamp}}

`

// Dialects lists the SQL dialects every migration is written for
var Dialects = []string{config.DriverSQLite, config.DriverPostgres}

// MigrationFile represents a migration file pair for one dialect
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Dialect     string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down pair for every dialect under
// rootDir (rootDir/sqlite, rootDir/postgres) sharing one version.
func CreateMigration(rootDir, name, description string) ([]MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	now := time.Now().UTC()
	version := now.Format("20060102150405")

	created := make([]MigrationFile, 0, len(Dialects))
	for _, dialect := range Dialects {
		dir := filepath.Join(rootDir, dialect)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			removeCreated(created)
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}

		baseName := fmt.Sprintf("%s_%s", version, base)
		mf := MigrationFile{
			Version:     version,
			Name:        name,
			Description: description,
			Dialect:     dialect,
			Timestamp:   now.Format(time.RFC3339),
			UpPath:      filepath.Join(dir, baseName+".up.sql"),
			DownPath:    filepath.Join(dir, baseName+".down.sql"),
		}

		if err := createMigrationFile(mf.UpPath, migrationUpTemplate, &mf); err != nil {
			removeCreated(created)
			return nil, fmt.Errorf("failed to create up migration: %w", err)
		}
		if err := createMigrationFile(mf.DownPath, migrationDownTemplate, &mf); err != nil {
			_ = os.Remove(mf.UpPath)
			removeCreated(created)
			return nil, fmt.Errorf("failed to create down migration: %w", err)
		}
		created = append(created, mf)
	}
	return created, nil
}

func removeCreated(files []MigrationFile) {
	for _, f := range files {
		_ = os.Remove(f.UpPath)
		_ = os.Remove(f.DownPath)
	}
}

// createMigrationFile creates a single migration file from template
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

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// sanitizeName converts a migration name to a safe file name format
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			result = append(result, c)
		case c >= 'A' && c <= 'Z':
			result = append(result, c+'a'-'A')
		case c >= '0' && c <= '9':
			result = append(result, c)
		case c == ' ' || c == '-' || c == '_':
			if len(result) > 0 && result[len(result)-1] != '_' {
				result = append(result, '_')
			}
		}
	}
	if len(result) > 0 && result[len(result)-1] == '_' {
		result = result[:len(result)-1]
	}
	return string(result)
}

// ListMigrations returns the base names of the embedded migrations for a
// driver, in version order
func ListMigrations(driver string) ([]string, error) {
	source, err := Source(driver)
	if err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	migrations := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	sort.Strings(migrations)
	return migrations, nil
}
