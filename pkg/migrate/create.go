package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var migrationNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

const migrationTemplate = `-- +goose Up
-- SQL in this section is applied when the migration runs.


-- +goose Down
-- SQL in this section is applied when the migration is rolled back.
`

// CreateSQLMigration writes a timestamped goose migration stub into dir.
func CreateSQLMigration(dir string, name string) (string, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return "", fmt.Errorf("migration name is required")
	}
	if !migrationNamePattern.MatchString(name) {
		return "", fmt.Errorf("migration name %q must match %s", name, migrationNamePattern)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create migrations dir: %w", err)
	}

	version := time.Now().UTC().Format("20060102150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version, name))

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("migration %s already exists", path)
	}

	if err := os.WriteFile(path, []byte(migrationTemplate), 0o644); err != nil {
		return "", fmt.Errorf("write migration: %w", err)
	}
	return path, nil
}
