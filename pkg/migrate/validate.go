package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFilePattern = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks that every migration file in dir follows the
// YYYYMMDDHHMMSS_name.sql convention, that versions are unique, and that
// each file carries goose Up/Down markers.
func ValidateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	seen := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		match := migrationFilePattern.FindStringSubmatch(name)
		if match == nil {
			return fmt.Errorf("migration %q does not match YYYYMMDDHHMMSS_name.sql", name)
		}

		version := match[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s (%s and %s)", version, prev, name)
		}
		seen[version] = name

		contents, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		body := string(contents)
		if !strings.Contains(body, "-- +goose Up") {
			return fmt.Errorf("migration %s is missing a '-- +goose Up' section", name)
		}
		if !strings.Contains(body, "-- +goose Down") {
			return fmt.Errorf("migration %s is missing a '-- +goose Down' section", name)
		}
	}

	if len(seen) == 0 {
		return fmt.Errorf("no migrations found in %s", dir)
	}
	return nil
}
