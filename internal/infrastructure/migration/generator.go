package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

var migrationNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Generator writes new migration skeletons into the scripts source tree.
// A migration is created for every strategy at once so the dialects stay in step.
type Generator struct {
	scriptsPath string
	logger      logger.Interface
	now         func() time.Time
}

// NewGenerator creates a generator rooted at the on-disk scripts directory
// (the one embedded into the binary).
func NewGenerator(scriptsPath string) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      logger.NewLogger().With("component", "migration.generator"),
		now:         time.Now,
	}
}

// CreateMigration writes goose scripts for sqlite and mysql plus the
// golang-migrate up/down pair, and returns the created paths.
func (g *Generator) CreateMigration(name string) ([]string, error) {
	if !migrationNamePattern.MatchString(name) {
		return nil, fmt.Errorf("migration name must match %s", migrationNamePattern)
	}

	version := g.now().UTC().Format("20060102150405")
	created := g.now().Format("2006-01-02 15:04:05")

	files := map[string]string{
		filepath.Join(g.scriptsPath, "goose", "sqlite", fmt.Sprintf("%s_%s.sql", version, name)): gooseTemplate(name, created),
		filepath.Join(g.scriptsPath, "goose", "mysql", fmt.Sprintf("%s_%s.sql", version, name)):  gooseTemplate(name, created),
		filepath.Join(g.scriptsPath, "migrate", "mysql", fmt.Sprintf("%s_%s.up.sql", version, name)): fmt.Sprintf(
			"-- Migration: %s\n-- Created: %s\n\n", name, created),
		filepath.Join(g.scriptsPath, "migrate", "mysql", fmt.Sprintf("%s_%s.down.sql", version, name)): fmt.Sprintf(
			"-- Rollback Migration: %s\n-- Created: %s\n\n", name, created),
	}

	paths := make([]string, 0, len(files))
	for path, content := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create scripts directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write migration file: %w", err)
		}
		paths = append(paths, path)
	}

	g.logger.Infow("migration files created", "name", name, "files", len(paths))
	return paths, nil
}

func gooseTemplate(name, created string) string {
	return fmt.Sprintf(`-- Migration: %s
-- Created: %s

-- +goose Up

-- +goose Down
`, name, created)
}
