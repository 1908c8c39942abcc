package migration

import "embed"

// Scripts holds the SQL migrations: goose scripts per dialect under
// scripts/goose/<dialect> and golang-migrate pairs under scripts/migrate/mysql.
//
//go:embed scripts
var Scripts embed.FS

const (
	gooseScriptsDir   = "scripts/goose"
	migrateScriptsDir = "scripts/migrate/mysql"
)
