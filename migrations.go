package pagebuilder

import "embed"

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded SQL migrations, one directory per dialect.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
