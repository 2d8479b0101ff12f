package postgres

import "embed"

// MigrationsDir is the directory inside Migrations holding the goose files.
const MigrationsDir = "migrations"

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

// Migrations holds the SQL migrations for the schema used by this package.
//
//go:embed migrations/*.sql
var Migrations embed.FS
