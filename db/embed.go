// Package db carries the goose SQL migrations of the disclosure store.
package db

import "embed"

// Migrations holds every file under migrations/, rooted at "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations goose reads from.
const MigrationsDir = "migrations"
