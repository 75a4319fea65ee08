// Package migrations embeds the SQLite schema of the device-local store.
package migrations

import "embed"

// FS holds the *.sql goose migrations for the local database.
//
//go:embed *.sql
var FS embed.FS
