// Package migrations embeds the Postgres migration files of the remote trip
// store so they can be applied with the goose programmatic API in tests and
// at server start.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass this to goose.NewProvider instead of relying on a filesystem path at runtime.
//
//go:embed *.sql
var FS embed.FS
