// Package migrations embeds the goose migrations for the local cache
// database (token metadata and reading progress).
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
