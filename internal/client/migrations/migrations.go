// Package migrations embeds the SQLite schema of the local CLI cache.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
