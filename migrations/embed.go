// Package migrations embeds the PostgreSQL schema migrations so the server
// and the migrate command can apply them without a migrations directory on disk.
package migrations

import "embed"

// FS holds every *.sql migration in golang-migrate naming (NNNNNN_name.up.sql / .down.sql)
//
//go:embed *.sql
var FS embed.FS
