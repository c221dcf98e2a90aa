// Package migrations embeds the Postgres schema so the server can migrate
// without the repository checked out next to it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
