package migrations

import "embed"

// FS contains the embedded roster schema migrations.
//
//go:embed *.sql
var FS embed.FS
