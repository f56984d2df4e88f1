package migrations

import "embed"

// FS holds the SQL migrations applied at startup, in lexical file order.
//
//go:embed *.sql
var FS embed.FS
