// Package migrations embeds the goose schema baseline so that library
// consumers can open a fresh store without shipping .sql files alongside
// the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
