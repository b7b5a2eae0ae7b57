// Package migrations embeds the schema migrations so the binaries run them
// without a SQL directory on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
