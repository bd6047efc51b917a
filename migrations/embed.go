// Package migrations embute os arquivos SQL executados pelo goose (cmd/migrate).
package migrations

import "embed"

// FS contém as migrações versionadas (formato goose).
//
//go:embed *.sql
var FS embed.FS
