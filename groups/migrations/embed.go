// Package migrations embeds the group store schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
