// Package db embeds the SQL migrations applied by `nasactl db migrate`.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
