// Package migrations embeds the SQL schema so that the server, duesctl and
// the integration tests apply the same files the migrate CLI reads from disk.
package migrations

import "embed"

// FS holds every NNNNNN_name.up.sql / .down.sql pair in this directory
//
//go:embed *.sql
var FS embed.FS
