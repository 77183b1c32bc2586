// Package migrations embeds the schema migrations for the consents and
// data_requests tables, applied by integration test fixtures and tooling.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
