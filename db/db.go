// Package db carries the canonical SQL schema so tests and tooling can apply
// it without shelling out to migration infrastructure.
package db

import _ "embed"

// Schema is the full DDL for a fresh database.
//
//go:embed schema.sql
var Schema string
