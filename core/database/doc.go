// Package database manages the connection to the platform database.
//
// Connect opens a pooled GORM connection (MySQL in production, SQLite for
// in-memory tests) and verifies it with a ping before handing it out.
//
// GetTableColumns inspects a table's column layout; the export feature uses
// it to build joined browse queries with per-table column aliases.
package database
