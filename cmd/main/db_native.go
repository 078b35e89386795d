//go:build !cgo_sqlite

package main

import _ "modernc.org/sqlite"

// sqliteDriver names the pure Go SQLite driver used by default.
const sqliteDriver = "sqlite"
