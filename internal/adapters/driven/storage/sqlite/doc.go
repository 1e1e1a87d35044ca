// Package sqlite provides a SQLite-backed implementation of the blob
// store driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Reading state
// (positions, bookmarks, highlights) is stored as whole JSON blobs in a
// single key/value table; each write replaces a blob in one statement, so
// readers never observe a partial update.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory. Each migration is a pair of .up.sql and
// .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.lumen/data/lumen.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on database-level
// locking provided by SQLite in WAL mode.
package sqlite
