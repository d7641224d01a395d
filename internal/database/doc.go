// Package database stores scanning sessions in SQLite.
//
// A SessionDB keeps two tables:
//   - sessions: one row per session with the merged fields as JSON
//   - scans: one row per applied OCR pass, keyed by text fingerprint
//
// The driver is modernc.org/sqlite, so no cgo is needed. The database
// runs in WAL mode with a single connection; writes that hit a busy
// database are retried.
package database
