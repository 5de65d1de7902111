// Package history persists finished run summaries in a local SQLite
// database. Recording is opt-in; when disabled the sync path never touches
// this package.
package history
