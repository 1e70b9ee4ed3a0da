// Package metadata is the client's local key/value store. It holds the
// persisted session (see the session package) in an SQLite table.
package metadata
