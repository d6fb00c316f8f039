// Package database provides the SQLite scan archive.
//
// Completed scans are stored as JSON snapshots so that the compare
// command can diff a target's findings across time. The archive is
// separate from the CSV finding history: history is the flat
// append-only record of every finding, the archive keeps whole scans.
package database
