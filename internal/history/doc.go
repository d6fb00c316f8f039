// Package history persists findings as an append-only CSV sequence.
//
// The store guarantees that a successful append never loses or reorders
// previously appended records: the append path reads the full sequence,
// concatenates the new findings, writes the result to a temporary file,
// and atomically renames it over the original. Appends are serialized
// through a single-writer mutex; reads take no lock because the
// rename-replace cycle never exposes a partially written file.
package history
