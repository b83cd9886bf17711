// Package mongostore is a MongoDB document store for the embedded platform.
// All documents share one collection; uniqueness is enforced by a partial
// unique index on a per-collection key derived from the configured indexes.
// Call EnsureIndexes once at startup.
package mongostore
