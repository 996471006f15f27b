// Package catalog persists analyzed samples and the classification usage
// ledger in SQLite.
//
// The store is the persistence sink for the analysis pipeline: samples
// are registered by path, each (re)analysis replaces the stored result
// wholesale, and the usage ledger accumulates one row per classification
// attempt. WAL mode plus a short busy-retry loop keeps concurrent CLI
// invocations from tripping over each other.
package catalog
