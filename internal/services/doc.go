// Package services defines the shared error taxonomy and context plumbing
// used across the analysis and export pipeline.
//
// Errors are classified with sentinel markers so callers can decide whether
// a failure is terminal for the request (extraction), non-terminal
// (classifier unavailable), or scoped to a single export item (conversion).
package services
