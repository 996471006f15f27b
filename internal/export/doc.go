// Package export validates, converts, and copies analyzed samples into
// the sampler library directory.
//
// Every candidate becomes an ExportItem with an independent validation
// verdict: ok (already conforms, verified copy), corrected (resampled
// and requantized to the target format), or rejected (nothing written,
// reasons recorded). Batches run items through a bounded worker pool and
// never abort because one item fails; the returned manifest aggregates
// per-item outcomes.
//
// The library directory is guarded with an advisory file lock for the
// duration of a batch, and a free-space preflight runs before any file
// is written.
package export
