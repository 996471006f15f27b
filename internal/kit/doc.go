// Package kit scores analyzed samples against pad purposes and assembles
// kit manifests for the 4-bank, 16-pad sampler layout.
//
// Scoring combines three normalized terms: tempo compatibility, category
// match, and analysis confidence. Each term carries a configurable
// weight; when a term does not apply to a purpose (no target tempo, no
// desired category) its weight is redistributed proportionally across
// the remaining terms. Scoring is pure: the same pool and purpose always
// produce the same ranking.
package kit
