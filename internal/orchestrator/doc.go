// Package orchestrator drives a single sample through the analysis
// pipeline: feature extraction, optional vibe classification, and fusion
// of the two into one AnalysisResult.
//
// Each request walks a fixed state machine:
//
//	Pending -> ExtractingFeatures -> (ClassifyingVibe | SkippingVibe)
//	        -> Fusing -> Complete | Failed
//
// Extraction and classification run concurrently when both are requested
// and neither cancels the other. Fusion is disjoint: tempo and key come
// only from the extractor, genre and mood only from the classifier; no
// field is ever blended across sources.
//
// An extraction failure is terminal for the request. A classifier failure
// is not: the result completes with local features and a nil vibe. The
// orchestrator never retries; retry policy belongs to the caller.
package orchestrator
