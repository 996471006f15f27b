package orchestrator

import (
	"time"

	"kitcrate/internal/analysis"
	"kitcrate/internal/vibe"
)

// Status is the state of an analysis request.
type Status string

const (
	StatusPending            Status = "pending"
	StatusExtractingFeatures Status = "extracting_features"
	StatusClassifyingVibe    Status = "classifying_vibe"
	StatusSkippingVibe       Status = "skipping_vibe"
	StatusFusing             Status = "fusing"
	StatusComplete           Status = "complete"
	StatusFailed             Status = "failed"
)

// Step names used in metadata.
const (
	StepExtraction     = "feature_extraction"
	StepClassification = "vibe_classification"
)

// Skip reasons recorded per skipped step.
const (
	SkipReasonPolicy          = "policy"
	SkipReasonFailure         = "failure"
	SkipReasonConfidenceFloor = "confidence-floor"
)

// Metadata captures how a result was produced.
type Metadata struct {
	RunID            string            `json:"run_id"`
	StartedAt        time.Time         `json:"started_at"`
	CompletedAt      time.Time         `json:"completed_at"`
	AnalyzersRun     []string          `json:"analyzers_run"`
	SkippedSteps     map[string]string `json:"skipped_steps,omitempty"`
	CorrectionMethod string            `json:"correction_method,omitempty"`
	ClassifierError  string            `json:"classifier_error,omitempty"`
	StateHistory     []Status          `json:"state_history"`
}

// AnalysisResult is the fused outcome of one analysis request. A fresh
// result replaces, never merges into, any prior result for the sample.
//
// When Status is StatusFailed, Features still carries the extractor's
// fail-soft values (permissive loop shape, everything else unset) and
// FailureReason explains the terminal error. Vibe is nil whenever the
// classification step was skipped or failed.
type AnalysisResult struct {
	SampleID      int64                  `json:"sample_id"`
	Status        Status                 `json:"status"`
	Features      analysis.AudioFeatures `json:"features"`
	Vibe          *vibe.VibeResult       `json:"vibe,omitempty"`
	FailureReason string                 `json:"failure_reason,omitempty"`
	Metadata      Metadata               `json:"metadata"`
}

// Complete reports whether the request produced a usable result.
func (r AnalysisResult) Complete() bool {
	return r.Status == StatusComplete
}
