package vibe

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"kitcrate/internal/analysis"
	"kitcrate/internal/logging"
	"kitcrate/internal/services"
	"kitcrate/internal/services/inference"
)

// maxCandidates bounds the candidate list carried on a VibeResult.
const maxCandidates = 3

// Candidate is one ranked genre label with its score on the 0-100 scale.
type Candidate struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// VibeResult is the classifier's verdict for one sample. Nil pointer
// fields mean "not computed". Category is nil when the raw label maps to
// no target-device category.
type VibeResult struct {
	Label         *string     `json:"label,omitempty"`
	Confidence    *int        `json:"confidence,omitempty"`
	Category      *string     `json:"category,omitempty"`
	Mood          *string     `json:"mood,omitempty"`
	TopCandidates []Candidate `json:"top_candidates,omitempty"`
}

// Sample is the classification input: identity plus locally extracted
// features used to build the model payload.
type Sample struct {
	ID       int64
	Filename string
	Features analysis.AudioFeatures
}

// Inference is the remote model surface the classifier depends on.
type Inference interface {
	ClassifyVibe(ctx context.Context, descriptor string) (inference.Classification, error)
	Model() string
}

// LedgerEntry records one classification attempt for usage accounting.
type LedgerEntry struct {
	SampleID      int64
	Model         string
	PromptChars   int
	ResponseChars int
	Latency       time.Duration
	Outcome       string // "ok" or "error"
	Detail        string
	At            time.Time
}

// Ledger receives one entry per classification attempt. Implementations
// must tolerate high call rates; failures are logged, never propagated.
type Ledger interface {
	Record(ctx context.Context, entry LedgerEntry) error
}

// Classifier adapts the inference backend to the analysis pipeline.
type Classifier struct {
	backend Inference
	ledger  Ledger
	logger  *slog.Logger
}

// NewClassifier constructs a classifier. The ledger may be nil, in which
// case usage accounting is skipped.
func NewClassifier(backend Inference, ledger Ledger, logger *slog.Logger) *Classifier {
	return &Classifier{
		backend: backend,
		ledger:  ledger,
		logger:  logging.NewComponentLogger(logger, "vibe"),
	}
}

// Classify sends the sample descriptor to the model and maps the response
// onto the target-device vocabulary. Remote errors wrap
// services.ErrClassifierUnavailable; the attempt is recorded in the
// ledger either way.
func (c *Classifier) Classify(ctx context.Context, sample Sample) (*VibeResult, error) {
	descriptor := Descriptor(sample)

	started := time.Now()
	classification, err := c.backend.ClassifyVibe(ctx, descriptor)
	latency := time.Since(started)

	entry := LedgerEntry{
		SampleID:    sample.ID,
		Model:       c.backend.Model(),
		PromptChars: len(descriptor),
		Latency:     latency,
		Outcome:     "ok",
		At:          started.UTC(),
	}
	if err != nil {
		entry.Outcome = "error"
		entry.Detail = err.Error()
	} else {
		entry.ResponseChars = len(classification.Raw)
	}
	c.record(ctx, entry)

	if err != nil {
		return nil, services.Wrap(
			services.ErrClassifierUnavailable,
			"vibe",
			"classify",
			"inference backend failed",
			err,
		)
	}
	if classification.Label == "" {
		return nil, services.Wrap(
			services.ErrClassifierUnavailable,
			"vibe",
			"classify",
			"inference backend returned no label",
			nil,
		)
	}

	result := &VibeResult{
		Label:      stringPtr(classification.Label),
		Confidence: intPtr(scaleConfidence(classification.Confidence)),
	}
	if classification.Mood != "" {
		result.Mood = stringPtr(classification.Mood)
	}
	if category, ok := MapCategory(classification.Label); ok {
		result.Category = stringPtr(category)
	} else {
		c.logger.Debug("label has no target-device category",
			logging.String("label", classification.Label),
		)
	}
	for _, candidate := range classification.Candidates {
		if len(result.TopCandidates) == maxCandidates {
			break
		}
		if candidate.Label == "" {
			continue
		}
		result.TopCandidates = append(result.TopCandidates, Candidate{
			Label: candidate.Label,
			Score: scaleConfidence(candidate.Confidence),
		})
	}
	return result, nil
}

// HealthCheck pings the inference backend when it supports it.
func (c *Classifier) HealthCheck(ctx context.Context) error {
	checker, ok := c.backend.(interface{ HealthCheck(context.Context) error })
	if !ok {
		return nil
	}
	return checker.HealthCheck(ctx)
}

func (c *Classifier) record(ctx context.Context, entry LedgerEntry) {
	if c.ledger == nil {
		return
	}
	if err := c.ledger.Record(ctx, entry); err != nil {
		c.logger.Warn("usage ledger record failed",
			logging.Int64("sample_id", entry.SampleID),
			logging.Error(err),
		)
	}
}

// Descriptor renders the model payload for a sample: filename plus
// whichever locally extracted features are known at call time. The
// orchestrator classifies concurrently with extraction, so tempo, key,
// and shape may be absent.
func Descriptor(sample Sample) string {
	var b strings.Builder
	fmt.Fprintf(&b, "filename: %s\n", sample.Filename)
	fmt.Fprintf(&b, "duration: %.2fs\n", sample.Features.DurationSeconds)
	if sample.Features.Shape != "" {
		fmt.Fprintf(&b, "shape: %s\n", sample.Features.Shape)
	}
	if sample.Features.TempoBPM != nil {
		fmt.Fprintf(&b, "tempo: %.1f BPM", *sample.Features.TempoBPM)
		if sample.Features.TempoConfidence != nil {
			fmt.Fprintf(&b, " (confidence %d/100)", *sample.Features.TempoConfidence)
		}
		b.WriteString("\n")
	}
	if sample.Features.Key != nil {
		fmt.Fprintf(&b, "key: %s\n", *sample.Features.Key)
	}
	return strings.TrimRight(b.String(), "\n")
}

func scaleConfidence(v float64) int {
	scaled := int(math.Round(v * 100))
	if scaled < 0 {
		return 0
	}
	if scaled > 100 {
		return 100
	}
	return scaled
}

func stringPtr(s string) *string { return &s }
func intPtr(v int) *int          { return &v }
