package kit

import (
	"math"
	"sort"
	"time"

	"kitcrate/internal/analysis"
	"kitcrate/internal/config"
	"kitcrate/internal/vibe"
)

// PurposeKind selects which confidences matter for a pad.
type PurposeKind string

const (
	// KindRhythm pads (kicks, snares, hats, percussion loops) weigh
	// tempo confidence.
	KindRhythm PurposeKind = "rhythm"
	// KindMelodic pads (chords, pads, melodic loops) weigh the vibe
	// confidence, falling back to key confidence.
	KindMelodic PurposeKind = "melodic"
)

// Purpose declares what a pad is for.
type Purpose struct {
	Name           string
	Kind           PurposeKind
	TargetTempoBPM *float64
	Category       string
}

// Candidate is one analyzed sample in the recommendation pool.
type Candidate struct {
	SampleID   int64
	Path       string
	Filename   string
	AnalyzedAt time.Time
	Features   analysis.AudioFeatures
	Vibe       *vibe.VibeResult
}

// Weights are the relative term weights before redistribution. They need
// not sum to one; only proportions matter.
type Weights struct {
	Tempo      float64
	Category   float64
	Confidence float64
}

// Config tunes recommendation scoring.
type Config struct {
	TempoToleranceBPM float64
	Weights           Weights
	MinScore          float64
	TopN              int
}

// ConfigFromApp maps application configuration onto recommender tuning.
func ConfigFromApp(cfg config.Recommend) Config {
	return Config{
		TempoToleranceBPM: cfg.TempoToleranceBPM,
		Weights: Weights{
			Tempo:      cfg.TempoWeight,
			Category:   cfg.CategoryWeight,
			Confidence: cfg.ConfidenceWeight,
		},
		MinScore: cfg.MinScore,
		TopN:     cfg.TopN,
	}
}

func (c Config) withDefaults() Config {
	if c.TempoToleranceBPM <= 0 {
		c.TempoToleranceBPM = 5
	}
	if c.Weights == (Weights{}) {
		c.Weights = Weights{Tempo: 0.45, Category: 0.35, Confidence: 0.20}
	}
	if c.TopN <= 0 {
		c.TopN = 5
	}
	return c
}

// ScoreBreakdown exposes each term's normalized value and effective
// weight after redistribution.
type ScoreBreakdown struct {
	TempoTerm        float64 `json:"tempo_term"`
	TempoWeight      float64 `json:"tempo_weight"`
	CategoryTerm     float64 `json:"category_term"`
	CategoryWeight   float64 `json:"category_weight"`
	ConfidenceTerm   float64 `json:"confidence_term"`
	ConfidenceWeight float64 `json:"confidence_weight"`
}

// Total is the weighted sum of the terms.
func (b ScoreBreakdown) Total() float64 {
	return b.TempoTerm*b.TempoWeight +
		b.CategoryTerm*b.CategoryWeight +
		b.ConfidenceTerm*b.ConfidenceWeight
}

// Recommendation is one ranked candidate.
type Recommendation struct {
	Candidate Candidate      `json:"candidate"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"score_breakdown"`
}

// Recommender ranks candidates for pad purposes.
type Recommender struct {
	cfg Config
}

// NewRecommender constructs a recommender.
func NewRecommender(cfg Config) *Recommender {
	return &Recommender{cfg: cfg.withDefaults()}
}

// Recommend scores the pool against the purpose and returns the top n
// candidates, best first. Ties break on confidence, then on the most
// recent analysis.
func (r *Recommender) Recommend(purpose Purpose, pool []Candidate, topN int) []Recommendation {
	if topN <= 0 {
		topN = r.cfg.TopN
	}
	recs := make([]Recommendation, 0, len(pool))
	for _, candidate := range pool {
		breakdown := r.score(purpose, candidate)
		recs = append(recs, Recommendation{
			Candidate: candidate,
			Score:     breakdown.Total(),
			Breakdown: breakdown,
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if !almostEqual(recs[i].Score, recs[j].Score) {
			return recs[i].Score > recs[j].Score
		}
		ci := recs[i].Breakdown.ConfidenceTerm
		cj := recs[j].Breakdown.ConfidenceTerm
		if !almostEqual(ci, cj) {
			return ci > cj
		}
		return recs[i].Candidate.AnalyzedAt.After(recs[j].Candidate.AnalyzedAt)
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

// score computes the three terms and redistributes the weights of the
// inapplicable ones.
func (r *Recommender) score(purpose Purpose, candidate Candidate) ScoreBreakdown {
	var breakdown ScoreBreakdown

	tempoApplies := purpose.TargetTempoBPM != nil
	categoryApplies := purpose.Category != ""

	if tempoApplies {
		breakdown.TempoTerm = r.tempoTerm(*purpose.TargetTempoBPM, candidate)
	}
	if categoryApplies {
		breakdown.CategoryTerm = categoryTerm(purpose.Category, candidate)
	}
	breakdown.ConfidenceTerm = confidenceTerm(purpose.Kind, candidate)

	weights := r.cfg.Weights
	total := weights.Confidence
	if tempoApplies {
		total += weights.Tempo
	}
	if categoryApplies {
		total += weights.Category
	}
	if total <= 0 {
		return breakdown
	}
	if tempoApplies {
		breakdown.TempoWeight = weights.Tempo / total
	}
	if categoryApplies {
		breakdown.CategoryWeight = weights.Category / total
	}
	breakdown.ConfidenceWeight = weights.Confidence / total
	return breakdown
}

// tempoTerm decays linearly from 1.0 at an exact match to 0 at the
// tolerance edge. A candidate without a detected tempo scores 0 when the
// purpose declares one.
func (r *Recommender) tempoTerm(target float64, candidate Candidate) float64 {
	if candidate.Features.TempoBPM == nil {
		return 0
	}
	diff := math.Abs(*candidate.Features.TempoBPM - target)
	if diff >= r.cfg.TempoToleranceBPM {
		return 0
	}
	return 1 - diff/r.cfg.TempoToleranceBPM
}

// categoryTerm gives full credit for an exact target-device category
// match and half credit for adjacent categories.
func categoryTerm(want string, candidate Candidate) float64 {
	if candidate.Vibe == nil || candidate.Vibe.Category == nil {
		return 0
	}
	got := *candidate.Vibe.Category
	switch {
	case got == want:
		return 1
	case vibe.CategoriesAdjacent(got, want):
		return 0.5
	default:
		return 0
	}
}

// confidenceTerm returns the purpose-relevant confidence on [0,1].
func confidenceTerm(kind PurposeKind, candidate Candidate) float64 {
	switch kind {
	case KindMelodic:
		if candidate.Vibe != nil && candidate.Vibe.Confidence != nil {
			return float64(*candidate.Vibe.Confidence) / 100
		}
		if candidate.Features.KeyConfidence != nil {
			return float64(*candidate.Features.KeyConfidence) / 100
		}
	default:
		if candidate.Features.TempoConfidence != nil {
			return float64(*candidate.Features.TempoConfidence) / 100
		}
	}
	return 0
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
