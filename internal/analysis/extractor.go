package analysis

import (
	"log/slog"

	"kitcrate/internal/config"
	"kitcrate/internal/logging"
	"kitcrate/internal/services"
	"kitcrate/internal/waveform"
)

// ExtractorConfig tunes feature extraction. Zero values are replaced with
// repository defaults by NewExtractor.
type ExtractorConfig struct {
	// ShapeThresholdSeconds splits one-shots from loops; the comparison is
	// strict (duration < threshold means one-shot).
	ShapeThresholdSeconds float64
	// LoopBand is the plausible tempo range for loops.
	LoopBand Band
	// OneShotBand is the soft tempo target for one-shots.
	OneShotBand Band
	// CandidateMultipliers are tried in order during tempo correction.
	CandidateMultipliers []float64
}

// ExtractorConfigFromApp maps application configuration onto extractor tuning.
func ExtractorConfigFromApp(cfg config.Analysis) ExtractorConfig {
	return ExtractorConfig{
		ShapeThresholdSeconds: cfg.ShapeThresholdSeconds,
		LoopBand:              Band{Min: cfg.LoopTempoMin, Max: cfg.LoopTempoMax},
		OneShotBand:           Band{Min: cfg.OneShotTempoMin, Max: cfg.OneShotTempoMax},
		CandidateMultipliers:  cfg.CandidateMultipliers,
	}
}

func (c ExtractorConfig) withDefaults() ExtractorConfig {
	if c.ShapeThresholdSeconds <= 0 {
		c.ShapeThresholdSeconds = 1.0
	}
	if c.LoopBand == (Band{}) {
		c.LoopBand = Band{Min: 60, Max: 180}
	}
	if c.OneShotBand == (Band{}) {
		c.OneShotBand = Band{Min: 40, Max: 200}
	}
	if len(c.CandidateMultipliers) == 0 {
		c.CandidateMultipliers = []float64{0.5, 2.0}
	}
	return c
}

// Extractor derives AudioFeatures from decoded waveforms.
type Extractor struct {
	cfg    ExtractorConfig
	stats  *Stats
	logger *slog.Logger
}

// NewExtractor constructs an extractor. The stats counter set is owned by the
// caller; pass nil to disable counting.
func NewExtractor(cfg ExtractorConfig, stats *Stats, logger *slog.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg.withDefaults(),
		stats:  stats,
		logger: logging.NewComponentLogger(logger, "analysis"),
	}
}

// Extract derives tempo, key, and shape from the waveform. On unreadable or
// empty input it fails soft: the returned features carry the permissive loop
// shape with all other fields unset, and the error wraps the extraction
// marker so the orchestrator can fail the request.
func (e *Extractor) Extract(w *waveform.Waveform) (AudioFeatures, error) {
	if w == nil || w.Frames() == 0 || w.SampleRate <= 0 {
		return AudioFeatures{Shape: ShapeLoop}, services.Wrap(
			services.ErrExtraction,
			"analysis",
			"extract",
			"waveform is empty or undecodable",
			nil,
		)
	}

	duration := w.Duration()
	shape := ShapeLoop
	if duration < e.cfg.ShapeThresholdSeconds {
		shape = ShapeOneShot
	}

	features := AudioFeatures{
		Shape:           shape,
		DurationSeconds: duration,
	}

	mono := w.Mono()

	if estimate, ok := estimateTempo(mono, w.SampleRate); ok {
		band := e.cfg.LoopBand
		if shape == ShapeOneShot {
			band = e.cfg.OneShotBand
		}
		corrected := correctTempo(estimate.bpm, shape, band, e.cfg.CandidateMultipliers)

		features.TempoBPM = floatPtr(corrected.bpm)
		features.TempoConfidence = intPtr(tempoConfidence(estimate.sharpness, corrected.method != ""))
		if corrected.method != "" {
			features.RawTempoBPM = floatPtr(estimate.bpm)
			features.TempoWasCorrected = true
			features.CorrectionMethod = corrected.method
			e.logger.Debug("tempo corrected",
				logging.Float64("raw_bpm", estimate.bpm),
				logging.Float64("bpm", corrected.bpm),
				logging.String("method", corrected.method),
			)
		}
	}

	if estimate, ok := estimateKey(mono, w.SampleRate); ok {
		features.Key = stringPtr(estimate.name)
		features.KeyConfidence = intPtr(estimate.confidence)
	}

	e.stats.recordAnalysis(features.CorrectionMethod)
	return features, nil
}

// StatsSnapshot exposes the extractor's counters.
func (e *Extractor) StatsSnapshot() StatsSnapshot {
	return e.stats.Snapshot()
}
