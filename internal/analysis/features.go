package analysis

// Shape classifies a sample by playback role: short percussive hits trigger
// once, longer material is treated as loopable.
type Shape string

const (
	ShapeOneShot Shape = "one-shot"
	ShapeLoop    Shape = "loop"
)

// AudioFeatures is the signal-derived feature set for one analysis run.
// Nil pointer fields mean "not computed", never "zero". The struct is
// immutable after construction.
type AudioFeatures struct {
	TempoBPM        *float64 `json:"tempo_bpm,omitempty"`
	TempoConfidence *int     `json:"tempo_confidence,omitempty"`
	// RawTempoBPM preserves the uncorrected periodicity estimate for audit
	// whenever a correction was applied.
	RawTempoBPM       *float64 `json:"raw_tempo_bpm,omitempty"`
	TempoWasCorrected bool     `json:"tempo_was_corrected"`
	CorrectionMethod  string   `json:"correction_method,omitempty"`
	Key               *string  `json:"key,omitempty"`
	KeyConfidence     *int     `json:"key_confidence,omitempty"`
	Shape             Shape    `json:"shape"`
	DurationSeconds   float64  `json:"duration_seconds"`
}

// HasTempo reports whether a tempo estimate was produced.
func (f AudioFeatures) HasTempo() bool {
	return f.TempoBPM != nil
}

// Correction method names recorded for audit.
const (
	CorrectionHalved     = "halved"
	CorrectionDoubled    = "doubled"
	CorrectionOctaveSnap = "octave-snap"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func stringPtr(v string) *string { return &v }

// clampConfidence bounds a confidence value to the 0-100 scale.
func clampConfidence(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
