package analysis

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"kitcrate/internal/logging"
	"kitcrate/internal/services"
	"kitcrate/internal/testsupport"
	"kitcrate/internal/waveform"
)

func newTestExtractor(stats *Stats) *Extractor {
	return NewExtractor(ExtractorConfig{}, stats, logging.NewNop())
}

func TestExtractShapeThresholdExclusive(t *testing.T) {
	extractor := newTestExtractor(nil)

	tests := []struct {
		name    string
		seconds float64
		want    Shape
	}{
		{name: "just below threshold", seconds: 0.999, want: ShapeOneShot},
		{name: "at threshold", seconds: 1.0, want: ShapeLoop},
		{name: "above threshold", seconds: 1.5, want: ShapeLoop},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			features, err := extractor.Extract(testsupport.Silence(tc.seconds, 8000))
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if features.Shape != tc.want {
				t.Fatalf("shape for %vs = %q, want %q", tc.seconds, features.Shape, tc.want)
			}
		})
	}
}

func TestExtractDetectsClickTrackTempo(t *testing.T) {
	extractor := newTestExtractor(nil)

	features, err := extractor.Extract(testsupport.ClickTrack(120, 6, 8000))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !features.HasTempo() {
		t.Fatal("expected tempo for periodic click track")
	}
	if got := *features.TempoBPM; math.Abs(got-120) > 5 {
		t.Fatalf("tempo = %.2f BPM, want 120 +/- 5", got)
	}
	if features.TempoWasCorrected {
		t.Fatalf("in-band tempo should not be corrected (method %q)", features.CorrectionMethod)
	}
	if features.TempoConfidence == nil || *features.TempoConfidence <= 0 {
		t.Fatalf("expected positive tempo confidence, got %v", features.TempoConfidence)
	}
}

func TestExtractDoublesSlowLoopTempo(t *testing.T) {
	extractor := newTestExtractor(nil)

	features, err := extractor.Extract(testsupport.ClickTrack(40, 8, 8000))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !features.HasTempo() {
		t.Fatal("expected tempo estimate")
	}
	if !features.TempoWasCorrected {
		t.Fatalf("expected correction for 40 BPM loop, got %.2f BPM", *features.TempoBPM)
	}
	if features.CorrectionMethod != CorrectionDoubled {
		t.Fatalf("correction method = %q, want %q", features.CorrectionMethod, CorrectionDoubled)
	}
	if features.RawTempoBPM == nil {
		t.Fatal("corrected tempo must retain the raw estimate")
	}
	if math.Abs(*features.RawTempoBPM-40) > 3 {
		t.Fatalf("raw tempo = %.2f BPM, want about 40", *features.RawTempoBPM)
	}
	if math.Abs(*features.TempoBPM-80) > 6 {
		t.Fatalf("corrected tempo = %.2f BPM, want about 80", *features.TempoBPM)
	}
	if *features.RawTempoBPM == *features.TempoBPM {
		t.Fatal("raw and corrected tempo must differ when a correction was applied")
	}
}

func TestExtractTempoWithinBandOrCorrected(t *testing.T) {
	extractor := newTestExtractor(nil)

	for _, bpm := range []float64{70, 100, 140, 170} {
		features, err := extractor.Extract(testsupport.ClickTrack(bpm, 6, 8000))
		if err != nil {
			t.Fatalf("Extract(%v BPM): %v", bpm, err)
		}
		if !features.HasTempo() {
			t.Fatalf("no tempo for %v BPM click track", bpm)
		}
		got := *features.TempoBPM
		inBand := got >= 60 && got <= 180
		if !inBand && !features.TempoWasCorrected {
			t.Fatalf("tempo %.2f outside loop band without correction", got)
		}
	}
}

func TestExtractKeyFromMajorChord(t *testing.T) {
	extractor := newTestExtractor(nil)

	// A major triad: A4, C#5, E5.
	chord := testsupport.Chord([]float64{440, 554.37, 659.25}, 3, 8000)
	features, err := extractor.Extract(chord)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if features.Key == nil {
		t.Fatal("expected key estimate for tonal chord")
	}
	if *features.Key != "A major" {
		t.Fatalf("key = %q, want A major", *features.Key)
	}
	if features.KeyConfidence == nil || *features.KeyConfidence <= 0 {
		t.Fatalf("expected positive key confidence, got %v", features.KeyConfidence)
	}
}

func TestExtractDeterministic(t *testing.T) {
	extractor := newTestExtractor(nil)
	clip := testsupport.ClickTrack(120, 6, 8000)

	first, err := extractor.Extract(clip)
	if err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	second, err := extractor.Extract(clip)
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction not deterministic:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestExtractFailsSoftOnEmptyWaveform(t *testing.T) {
	extractor := newTestExtractor(nil)

	features, err := extractor.Extract(&waveform.Waveform{SampleRate: 8000})
	if err == nil {
		t.Fatal("expected extraction error for empty waveform")
	}
	if !errors.Is(err, services.ErrExtraction) {
		t.Fatalf("expected ErrExtraction marker, got %v", err)
	}
	if features.Shape != ShapeLoop {
		t.Fatalf("fail-soft shape = %q, want permissive loop default", features.Shape)
	}
	if features.HasTempo() || features.Key != nil {
		t.Fatalf("fail-soft features must be empty: %+v", features)
	}
}

func TestExtractorStats(t *testing.T) {
	stats := NewStats()
	extractor := newTestExtractor(stats)

	if _, err := extractor.Extract(testsupport.ClickTrack(120, 6, 8000)); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, err := extractor.Extract(testsupport.ClickTrack(40, 8, 8000)); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	snap := stats.Snapshot()
	if snap.TotalAnalyzed != 2 {
		t.Fatalf("total analyzed = %d, want 2", snap.TotalAnalyzed)
	}
	if snap.CorrectionsApplied != 1 {
		t.Fatalf("corrections applied = %d, want 1", snap.CorrectionsApplied)
	}
	if snap.ByMethod[CorrectionDoubled] != 1 {
		t.Fatalf("doubled count = %d, want 1", snap.ByMethod[CorrectionDoubled])
	}

	stats.Reset()
	if snap := stats.Snapshot(); snap.TotalAnalyzed != 0 || snap.CorrectionsApplied != 0 {
		t.Fatalf("counters survived reset: %+v", snap)
	}
}
