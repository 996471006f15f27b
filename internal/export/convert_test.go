package export

import (
	"math"
	"testing"

	"kitcrate/internal/testsupport"
)

func TestConvertPreservesDuration(t *testing.T) {
	wave := testsupport.Sine(440, 0.5, 44100)

	converted, err := Convert(wave, 48000, 16)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if converted.SampleRate != 48000 {
		t.Fatalf("sample rate = %d, want 48000", converted.SampleRate)
	}
	if math.Abs(converted.Duration()-wave.Duration()) > 0.001 {
		t.Fatalf("duration drifted: %v -> %v", wave.Duration(), converted.Duration())
	}
	if converted.Channels() != wave.Channels() {
		t.Fatalf("channel count changed: %d -> %d", wave.Channels(), converted.Channels())
	}
}

func TestConvertSameRateCopies(t *testing.T) {
	wave := testsupport.Sine(440, 0.25, 48000)

	converted, err := Convert(wave, 48000, 16)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if converted.Frames() != wave.Frames() {
		t.Fatalf("frame count changed: %d -> %d", wave.Frames(), converted.Frames())
	}
	converted.Samples[0][0] = 0.123
	if wave.Samples[0][0] == 0.123 {
		t.Fatal("conversion must not alias the source buffers")
	}
}

func TestConvertEmptyWaveformFails(t *testing.T) {
	if _, err := Convert(nil, 48000, 16); err == nil {
		t.Fatal("expected error for nil waveform")
	}
}

func TestResampleLinearLength(t *testing.T) {
	in := make([]float64, 44100)
	out := resampleLinear(in, 44100, 48000)
	if got, want := len(out), 48000; math.Abs(float64(got-want)) > 1 {
		t.Fatalf("resampled length = %d, want about %d", got, want)
	}
}
