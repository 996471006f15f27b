// Package testsupport provides shared fixtures: synthetic waveforms with
// known musical properties and temporary configuration.
package testsupport

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"kitcrate/internal/waveform"
)

// Sine returns a mono sine waveform at the given frequency.
func Sine(freq float64, seconds float64, sampleRate int) *waveform.Waveform {
	frames := int(seconds * float64(sampleRate))
	samples := make([]float64, frames)
	for i := range samples {
		samples[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return &waveform.Waveform{
		Container:  waveform.ContainerWAV,
		SampleRate: sampleRate,
		BitDepth:   16,
		Samples:    [][]float64{samples},
	}
}

// Chord returns a mono waveform mixing the given frequencies at equal level.
func Chord(freqs []float64, seconds float64, sampleRate int) *waveform.Waveform {
	frames := int(seconds * float64(sampleRate))
	samples := make([]float64, frames)
	scale := 0.8 / float64(len(freqs))
	for _, freq := range freqs {
		for i := range samples {
			samples[i] += scale * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		}
	}
	return &waveform.Waveform{
		Container:  waveform.ContainerWAV,
		SampleRate: sampleRate,
		BitDepth:   16,
		Samples:    [][]float64{samples},
	}
}

// ClickTrack returns a mono waveform with short decaying tone bursts at the
// given tempo, yielding a strong periodic onset envelope.
func ClickTrack(bpm float64, seconds float64, sampleRate int) *waveform.Waveform {
	frames := int(seconds * float64(sampleRate))
	samples := make([]float64, frames)
	beatPeriod := 60.0 / bpm
	burstLen := int(0.02 * float64(sampleRate))

	for beat := 0; ; beat++ {
		start := int(float64(beat) * beatPeriod * float64(sampleRate))
		if start >= frames {
			break
		}
		for i := 0; i < burstLen && start+i < frames; i++ {
			decay := math.Exp(-8 * float64(i) / float64(burstLen))
			samples[start+i] += 0.9 * decay * math.Sin(2*math.Pi*1000*float64(i)/float64(sampleRate))
		}
	}
	return &waveform.Waveform{
		Container:  waveform.ContainerWAV,
		SampleRate: sampleRate,
		BitDepth:   16,
		Samples:    [][]float64{samples},
	}
}

// Silence returns a mono all-zero waveform.
func Silence(seconds float64, sampleRate int) *waveform.Waveform {
	frames := int(seconds * float64(sampleRate))
	return &waveform.Waveform{
		Container:  waveform.ContainerWAV,
		SampleRate: sampleRate,
		BitDepth:   16,
		Samples:    [][]float64{make([]float64, frames)},
	}
}

// WriteWAV encodes w as a PCM WAV file at path.
func WriteWAV(t testing.TB, path string, w *waveform.Waveform, bitDepth int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := waveform.EncodeWAV(f, w, bitDepth); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
