package waveform

import (
	"fmt"
	"path/filepath"
	"strings"

	"kitcrate/internal/services"
)

// Container identifies the audio file container format.
type Container string

const (
	ContainerWAV  Container = "WAV"
	ContainerAIFF Container = "AIFF"
)

// Waveform holds decoded audio ready for analysis or conversion.
type Waveform struct {
	Path       string
	Container  Container
	SampleRate int
	BitDepth   int
	// Samples is one normalized [-1,1] slice per channel.
	Samples [][]float64
}

// Channels returns the channel count.
func (w *Waveform) Channels() int {
	return len(w.Samples)
}

// Frames returns the per-channel sample count.
func (w *Waveform) Frames() int {
	if len(w.Samples) == 0 {
		return 0
	}
	return len(w.Samples[0])
}

// Duration returns the waveform length in seconds.
func (w *Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(w.Frames()) / float64(w.SampleRate)
}

// Mono returns a single-channel mixdown, averaging across channels.
func (w *Waveform) Mono() []float64 {
	if len(w.Samples) == 0 {
		return nil
	}
	if len(w.Samples) == 1 {
		return w.Samples[0]
	}
	frames := w.Frames()
	mono := make([]float64, frames)
	scale := 1.0 / float64(len(w.Samples))
	for _, channel := range w.Samples {
		for i := 0; i < frames && i < len(channel); i++ {
			mono[i] += channel[i] * scale
		}
	}
	return mono
}

// Source loads decoded waveforms from file references. It is the boundary the
// analysis pipeline uses so tests can substitute synthetic audio.
type Source interface {
	Load(path string) (*Waveform, error)
}

// FileSource decodes waveforms from the local filesystem, dispatching on the
// file extension.
type FileSource struct{}

// Load decodes the file at path.
func (FileSource) Load(path string) (*Waveform, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return DecodeWAVFile(path)
	case ".aif", ".aiff":
		return DecodeAIFFFile(path)
	default:
		return nil, services.Wrap(
			services.ErrExtraction,
			"waveform",
			"load",
			fmt.Sprintf("unsupported container for %q", filepath.Base(path)),
			nil,
		)
	}
}
