package export

import (
	"os"
	"path/filepath"

	"kitcrate/internal/services"
	"kitcrate/internal/waveform"
)

// Convert returns a copy of w resampled to targetRate. Bit depth is
// applied at encode time; the returned waveform records the target so
// encoders pick it up.
func Convert(w *waveform.Waveform, targetRate, targetDepth int) (*waveform.Waveform, error) {
	if w == nil || w.Frames() == 0 || w.SampleRate <= 0 {
		return nil, services.Wrap(
			services.ErrConversion, "export", "convert",
			"no audio content to convert", nil,
		)
	}
	out := &waveform.Waveform{
		Path:       w.Path,
		Container:  w.Container,
		SampleRate: targetRate,
		BitDepth:   targetDepth,
		Samples:    make([][]float64, len(w.Samples)),
	}
	for i, channel := range w.Samples {
		out.Samples[i] = resampleLinear(channel, w.SampleRate, targetRate)
	}
	return out, nil
}

// resampleLinear converts the sample rate with linear interpolation.
// Good enough for one-shot drum material; a windowed-sinc pass is
// overkill for the sampler's own playback engine.
func resampleLinear(samples []float64, fromRate, toRate int) []float64 {
	if fromRate == toRate || len(samples) == 0 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}
	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(samples)) / ratio)
	if outLen < 1 {
		outLen = 1
	}
	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}

// writeWaveform encodes w to path in its container format at the given
// bit depth and reports the bytes written.
func writeWaveform(path string, w *waveform.Waveform, bitDepth int) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	switch w.Container {
	case waveform.ContainerAIFF:
		err = waveform.EncodeAIFF(f, w, bitDepth)
	default:
		err = waveform.EncodeWAV(f, w, bitDepth)
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
