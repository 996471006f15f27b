package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

const (
	onsetFrameSize = 1024
	onsetHopSize   = 256

	// Periodicity search limits in BPM. Anything outside is treated as
	// noise rather than rhythm.
	tempoSearchMin = 30.0
	tempoSearchMax = 300.0
)

// tempoEstimate is the raw periodicity-detection output before correction.
type tempoEstimate struct {
	bpm       float64
	sharpness float64 // autocorrelation peak strength in [0,1]
}

// estimateTempo detects the dominant periodicity of a mono signal via a
// spectral-flux onset envelope and autocorrelation. Returns ok=false when the
// signal carries no usable periodicity (too short, silent, or aperiodic).
func estimateTempo(signal []float64, sampleRate int) (tempoEstimate, bool) {
	envelope := onsetEnvelope(signal)
	if len(envelope) < 8 {
		return tempoEstimate{}, false
	}

	hopSeconds := float64(onsetHopSize) / float64(sampleRate)
	minLag := int(60.0 / tempoSearchMax / hopSeconds)
	maxLag := int(60.0 / tempoSearchMin / hopSeconds)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(envelope) {
		maxLag = len(envelope) - 1
	}
	if maxLag <= minLag {
		return tempoEstimate{}, false
	}

	autocorr := autocorrelate(envelope, maxLag+1)

	bestLag, bestValue := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		if lag == 0 || lag >= len(autocorr)-1 {
			continue
		}
		if autocorr[lag] > autocorr[lag-1] && autocorr[lag] >= autocorr[lag+1] && autocorr[lag] > bestValue {
			bestValue = autocorr[lag]
			bestLag = lag
		}
	}
	if bestLag == 0 || bestValue <= 0 {
		return tempoEstimate{}, false
	}

	// Refine the peak with parabolic interpolation between neighbors.
	refined := float64(bestLag)
	prev, next := autocorr[bestLag-1], autocorr[bestLag+1]
	denom := prev - 2*autocorr[bestLag] + next
	if denom != 0 {
		refined += 0.5 * (prev - next) / denom
	}

	period := refined * hopSeconds
	if period <= 0 {
		return tempoEstimate{}, false
	}
	return tempoEstimate{bpm: 60.0 / period, sharpness: bestValue}, true
}

// onsetEnvelope computes a spectral-flux onset strength curve: per frame, the
// sum of positive magnitude increases across FFT bins.
func onsetEnvelope(signal []float64) []float64 {
	if len(signal) < onsetFrameSize {
		return nil
	}
	frames := 1 + (len(signal)-onsetFrameSize)/onsetHopSize
	envelope := make([]float64, 0, frames)

	window := hannWindow(onsetFrameSize)
	var prevMagnitudes []float64
	frame := make([]float64, onsetFrameSize)

	for i := 0; i+onsetFrameSize <= len(signal); i += onsetHopSize {
		for j := 0; j < onsetFrameSize; j++ {
			frame[j] = signal[i+j] * window[j]
		}
		spectrum := fft.FFTReal(frame)
		magnitudes := make([]float64, onsetFrameSize/2)
		for k := range magnitudes {
			magnitudes[k] = cmplx.Abs(spectrum[k])
		}

		var flux float64
		if prevMagnitudes != nil {
			for k := range magnitudes {
				if diff := magnitudes[k] - prevMagnitudes[k]; diff > 0 {
					flux += diff
				}
			}
		}
		envelope = append(envelope, flux)
		prevMagnitudes = magnitudes
	}

	// Remove the DC trend so autocorrelation tracks rhythm, not level.
	if len(envelope) > 0 {
		mean := floats.Sum(envelope) / float64(len(envelope))
		for i := range envelope {
			envelope[i] -= mean
		}
	}
	return envelope
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// autocorrelate computes the normalized autocorrelation up to maxLag.
func autocorrelate(signal []float64, maxLag int) []float64 {
	if maxLag > len(signal) {
		maxLag = len(signal)
	}
	autocorr := make([]float64, maxLag)
	for lag := 0; lag < maxLag; lag++ {
		var sum float64
		for i := 0; i < len(signal)-lag; i++ {
			sum += signal[i] * signal[i+lag]
		}
		if count := len(signal) - lag; count > 0 {
			autocorr[lag] = sum / float64(count)
		}
	}
	if len(autocorr) > 0 && autocorr[0] > 0 {
		scale := 1 / autocorr[0]
		for i := range autocorr {
			autocorr[i] *= scale
		}
	}
	return autocorr
}

// tempoConfidence scales autocorrelation sharpness to the 0-100 confidence
// range, discounting corrected estimates since correction indicates octave
// ambiguity in the periodicity signal.
func tempoConfidence(sharpness float64, corrected bool) int {
	confidence := int(math.Round(sharpness * 100))
	if corrected {
		confidence = int(math.Round(float64(confidence) * 0.75))
	}
	return clampConfidence(confidence)
}
