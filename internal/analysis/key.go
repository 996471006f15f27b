package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Krumhansl-Schmuckler key profiles: perceived pitch-class stability within
// a major and minor key, indexed from the tonic.
var (
	krumhanslMajor = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	krumhanslMinor = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

var pitchClassNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

const (
	keyFrameSize = 4096
	keyHopSize   = 2048

	// Chroma below this total energy is treated as atonal (percussive or
	// silent material) and produces no key estimate.
	minChromaEnergy = 1e-6
)

// keyEstimate is the tonal-profile matching output.
type keyEstimate struct {
	name       string
	confidence int
}

// estimateKey matches the signal's averaged chroma profile against rotated
// Krumhansl profiles for all 24 keys. Confidence derives from the margin
// between the best and runner-up correlation: a clear tonal center scores
// high, ambiguous profiles score low.
func estimateKey(signal []float64, sampleRate int) (keyEstimate, bool) {
	chroma := chromaProfile(signal, sampleRate)
	if chroma == nil || floats.Sum(chroma) < minChromaEnergy {
		return keyEstimate{}, false
	}

	type candidate struct {
		name        string
		correlation float64
	}
	candidates := make([]candidate, 0, 24)
	for tonic := 0; tonic < 12; tonic++ {
		rotated := rotateChroma(chroma, tonic)
		candidates = append(candidates,
			candidate{
				name:        fmt.Sprintf("%s major", pitchClassNames[tonic]),
				correlation: stat.Correlation(rotated, krumhanslMajor, nil),
			},
			candidate{
				name:        fmt.Sprintf("%s minor", pitchClassNames[tonic]),
				correlation: stat.Correlation(rotated, krumhanslMinor, nil),
			},
		)
	}

	best, runnerUp := candidate{correlation: math.Inf(-1)}, candidate{correlation: math.Inf(-1)}
	for _, c := range candidates {
		if math.IsNaN(c.correlation) {
			continue
		}
		switch {
		case c.correlation > best.correlation:
			runnerUp = best
			best = c
		case c.correlation > runnerUp.correlation:
			runnerUp = c
		}
	}
	if math.IsInf(best.correlation, -1) || best.correlation <= 0 {
		return keyEstimate{}, false
	}

	margin := best.correlation - runnerUp.correlation
	confidence := clampConfidence(int(math.Round((best.correlation*0.6 + margin*2.0) * 100)))
	return keyEstimate{name: best.name, confidence: confidence}, true
}

// chromaProfile folds the averaged magnitude spectrum into the 12 pitch
// classes. Returns nil when the signal is too short for a single frame.
func chromaProfile(signal []float64, sampleRate int) []float64 {
	if len(signal) < keyFrameSize || sampleRate <= 0 {
		return nil
	}
	window := hannWindow(keyFrameSize)
	chroma := make([]float64, 12)
	frame := make([]float64, keyFrameSize)
	binWidth := float64(sampleRate) / float64(keyFrameSize)

	for i := 0; i+keyFrameSize <= len(signal); i += keyHopSize {
		for j := 0; j < keyFrameSize; j++ {
			frame[j] = signal[i+j] * window[j]
		}
		spectrum := fft.FFTReal(frame)
		for k := 1; k < keyFrameSize/2; k++ {
			freq := float64(k) * binWidth
			// Restrict to the melodic range; rumble and air add noise.
			if freq < 55 || freq > 4000 {
				continue
			}
			chroma[pitchClass(freq)] += cmplx.Abs(spectrum[k])
		}
	}

	if total := floats.Sum(chroma); total > 0 {
		for i := range chroma {
			chroma[i] /= total
		}
	}
	return chroma
}

// pitchClass maps a frequency to its chromatic pitch class (0 = C).
func pitchClass(freq float64) int {
	// MIDI note number relative to A4 = 440 Hz (note 69, pitch class 9).
	note := 69 + 12*math.Log2(freq/440)
	class := int(math.Round(note)) % 12
	if class < 0 {
		class += 12
	}
	return class
}

// rotateChroma re-indexes the chroma vector so the given tonic sits at
// position zero.
func rotateChroma(chroma []float64, tonic int) []float64 {
	rotated := make([]float64, 12)
	for i := 0; i < 12; i++ {
		rotated[i] = chroma[(i+tonic)%12]
	}
	return rotated
}
