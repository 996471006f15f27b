package analysis

import "fmt"

// Band is an inclusive tempo range in BPM.
type Band struct {
	Min float64
	Max float64
}

// Contains reports whether bpm falls inside the band.
func (b Band) Contains(bpm float64) bool {
	return bpm >= b.Min && bpm <= b.Max
}

// correctionResult describes the outcome of the tempo-correction pass.
type correctionResult struct {
	bpm    float64
	method string // empty when no correction was applied
}

// correctTempo resolves half/double octave ambiguity: a raw estimate outside
// the shape's plausible band is replaced by the first configured multiple
// that lands inside it. For loops, a remaining out-of-band estimate is
// octave-snapped (repeated halving/doubling) into the band; one-shot bands
// are soft targets, so one-shots keep the raw value when no multiple fits.
func correctTempo(raw float64, shape Shape, band Band, multipliers []float64) correctionResult {
	if raw <= 0 || band.Contains(raw) {
		return correctionResult{bpm: raw}
	}

	for _, multiplier := range multipliers {
		candidate := raw * multiplier
		if band.Contains(candidate) {
			return correctionResult{bpm: candidate, method: multiplierMethod(multiplier)}
		}
	}

	if shape == ShapeLoop {
		if snapped, ok := octaveSnap(raw, band); ok {
			return correctionResult{bpm: snapped, method: CorrectionOctaveSnap}
		}
	}

	return correctionResult{bpm: raw}
}

func multiplierMethod(multiplier float64) string {
	switch multiplier {
	case 0.5:
		return CorrectionHalved
	case 2.0:
		return CorrectionDoubled
	default:
		return fmt.Sprintf("scaled-x%g", multiplier)
	}
}

// octaveSnap shifts bpm by whole octaves until it lands inside the band.
// Fails when the band is narrower than one octave leaves room for.
func octaveSnap(bpm float64, band Band) (float64, bool) {
	const maxSteps = 8
	value := bpm
	for i := 0; i < maxSteps && value > band.Max; i++ {
		value /= 2
	}
	for i := 0; i < maxSteps && value < band.Min; i++ {
		value *= 2
	}
	if band.Contains(value) {
		return value, true
	}
	return 0, false
}
