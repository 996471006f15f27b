// Package waveform decodes and encodes the audio containers the sampler
// ecosystem uses: RIFF/WAVE and AIFF.
//
// Decoded audio is normalized to float64 samples in [-1, 1], one slice per
// channel. Analysis consumes a mono mixdown; export re-encodes at the
// hardware target rate and depth. Decode failures are reported with the
// extraction error marker because an unreadable waveform is terminal for
// analysis.
package waveform
