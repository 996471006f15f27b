// Package analysis derives musical features directly from audio signal:
// tempo with octave-correction heuristics, musical key, and one-shot/loop
// shape classification.
//
// Extraction is deterministic for a given waveform and configuration and
// safe to run concurrently; the only shared state is the injected Stats
// counter set, which callers own and reset explicitly.
package analysis
