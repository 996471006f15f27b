package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	inner := fmt.Errorf("read header: unexpected EOF")
	err := Wrap(ErrExtraction, "analysis", "decode", "Unreadable waveform", inner)
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction marker in %v", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("expected wrapped inner error in %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "export", "copy", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient fallback, got %v", err)
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "extraction", err: Wrap(ErrExtraction, "analysis", "decode", "", nil), want: true},
		{name: "classifier", err: Wrap(ErrClassifierUnavailable, "vibe", "classify", "", nil), want: false},
		{name: "conversion", err: Wrap(ErrConversion, "export", "resample", "", nil), want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTerminal(tc.err); got != tc.want {
				t.Fatalf("IsTerminal(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
