package textutil

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean name unchanged", input: "kick 01.wav", want: "kick 01.wav"},
		{name: "diacritics folded", input: "café groove.wav", want: "cafe groove.wav"},
		{name: "non-ascii dropped", input: "ドラム kick.wav", want: "kick.wav"},
		{name: "slashes become dashes", input: "bass/sub:01.wav", want: "bass-sub-01.wav"},
		{name: "forbidden removed", input: "snare?<>|\".wav", want: "snare.wav"},
		{name: "whitespace collapsed", input: "  hat   closed \t 2.wav ", want: "hat closed 2.wav"},
		{name: "empty", input: "   ", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFileName(tc.input); got != tc.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeFileNameTruncatesKeepingExtension(t *testing.T) {
	long := strings.Repeat("x", 100) + ".wav"
	got := SanitizeFileName(long)
	if len(got) > MaxFileNameLength {
		t.Fatalf("sanitized length %d exceeds max %d", len(got), MaxFileNameLength)
	}
	if !strings.HasSuffix(got, ".wav") {
		t.Fatalf("extension lost: %q", got)
	}
}

func TestSanitizeFileNameIdempotent(t *testing.T) {
	inputs := []string{
		"café groove.wav",
		"bass/sub:01.wav",
		strings.Repeat("long name ", 20) + ".aif",
		"already clean.wav",
	}
	for _, input := range inputs {
		once := SanitizeFileName(input)
		twice := SanitizeFileName(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Hip Hop", want: "hip_hop"},
		{input: "", want: "unknown"},
		{input: "___", want: "unknown"},
		{input: "drum-n-bass", want: "drum-n-bass"},
		{input: "Techno!", want: "techno"},
	}
	for _, tc := range tests {
		if got := SanitizeToken(tc.input); got != tc.want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
