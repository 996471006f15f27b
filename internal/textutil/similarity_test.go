package textutil

import "testing"

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "hip hop", b: "hip hop", want: 1},
		{name: "disjoint", a: "techno", b: "ambient", want: 0},
		{name: "partial", a: "lo-fi hip hop", b: "hip hop", want: 2.0 / 3.0},
		{name: "empty", a: "", b: "techno", want: 0},
		{name: "punctuation only", a: "!!!", b: "techno", want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TokenOverlap(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("TokenOverlap(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestTokenizeKeepsShortGenreTokens(t *testing.T) {
	got := Tokenize("Lo-Fi")
	if len(got) != 2 || got[0] != "lo" || got[1] != "fi" {
		t.Fatalf("Tokenize(Lo-Fi) = %v, want [lo fi]", got)
	}
}
