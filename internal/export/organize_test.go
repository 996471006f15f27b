package export

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestOrganizationPath(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		src    Source
		want   string
	}{
		{
			name:   "flat",
			policy: Policy{Organization: OrganizeFlat},
			src:    Source{Genre: "techno", TempoBPM: floatPtr(128)},
			want:   "",
		},
		{
			name:   "by genre",
			policy: Policy{Organization: OrganizeByGenre},
			src:    Source{Genre: "drum-and-bass"},
			want:   "drum-and-bass",
		},
		{
			name:   "by genre missing genre",
			policy: Policy{Organization: OrganizeByGenre},
			src:    Source{},
			want:   "unknown",
		},
		{
			name:   "by tempo",
			policy: Policy{Organization: OrganizeByTempo, TempoBucketWidth: 10},
			src:    Source{TempoBPM: floatPtr(84)},
			want:   "080-089bpm",
		},
		{
			name:   "by tempo bucket edge",
			policy: Policy{Organization: OrganizeByTempo, TempoBucketWidth: 10},
			src:    Source{TempoBPM: floatPtr(120)},
			want:   "120-129bpm",
		},
		{
			name:   "by tempo missing tempo",
			policy: Policy{Organization: OrganizeByTempo, TempoBucketWidth: 10},
			src:    Source{},
			want:   "unknown",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := organizationPath(tc.policy.withDefaults(), tc.src); got != tc.want {
				t.Fatalf("organizationPath = %q, want %q", got, tc.want)
			}
		})
	}
}
