package kit

import (
	"time"

	"github.com/google/uuid"
)

// Sampler layout constants.
const (
	NumBanks    = 4
	PadsPerBank = 16
)

// Banks lists the bank identifiers in device order.
func Banks() []string {
	return []string{"a", "b", "c", "d"}
}

// PadSpec declares the purpose of one pad in a kit layout.
type PadSpec struct {
	Bank    string
	Pad     int
	Purpose Purpose
}

// PadAssignment is the outcome for one pad. Recommendation is nil and
// Unassigned true when no candidate scored at or above the floor, or
// when the layout declared no purpose for the pad.
type PadAssignment struct {
	Bank           string          `json:"bank"`
	Pad            int             `json:"pad"`
	Purpose        *Purpose        `json:"purpose,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	Unassigned     bool            `json:"unassigned"`
	Reason         string          `json:"reason,omitempty"`
}

// KitManifest maps every pad of every bank to an assignment.
type KitManifest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"created_at"`
	MinScore  float64         `json:"min_score"`
	Pads      []PadAssignment `json:"pads"`
}

// Assigned returns only the pads that received a sample.
func (m KitManifest) Assigned() []PadAssignment {
	out := make([]PadAssignment, 0, len(m.Pads))
	for _, pad := range m.Pads {
		if !pad.Unassigned {
			out = append(out, pad)
		}
	}
	return out
}

// BuildKitManifest assigns the best-scoring candidate to each declared
// pad, walking banks and pads in device order. A sample is used at most
// once per kit; pads whose best remaining candidate scores below the
// configured floor stay explicitly unassigned.
func (r *Recommender) BuildKitManifest(name string, layout []PadSpec, pool []Candidate) KitManifest {
	manifest := KitManifest{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		MinScore:  r.cfg.MinScore,
	}

	type padKey struct {
		bank string
		pad  int
	}
	specs := make(map[padKey]PadSpec, len(layout))
	for _, spec := range layout {
		specs[padKey{spec.Bank, spec.Pad}] = spec
	}

	used := make(map[int64]bool)
	for _, bank := range Banks() {
		for pad := 1; pad <= PadsPerBank; pad++ {
			assignment := PadAssignment{Bank: bank, Pad: pad}
			spec, declared := specs[padKey{bank, pad}]
			if !declared {
				assignment.Unassigned = true
				assignment.Reason = "no purpose declared"
				manifest.Pads = append(manifest.Pads, assignment)
				continue
			}

			purpose := spec.Purpose
			assignment.Purpose = &purpose

			recommendation := r.bestUnused(purpose, pool, used)
			if recommendation == nil {
				assignment.Unassigned = true
				assignment.Reason = "no candidate above minimum score"
				manifest.Pads = append(manifest.Pads, assignment)
				continue
			}
			used[recommendation.Candidate.SampleID] = true
			assignment.Recommendation = recommendation
			manifest.Pads = append(manifest.Pads, assignment)
		}
	}
	return manifest
}

func (r *Recommender) bestUnused(purpose Purpose, pool []Candidate, used map[int64]bool) *Recommendation {
	for _, rec := range r.Recommend(purpose, pool, len(pool)) {
		if used[rec.Candidate.SampleID] {
			continue
		}
		if rec.Score < r.cfg.MinScore {
			return nil
		}
		rec := rec
		return &rec
	}
	return nil
}
