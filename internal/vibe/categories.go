package vibe

import (
	"strings"

	"kitcrate/internal/textutil"
)

// Target-device categories: the fixed genre vocabulary recognized by the
// export and recommendation layers. AI labels outside this set keep their
// raw label with no category.
const (
	CategoryHouse        = "house"
	CategoryTechno       = "techno"
	CategoryHipHop       = "hip-hop"
	CategoryDrumAndBass  = "drum-and-bass"
	CategoryBreaks       = "breaks"
	CategoryAmbient      = "ambient"
	CategoryExperimental = "experimental"
)

// Categories lists the target-device categories in display order.
func Categories() []string {
	return []string{
		CategoryHouse,
		CategoryTechno,
		CategoryHipHop,
		CategoryDrumAndBass,
		CategoryBreaks,
		CategoryAmbient,
		CategoryExperimental,
	}
}

// categoryAliases maps normalized free-form labels onto categories. Keys
// are sanitized tokens (lowercase, dash-separated).
var categoryAliases = map[string]string{
	"house":           CategoryHouse,
	"deep-house":      CategoryHouse,
	"tech-house":      CategoryHouse,
	"disco":           CategoryHouse,
	"garage":          CategoryHouse,
	"techno":          CategoryTechno,
	"acid":            CategoryTechno,
	"electro":         CategoryTechno,
	"minimal":         CategoryTechno,
	"hip-hop":         CategoryHipHop,
	"trap":            CategoryHipHop,
	"lo-fi":           CategoryHipHop,
	"boom-bap":        CategoryHipHop,
	"drum-and-bass":   CategoryDrumAndBass,
	"dnb":             CategoryDrumAndBass,
	"jungle":          CategoryDrumAndBass,
	"breakbeat":       CategoryBreaks,
	"breaks":          CategoryBreaks,
	"big-beat":        CategoryBreaks,
	"ambient":         CategoryAmbient,
	"downtempo":       CategoryAmbient,
	"drone":           CategoryAmbient,
	"chillout":        CategoryAmbient,
	"idm":             CategoryExperimental,
	"glitch":          CategoryExperimental,
	"experimental":    CategoryExperimental,
	"noise":           CategoryExperimental,
	"sound-design":    CategoryExperimental,
	"field-recording": CategoryExperimental,
}

// adjacency declares which categories count as related for partial-credit
// scoring. The relation is symmetric; only one direction is listed here.
var adjacency = map[string][]string{
	CategoryHouse:       {CategoryTechno, CategoryBreaks},
	CategoryTechno:      {CategoryExperimental},
	CategoryHipHop:      {CategoryBreaks},
	CategoryDrumAndBass: {CategoryBreaks},
	CategoryAmbient:     {CategoryExperimental},
}

// minFuzzyOverlap is the token-overlap floor for fuzzy alias matching.
const minFuzzyOverlap = 0.5

// MapCategory resolves a free-form label to a target-device category.
// Exact alias lookup first, then best token-overlap match. Returns false
// when no alias comes close enough.
func MapCategory(label string) (string, bool) {
	token := strings.ReplaceAll(textutil.SanitizeToken(label), "_", "-")
	if token == "unknown" {
		return "", false
	}
	if category, ok := categoryAliases[token]; ok {
		return category, true
	}

	bestScore := 0.0
	bestCategory := ""
	for alias, category := range categoryAliases {
		score := textutil.TokenOverlap(label, alias)
		if score > bestScore {
			bestScore = score
			bestCategory = category
		}
	}
	if bestScore >= minFuzzyOverlap {
		return bestCategory, true
	}
	return "", false
}

// CategoriesAdjacent reports whether two distinct categories are related
// closely enough to earn partial credit in recommendation scoring.
func CategoriesAdjacent(a, b string) bool {
	if a == "" || b == "" || a == b {
		return false
	}
	for _, neighbor := range adjacency[a] {
		if neighbor == b {
			return true
		}
	}
	for _, neighbor := range adjacency[b] {
		if neighbor == a {
			return true
		}
	}
	return false
}
