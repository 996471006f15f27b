package export

import (
	"fmt"

	"kitcrate/internal/textutil"
)

// organizationPath derives the library subdirectory for a source under
// the policy's organization scheme. Empty means the library root.
func organizationPath(policy Policy, src Source) string {
	switch policy.Organization {
	case OrganizeByGenre:
		return textutil.SanitizeToken(src.Genre)
	case OrganizeByTempo:
		return tempoBucket(src.TempoBPM, policy.TempoBucketWidth)
	default:
		return ""
	}
}

// tempoBucket formats fixed-width BPM bands, e.g. 84 BPM with width 10
// becomes "080-089bpm". Missing tempo lands in "unknown".
func tempoBucket(bpm *float64, width int) string {
	if bpm == nil || *bpm <= 0 {
		return "unknown"
	}
	if width <= 0 {
		width = 10
	}
	lower := int(*bpm) / width * width
	return fmt.Sprintf("%03d-%03dbpm", lower, lower+width-1)
}
