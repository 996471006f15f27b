package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"kitcrate/internal/textutil"
	"kitcrate/internal/waveform"
)

// Validator turns candidate sources into export items. Validation rules
// are independent: every violated rule contributes a reason, and the
// reasons are joined with "; " on the item.
type Validator struct {
	policy Policy
}

// NewValidator constructs a validator for the given policy.
func NewValidator(policy Policy) *Validator {
	return &Validator{policy: policy.withDefaults()}
}

// Prepare validates one source against the policy. A nil waveform marks
// the source undecodable. The verdict is rejected when any rule fails,
// ok when the audio already conforms to the target format, corrected
// when conversion is required.
func (v *Validator) Prepare(src Source, w *waveform.Waveform) Item {
	item := Item{
		SourceSampleID:    src.SampleID,
		SourcePath:        src.Path,
		SanitizedFilename: textutil.SanitizeFileName(filepath.Base(src.Path)),
		SampleRateHz:      v.policy.TargetSampleRate,
		BitDepth:          v.policy.TargetBitDepth,
		OrganizationPath:  organizationPath(v.policy, src),
	}

	var reasons []string
	if w == nil {
		reasons = append(reasons, "source is not decodable")
	} else {
		item.TargetFormat = w.Container
		if w.Container != waveform.ContainerWAV && w.Container != waveform.ContainerAIFF {
			reasons = append(reasons, fmt.Sprintf("unsupported container %q", w.Container))
		}
		if duration := w.Duration(); duration < v.policy.MinDuration.Seconds() {
			reasons = append(reasons, fmt.Sprintf(
				"duration %.0fms below minimum %.0fms",
				duration*1000, v.policy.MinDuration.Seconds()*1000,
			))
		}
		if w.SampleRate <= 0 || w.Frames() == 0 {
			reasons = append(reasons, "no audio content to convert")
		}
	}

	if len(reasons) > 0 {
		item.ValidationStatus = ValidationRejected
		item.RejectionReason = strings.Join(reasons, "; ")
		return item
	}

	if w.SampleRate == v.policy.TargetSampleRate && w.BitDepth == v.policy.TargetBitDepth {
		item.ValidationStatus = ValidationOK
	} else {
		item.ValidationStatus = ValidationCorrected
	}
	return item
}
