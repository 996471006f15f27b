package export

import (
	"time"

	"kitcrate/internal/config"
	"kitcrate/internal/waveform"
)

// ValidationStatus is the per-item verdict of the validator.
type ValidationStatus string

const (
	ValidationOK        ValidationStatus = "ok"
	ValidationCorrected ValidationStatus = "corrected"
	ValidationRejected  ValidationStatus = "rejected"
)

// Organization policies for the library directory layout.
const (
	OrganizeFlat    = "flat"
	OrganizeByGenre = "by-genre"
	OrganizeByTempo = "by-tempo"
)

// Source identifies one candidate file together with the analysis facts
// that drive organization.
type Source struct {
	SampleID int64
	Path     string
	Genre    string
	TempoBPM *float64
}

// Item is the ephemeral per-file export plan. Items live only for the
// duration of a batch; the manifest is the record that survives.
type Item struct {
	SourceSampleID    int64              `json:"source_sample_id"`
	SourcePath        string             `json:"source_path"`
	SanitizedFilename string             `json:"sanitized_filename"`
	TargetFormat      waveform.Container `json:"target_format"`
	SampleRateHz      int                `json:"sample_rate_hz"`
	BitDepth          int                `json:"bit_depth"`
	OrganizationPath  string             `json:"organization_path,omitempty"`
	ValidationStatus  ValidationStatus   `json:"validation_status"`
	RejectionReason   string             `json:"rejection_reason,omitempty"`
}

// Policy is the export configuration snapshot a batch runs under.
type Policy struct {
	TargetSampleRate int
	TargetBitDepth   int
	MinDuration      time.Duration
	Organization     string
	TempoBucketWidth int
	Workers          int
	MinFreeSpace     uint64
}

// PolicyFromConfig maps application configuration onto an export policy.
func PolicyFromConfig(cfg config.Export) Policy {
	return Policy{
		TargetSampleRate: cfg.TargetSampleRate,
		TargetBitDepth:   cfg.TargetBitDepth,
		MinDuration:      time.Duration(cfg.MinDurationMs) * time.Millisecond,
		Organization:     cfg.Organization,
		TempoBucketWidth: cfg.TempoBucketWidth,
		Workers:          cfg.Workers,
		MinFreeSpace:     uint64(cfg.MinFreeSpaceMiB) * 1024 * 1024,
	}
}

func (p Policy) withDefaults() Policy {
	if p.TargetSampleRate <= 0 {
		p.TargetSampleRate = 48000
	}
	if p.TargetBitDepth <= 0 {
		p.TargetBitDepth = 16
	}
	if p.MinDuration <= 0 {
		p.MinDuration = 100 * time.Millisecond
	}
	if p.Organization == "" {
		p.Organization = OrganizeFlat
	}
	if p.TempoBucketWidth <= 0 {
		p.TempoBucketWidth = 10
	}
	if p.Workers <= 0 {
		p.Workers = 4
	}
	return p
}
