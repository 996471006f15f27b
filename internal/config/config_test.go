package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidatesWithClassifierDisabled(t *testing.T) {
	cfg := Default()
	cfg.Classifier.Enabled = false
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRequiresAPIKeyWhenClassifierEnabled(t *testing.T) {
	cfg := Default()
	cfg.Classifier.Enabled = true
	cfg.Classifier.APIKey = ""
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing api key")
	}
	if !strings.Contains(err.Error(), "classifier.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownOrganization(t *testing.T) {
	cfg := Default()
	cfg.Classifier.Enabled = false
	cfg.Export.Organization = "by-color"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown organization policy")
	}
}

func TestValidateRejectsIdentityMultiplier(t *testing.T) {
	cfg := Default()
	cfg.Classifier.Enabled = false
	cfg.Analysis.CandidateMultipliers = []float64{1.0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for identity multiplier")
	}
}

func TestValidateRejectsZeroWeights(t *testing.T) {
	cfg := Default()
	cfg.Classifier.Enabled = false
	cfg.Recommend.TempoWeight = 0
	cfg.Recommend.CategoryWeight = 0
	cfg.Recommend.ConfidenceWeight = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for all-zero weights")
	}
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[paths]
library_dir = "` + filepath.Join(dir, "kits") + `"
staging_dir = "` + filepath.Join(dir, "staging") + `"
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[classifier]
enabled = false

[export]
organization = "by-tempo"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Export.Organization != "by-tempo" {
		t.Fatalf("organization = %q, want by-tempo", cfg.Export.Organization)
	}
	if cfg.Export.TargetSampleRate != 48000 {
		t.Fatalf("target sample rate default lost: %d", cfg.Export.TargetSampleRate)
	}
	if cfg.Classifier.Enabled {
		t.Fatal("classifier.enabled override lost")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, _, exists, err := Load(missing)
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if cfg.Classifier.Enabled {
		t.Fatal("classifier should default to disabled")
	}
	if cfg.Export.Organization != "flat" {
		t.Fatalf("organization default = %q, want flat", cfg.Export.Organization)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[export]") {
		t.Fatal("sample config missing [export] section")
	}
}
