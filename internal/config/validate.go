package config

import (
	"errors"
	"fmt"
)

var validOrganizations = map[string]struct{}{
	"flat":     {},
	"by-genre": {},
	"by-tempo": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.ShapeThresholdSeconds <= 0 {
		return errors.New("analysis.shape_threshold_seconds must be positive")
	}
	if c.Analysis.LoopTempoMin <= 0 || c.Analysis.LoopTempoMax <= c.Analysis.LoopTempoMin {
		return errors.New("analysis.loop_tempo_min/max must describe a positive band")
	}
	if c.Analysis.OneShotTempoMin <= 0 || c.Analysis.OneShotTempoMax <= c.Analysis.OneShotTempoMin {
		return errors.New("analysis.one_shot_tempo_min/max must describe a positive band")
	}
	for _, m := range c.Analysis.CandidateMultipliers {
		if m <= 0 {
			return fmt.Errorf("analysis.candidate_multipliers: multiplier %v must be positive", m)
		}
		if m == 1 {
			return errors.New("analysis.candidate_multipliers: 1.0 is the identity and must not be listed")
		}
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if !c.Classifier.Enabled {
		return nil
	}
	if c.Classifier.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/kitcrate/config.toml"
		}
		return fmt.Errorf("classifier.api_key is required when classifier.enabled is true; edit %s (create with 'kitcrate config init') or disable the classifier", defaultPath)
	}
	if c.Classifier.ConfidenceFloor < 0 || c.Classifier.ConfidenceFloor > 100 {
		return errors.New("classifier.confidence_floor must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.TargetSampleRate {
	case 44100, 48000:
	default:
		return fmt.Errorf("export.target_sample_rate: unsupported rate %d (expected 44100 or 48000)", c.Export.TargetSampleRate)
	}
	switch c.Export.TargetBitDepth {
	case 16, 24:
	default:
		return fmt.Errorf("export.target_bit_depth: unsupported depth %d (expected 16 or 24)", c.Export.TargetBitDepth)
	}
	if c.Export.MinDurationMs <= 0 {
		return errors.New("export.min_duration_ms must be positive")
	}
	if _, ok := validOrganizations[c.Export.Organization]; !ok {
		return fmt.Errorf("export.organization: unknown policy %q (expected flat, by-genre, or by-tempo)", c.Export.Organization)
	}
	if c.Export.MinFreeSpaceMiB < 0 {
		return errors.New("export.min_free_space_mib must not be negative")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.TempoToleranceBPM <= 0 {
		return errors.New("recommend.tempo_tolerance_bpm must be positive")
	}
	weights := []struct {
		name  string
		value float64
	}{
		{"recommend.tempo_weight", c.Recommend.TempoWeight},
		{"recommend.category_weight", c.Recommend.CategoryWeight},
		{"recommend.confidence_weight", c.Recommend.ConfidenceWeight},
	}
	var sum float64
	for _, w := range weights {
		if w.value < 0 {
			return fmt.Errorf("%s must not be negative", w.name)
		}
		sum += w.value
	}
	if sum <= 0 {
		return errors.New("recommend weights must not all be zero")
	}
	if c.Recommend.MinScore < 0 || c.Recommend.MinScore > 1 {
		return errors.New("recommend.min_score must be between 0 and 1")
	}
	if c.Recommend.TopN <= 0 {
		return errors.New("recommend.top_n must be positive")
	}
	return nil
}
