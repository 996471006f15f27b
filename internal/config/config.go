package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// LibraryDir is the root directory exported kits and samples land in.
	LibraryDir string `toml:"library_dir"`
	// StagingDir holds intermediate conversion output before verified copy.
	StagingDir string `toml:"staging_dir"`
	// DataDir holds the sample catalog database.
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Analysis contains feature-extraction tuning.
type Analysis struct {
	// ShapeThresholdSeconds splits one-shots from loops. Durations strictly
	// below the threshold classify as one-shot.
	ShapeThresholdSeconds float64 `toml:"shape_threshold_seconds"`
	// Plausible tempo band for loops.
	LoopTempoMin float64 `toml:"loop_tempo_min"`
	LoopTempoMax float64 `toml:"loop_tempo_max"`
	// Soft tempo band for one-shots, which often lack clear periodicity.
	OneShotTempoMin float64 `toml:"one_shot_tempo_min"`
	OneShotTempoMax float64 `toml:"one_shot_tempo_max"`
	// CandidateMultipliers are the tempo multiples tried during octave
	// correction, in preference order.
	CandidateMultipliers []float64 `toml:"candidate_multipliers"`
}

// Classifier contains settings for the remote vibe classification service.
type Classifier struct {
	// Enabled gates the classification step entirely (cost/latency policy).
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// ConfidenceFloor drops vibe labels below this confidence (0-100).
	// Zero keeps everything.
	ConfidenceFloor int `toml:"confidence_floor"`
}

// Export contains hardware target constraints and batch settings.
type Export struct {
	TargetSampleRate int `toml:"target_sample_rate"`
	TargetBitDepth   int `toml:"target_bit_depth"`
	// MinDurationMs rejects samples the hardware cannot trigger reliably.
	MinDurationMs int `toml:"min_duration_ms"`
	// Organization is one of "flat", "by-genre", "by-tempo".
	Organization string `toml:"organization"`
	// TempoBucketWidth is the BPM band width for by-tempo organization.
	TempoBucketWidth int `toml:"tempo_bucket_width"`
	// Workers bounds batch export parallelism.
	Workers int `toml:"workers"`
	// MinFreeSpaceMiB aborts a batch before writing when the library
	// filesystem has less than this available.
	MinFreeSpaceMiB int `toml:"min_free_space_mib"`
}

// Recommend contains pad recommendation scoring coefficients.
type Recommend struct {
	TempoToleranceBPM float64 `toml:"tempo_tolerance_bpm"`
	TempoWeight       float64 `toml:"tempo_weight"`
	CategoryWeight    float64 `toml:"category_weight"`
	ConfidenceWeight  float64 `toml:"confidence_weight"`
	// MinScore is the floor below which a pad stays unassigned.
	MinScore float64 `toml:"min_score"`
	TopN     int     `toml:"top_n"`
}

// Logging contains log output configuration.
type Logging struct {
	// Format is "console", "json", or "auto" (console on a TTY).
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for kitcrate.
//
// Configuration sections by subsystem:
//   - Paths: library, staging, data, and log directories
//   - Analysis: tempo bands, shape threshold, correction candidates
//   - Classifier: remote vibe classification connection and policy
//   - Export: hardware targets, organization policy, batch parallelism
//   - Recommend: pad scoring weights and tolerances
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Analysis   Analysis   `toml:"analysis"`
	Classifier Classifier `toml:"classifier"`
	Export     Export     `toml:"export"`
	Recommend  Recommend  `toml:"recommend"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/kitcrate/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("kitcrate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories. LibraryDir is created on a
// best-effort basis so analysis can run while export storage is unplugged.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// CatalogPath returns the location of the sample catalog database.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Paths.DataDir, "catalog.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
