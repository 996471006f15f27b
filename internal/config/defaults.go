package config

const (
	defaultLibraryDir     = "~/kits"
	defaultStagingDir     = "~/.local/share/kitcrate/staging"
	defaultDataDir        = "~/.local/share/kitcrate"
	defaultLogDir         = "~/.local/share/kitcrate/logs"
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"
	defaultShapeThreshold = 1.0
	defaultLoopTempoMin   = 60
	defaultLoopTempoMax   = 180
	defaultOneShotMin     = 40
	defaultOneShotMax     = 200

	defaultClassifierBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultClassifierModel          = "google/gemini-3-flash-preview"
	defaultClassifierReferer        = "https://github.com/kitcrate/kitcrate"
	defaultClassifierTitle          = "Kitcrate Vibe Classifier"
	defaultClassifierTimeoutSeconds = 60

	defaultTargetSampleRate = 48000
	defaultTargetBitDepth   = 16
	defaultMinDurationMs    = 100
	defaultOrganization     = "flat"
	defaultTempoBucketWidth = 10
	defaultExportWorkers    = 4
	defaultMinFreeSpaceMiB  = 64

	defaultTempoTolerance   = 5.0
	defaultTempoWeight      = 0.45
	defaultCategoryWeight   = 0.35
	defaultConfidenceWeight = 0.20
	defaultMinScore         = 0.25
	defaultTopN             = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			StagingDir: defaultStagingDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
		},
		Analysis: Analysis{
			ShapeThresholdSeconds: defaultShapeThreshold,
			LoopTempoMin:          defaultLoopTempoMin,
			LoopTempoMax:          defaultLoopTempoMax,
			OneShotTempoMin:       defaultOneShotMin,
			OneShotTempoMax:       defaultOneShotMax,
			CandidateMultipliers:  []float64{0.5, 2.0},
		},
		Classifier: Classifier{
			Enabled:        false,
			BaseURL:        defaultClassifierBaseURL,
			Model:          defaultClassifierModel,
			Referer:        defaultClassifierReferer,
			Title:          defaultClassifierTitle,
			TimeoutSeconds: defaultClassifierTimeoutSeconds,
		},
		Export: Export{
			TargetSampleRate: defaultTargetSampleRate,
			TargetBitDepth:   defaultTargetBitDepth,
			MinDurationMs:    defaultMinDurationMs,
			Organization:     defaultOrganization,
			TempoBucketWidth: defaultTempoBucketWidth,
			Workers:          defaultExportWorkers,
			MinFreeSpaceMiB:  defaultMinFreeSpaceMiB,
		},
		Recommend: Recommend{
			TempoToleranceBPM: defaultTempoTolerance,
			TempoWeight:       defaultTempoWeight,
			CategoryWeight:    defaultCategoryWeight,
			ConfidenceWeight:  defaultConfidenceWeight,
			MinScore:          defaultMinScore,
			TopN:              defaultTopN,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
