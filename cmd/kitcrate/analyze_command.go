package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kitcrate/internal/analysis"
	"kitcrate/internal/config"
	"kitcrate/internal/orchestrator"
	"kitcrate/internal/services/inference"
	"kitcrate/internal/vibe"
	"kitcrate/internal/waveform"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var noVibe bool

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Analyze audio files and store the results in the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			stats := analysis.NewStats()
			extractor := analysis.NewExtractor(analysis.ExtractorConfigFromApp(cfg.Analysis), stats, logger)

			var classifier orchestrator.VibeClassifier
			if cfg.Classifier.Enabled && !noVibe {
				client := inference.NewClient(inference.Config{
					APIKey:         cfg.Classifier.APIKey,
					BaseURL:        cfg.Classifier.BaseURL,
					Model:          cfg.Classifier.Model,
					Referer:        cfg.Classifier.Referer,
					Title:          cfg.Classifier.Title,
					TimeoutSeconds: cfg.Classifier.TimeoutSeconds,
				})
				classifier = vibe.NewClassifier(client, store, logger)
			}

			orch := orchestrator.New(waveform.FileSource{}, extractor, classifier, logger)
			policy := orchestrator.Policy{
				ClassifyVibe:        classifier != nil,
				VibeConfidenceFloor: cfg.Classifier.ConfidenceFloor,
			}

			results := make([]orchestrator.AnalysisResult, 0, len(args))
			for _, path := range args {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return err
				}
				sample, err := store.AddSample(cmd.Context(), expanded)
				if err != nil {
					return err
				}
				result, _ := orch.Analyze(cmd.Context(), orchestrator.Request{
					SampleID: sample.ID,
					Path:     expanded,
				}, policy)
				if err := store.SaveResult(cmd.Context(), sample.ID, result); err != nil {
					return err
				}
				results = append(results, result)
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderAnalysisTable(args, results))
			snapshot := stats.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "analyzed %d, corrections %d\n",
				snapshot.TotalAnalyzed, snapshot.CorrectionsApplied)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noVibe, "no-vibe", false, "Skip remote vibe classification for this run")
	return cmd
}

func renderAnalysisTable(paths []string, results []orchestrator.AnalysisResult) string {
	rows := make([][]string, 0, len(results))
	for i, result := range results {
		path := ""
		if i < len(paths) {
			path = paths[i]
		}
		rows = append(rows, []string{
			path,
			string(result.Status),
			formatTempo(result.Features),
			formatKey(result.Features),
			string(result.Features.Shape),
			formatVibe(result.Vibe),
		})
	}
	return renderTable(
		[]string{"File", "Status", "Tempo", "Key", "Shape", "Vibe"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func formatTempo(features analysis.AudioFeatures) string {
	if features.TempoBPM == nil {
		return "-"
	}
	out := fmt.Sprintf("%.1f", *features.TempoBPM)
	if features.TempoWasCorrected {
		out += " (" + features.CorrectionMethod + ")"
	}
	return out
}

func formatKey(features analysis.AudioFeatures) string {
	if features.Key == nil {
		return "-"
	}
	return *features.Key
}

func formatVibe(result *vibe.VibeResult) string {
	if result == nil || result.Label == nil {
		return "-"
	}
	out := *result.Label
	if result.Confidence != nil {
		out += " (" + strconv.Itoa(*result.Confidence) + ")"
	}
	return out
}
