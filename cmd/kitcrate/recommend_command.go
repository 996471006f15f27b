package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kitcrate/internal/kit"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var (
		purposeName string
		kindFlag    string
		tempoFlag   float64
		category    string
		topN        int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank analyzed samples for a pad purpose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			kind := kit.PurposeKind(kindFlag)
			if kind != kit.KindRhythm && kind != kit.KindMelodic {
				return fmt.Errorf("unknown purpose kind %q (want %q or %q)",
					kindFlag, kit.KindRhythm, kit.KindMelodic)
			}

			purpose := kit.Purpose{
				Name:     purposeName,
				Kind:     kind,
				Category: category,
			}
			if cmd.Flags().Changed("tempo") {
				purpose.TargetTempoBPM = &tempoFlag
			}

			samples, err := store.ListAnalyzed(cmd.Context())
			if err != nil {
				return err
			}
			samples = analyzedPool(samples)
			pool := make([]kit.Candidate, 0, len(samples))
			for _, sample := range samples {
				pool = append(pool, kitCandidate(sample))
			}

			recommender := kit.NewRecommender(kit.ConfigFromApp(cfg.Recommend))
			recommendations := recommender.Recommend(purpose, pool, topN)

			if ctx.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), recommendations)
			}
			if len(recommendations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no candidates in the catalog")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecommendationTable(recommendations))
			return nil
		},
	}

	cmd.Flags().StringVar(&purposeName, "name", "pad", "Purpose name shown in output")
	cmd.Flags().StringVar(&kindFlag, "kind", string(kit.KindRhythm), "Purpose kind (rhythm or melodic)")
	cmd.Flags().Float64Var(&tempoFlag, "tempo", 0, "Target tempo in BPM")
	cmd.Flags().StringVar(&category, "category", "", "Target device category")
	cmd.Flags().IntVar(&topN, "top", 0, "Number of recommendations (0 uses configured default)")
	return cmd
}

func renderRecommendationTable(recommendations []kit.Recommendation) string {
	rows := make([][]string, 0, len(recommendations))
	for i, rec := range recommendations {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			rec.Candidate.Filename,
			fmt.Sprintf("%.3f", rec.Score),
			fmt.Sprintf("%.2f", rec.Breakdown.TempoTerm),
			fmt.Sprintf("%.2f", rec.Breakdown.CategoryTerm),
			fmt.Sprintf("%.2f", rec.Breakdown.ConfidenceTerm),
			formatTempo(rec.Candidate.Features),
			formatVibe(rec.Candidate.Vibe),
		})
	}
	return renderTable(
		[]string{"#", "File", "Score", "Tempo", "Category", "Conf", "BPM", "Vibe"},
		rows,
		[]columnAlignment{
			alignRight, alignLeft, alignRight, alignRight,
			alignRight, alignRight, alignRight, alignLeft,
		},
	)
}
