package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kitcrate/internal/export"
	"kitcrate/internal/kit"
	"kitcrate/internal/waveform"
)

func newKitCommand(ctx *commandContext) *cobra.Command {
	var (
		tempoFlag float64
		category  string
		doExport  bool
	)

	cmd := &cobra.Command{
		Use:   "kit <name>",
		Short: "Assemble a kit manifest from the catalog, optionally exporting it",
		Args:  cobra.ExactArgs(1),
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

			samples, err := store.ListAnalyzed(cmd.Context())
			if err != nil {
				return err
			}
			samples = analyzedPool(samples)
			pool := make([]kit.Candidate, 0, len(samples))
			byID := make(map[int64]export.Source, len(samples))
			for _, sample := range samples {
				pool = append(pool, kitCandidate(sample))
				byID[sample.ID] = exportSource(sample)
			}

			var tempo *float64
			if cmd.Flags().Changed("tempo") {
				tempo = &tempoFlag
			}
			layout := defaultKitLayout(tempo, category)

			recommender := kit.NewRecommender(kit.ConfigFromApp(cfg.Recommend))
			manifest := recommender.BuildKitManifest(args[0], layout, pool)

			if doExport {
				slots := make([]export.KitSlot, 0, len(manifest.Pads))
				for _, pad := range manifest.Assigned() {
					slots = append(slots, export.KitSlot{
						Bank:   pad.Bank,
						Pad:    pad.Pad,
						Source: byID[pad.Recommendation.Candidate.SampleID],
					})
				}
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				policy := export.PolicyFromConfig(cfg.Export)
				exporter := export.NewExporter(policy, waveform.FileSource{}, cfg.Paths.LibraryDir, logger)
				batch, err := exporter.ExportKit(cmd.Context(), manifest.Name, slots)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd.OutOrStdout(), struct {
						Manifest kit.KitManifest `json:"kit_manifest"`
						Batch    export.Manifest `json:"export_batch"`
					}{manifest, batch})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderKitTable(manifest))
				fmt.Fprintf(cmd.OutOrStdout(), "exported kit %q: %d ok, %d corrected, %d rejected, %d failed\n",
					manifest.Name, batch.OKCount, batch.Corrected, batch.Rejected, batch.Failed)
				return nil
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), manifest)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKitTable(manifest))
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d pads assigned\n",
				len(manifest.Assigned()), len(manifest.Pads))
			return nil
		},
	}

	cmd.Flags().Float64Var(&tempoFlag, "tempo", 0, "Target tempo in BPM for rhythm pads")
	cmd.Flags().StringVar(&category, "category", "", "Target device category for melodic pads")
	cmd.Flags().BoolVar(&doExport, "export", false, "Write the assembled kit into the library")
	return cmd
}

// defaultKitLayout fills bank a with rhythm purposes and bank b with
// melodic ones, leaving banks c and d free for manual assignment on the
// device.
func defaultKitLayout(tempo *float64, category string) []kit.PadSpec {
	layout := make([]kit.PadSpec, 0, 2*kit.PadsPerBank)
	for pad := 1; pad <= kit.PadsPerBank; pad++ {
		layout = append(layout, kit.PadSpec{
			Bank: "a",
			Pad:  pad,
			Purpose: kit.Purpose{
				Name:           fmt.Sprintf("rhythm-%02d", pad),
				Kind:           kit.KindRhythm,
				TargetTempoBPM: tempo,
				Category:       category,
			},
		})
		layout = append(layout, kit.PadSpec{
			Bank: "b",
			Pad:  pad,
			Purpose: kit.Purpose{
				Name:           fmt.Sprintf("melodic-%02d", pad),
				Kind:           kit.KindMelodic,
				TargetTempoBPM: tempo,
				Category:       category,
			},
		})
	}
	return layout
}

func renderKitTable(manifest kit.KitManifest) string {
	rows := make([][]string, 0, len(manifest.Pads))
	for _, pad := range manifest.Pads {
		file := "-"
		score := "-"
		detail := pad.Reason
		if pad.Recommendation != nil {
			file = pad.Recommendation.Candidate.Filename
			score = fmt.Sprintf("%.3f", pad.Recommendation.Score)
			detail = ""
		}
		purpose := "-"
		if pad.Purpose != nil {
			purpose = pad.Purpose.Name
		}
		rows = append(rows, []string{
			pad.Bank,
			strconv.Itoa(pad.Pad),
			purpose,
			file,
			score,
			detail,
		})
	}
	return renderTable(
		[]string{"Bank", "Pad", "Purpose", "File", "Score", "Note"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)
}
