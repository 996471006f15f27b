package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kitcrate/internal/export"
	"kitcrate/internal/waveform"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var organization string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export analyzed samples into the hardware library",
		Args:  cobra.NoArgs,
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

			samples, err := store.ListAnalyzed(cmd.Context())
			if err != nil {
				return err
			}
			samples = analyzedPool(samples)
			if len(samples) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no analyzed samples to export")
				return nil
			}

			policy := export.PolicyFromConfig(cfg.Export)
			if organization != "" {
				policy.Organization = organization
			}

			sources := make([]export.Source, 0, len(samples))
			for _, sample := range samples {
				sources = append(sources, exportSource(sample))
			}

			exporter := export.NewExporter(policy, waveform.FileSource{}, cfg.Paths.LibraryDir, logger)
			manifest, err := exporter.Export(cmd.Context(), sources)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), manifest)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderManifestTable(manifest))
			fmt.Fprintf(cmd.OutOrStdout(), "batch %s: %d ok, %d corrected, %d rejected, %d failed, %d bytes\n",
				manifest.BatchID, manifest.OKCount, manifest.Corrected,
				manifest.Rejected, manifest.Failed, manifest.BytesWritten)
			return nil
		},
	}

	cmd.Flags().StringVar(&organization, "organization", "",
		"Override library organization (flat, by-genre, by-tempo)")
	return cmd
}

func renderManifestTable(manifest export.Manifest) string {
	rows := make([][]string, 0, len(manifest.Outcomes))
	for _, outcome := range manifest.Outcomes {
		detail := outcome.TargetPath
		if outcome.Error != "" {
			detail = outcome.Error
		} else if outcome.Item.ValidationStatus == export.ValidationRejected {
			detail = outcome.Item.RejectionReason
		}
		rows = append(rows, []string{
			outcome.Item.SourcePath,
			string(outcome.Item.ValidationStatus),
			strconv.FormatInt(outcome.BytesWritten, 10),
			detail,
		})
	}
	return renderTable(
		[]string{"Source", "Status", "Bytes", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	)
}
