package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kitcrate/internal/catalog"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog counts and classifier usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			all, err := store.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			analyzed := analyzedPool(all)
			usage, err := store.Usage(cmd.Context())
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd.OutOrStdout(), struct {
					Samples  int                  `json:"samples"`
					Analyzed int                  `json:"analyzed"`
					Usage    catalog.UsageSummary `json:"classifier_usage"`
				}{len(all), len(analyzed), usage})
			}

			rows := [][]string{
				{"Samples in catalog", strconv.Itoa(len(all))},
				{"Completed analyses", strconv.Itoa(len(analyzed))},
				{"Classifier calls", strconv.FormatInt(usage.Calls, 10)},
				{"Classifier errors", strconv.FormatInt(usage.Errors, 10)},
				{"Avg call latency (ms)", strconv.FormatInt(usage.AvgLatencyMs(), 10)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Metric", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}
