// Package cmd - history commands
package cmd

import (
	"github.com/spf13/cobra"

	"waste-cost/adapters/storage"
	"waste-cost/core/ui"
)

var (
	historyLimit  int
	historySource string
)

// historyCmd inspects recorded runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded analysis runs",
	Long: `Runs are recorded when history is enabled in the configuration:

  history {
    enabled = true
    dir     = ".waste-cost/history"
  }`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(storage.BackendFile, cfg.History.Dir)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List(cmd.Context(), &storage.ListFilter{
			Source: historySource,
			Limit:  historyLimit,
		})
		if err != nil {
			return err
		}

		w := ui.NewWriter(cmd.OutOrStdout(), noColor)
		if len(runs) == 0 {
			w.Warning("no runs recorded in %s", cfg.History.Dir)
			return w.Err()
		}
		table := w.NewTable("ID", "Data", "Fonte", "Custo (R$)", "Redução").AlignRight(3, 4)
		for _, r := range runs {
			table.AddRow(r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Source,
				r.TotalCost.StringFixed(2), r.ReductionPct.StringFixed(2)+"%")
		}
		table.Render()
		return w.Err()
	},
}

var historyCompareCmd = &cobra.Command{
	Use:   "compare <old-id> <new-id>",
	Short: "Compare the waste cost of two runs",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(storage.BackendFile, cfg.History.Dir)
		if err != nil {
			return err
		}
		defer store.Close()

		cmp, err := store.Compare(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		w := ui.NewWriter(cmd.OutOrStdout(), noColor)
		w.Println("Custo anterior: R$ %s", cmp.OldCost.StringFixed(2))
		w.Println("Custo atual:    R$ %s", cmp.NewCost.StringFixed(2))
		if cmp.Delta.IsPositive() {
			w.Warning("Variação: +R$ %s (+%s%%)", cmp.Delta.StringFixed(2), cmp.DeltaPercent.StringFixed(2))
		} else {
			w.Success("Variação: R$ %s (%s%%)", cmp.Delta.StringFixed(2), cmp.DeltaPercent.StringFixed(2))
		}
		return w.Err()
	},
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to show (0 for all)")
	historyListCmd.Flags().StringVar(&historySource, "source", "", "only runs of this dataset path")
	historyCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyCompareCmd)
}
