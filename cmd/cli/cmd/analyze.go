// Package cmd - analyze command
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"waste-cost/adapters/storage"
	"waste-cost/core/engine"
	"waste-cost/core/output"
	"waste-cost/internal/logging"
)

var (
	outputDir    string
	outputFormat string
	fraction     float64
	sheet        string
	workbook     bool
	noColor      bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyse a waste dataset",
	Long: `Load a CSV or xlsx dataset, aggregate waste cost by material, sector and
month, write the three charts and print the summary.

The dataset must have the columns data, material, setor,
quantidade_comprada, quantidade_descartada and custo_unitario.

Examples:
  waste-cost analyze
  waste-cost analyze ./data/desperdicio_operacional.csv
  waste-cost analyze --output-dir ./relatorio --workbook ./planilha.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.DataPath
		if len(args) > 0 {
			path = args[0]
		}
		return runAnalysis(cmd, path)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for charts (default from config)")
	analyzeCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "summary format (cli, json, table)")
	analyzeCmd.Flags().Float64Var(&fraction, "fraction", 0, "waste cut simulated on critical materials, between 0 and 1")
	analyzeCmd.Flags().StringVar(&sheet, "sheet", "", "worksheet to read from xlsx input")
	analyzeCmd.Flags().BoolVar(&workbook, "workbook", false, "also export the views to an xlsx workbook")
	analyzeCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colors in the table format")
}

// runAnalysis applies command-line overrides to the configuration and
// runs the pipeline on path
func runAnalysis(cmd *cobra.Command, path string) error {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("format") {
		cfg.Output.Format = outputFormat
	}
	if flags.Changed("fraction") {
		cfg.Simulation.Fraction = fraction
	}
	if flags.Changed("sheet") {
		cfg.Sheet = sheet
	}
	if flags.Changed("workbook") {
		cfg.Output.Workbook = workbook
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	formatter, err := output.New(output.Format(cfg.Output.Format))
	if err != nil {
		return err
	}
	if _, ok := formatter.(output.TableFormatter); ok && noColor {
		formatter = output.TableFormatter{NoColor: true}
	}

	opts := engine.OptionsFromConfig(cfg, Version)
	result, err := engine.New(opts).Run(cmd.Context(), path)
	if err != nil {
		return err
	}
	if err := formatter.Render(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if cfg.History.Enabled {
		recordRun(cmd, result)
	}
	return nil
}

// recordRun stores the run summary; a history failure never fails the analysis
func recordRun(cmd *cobra.Command, result *output.AnalysisResult) {
	store, err := storage.Open(storage.BackendFile, cfg.History.Dir)
	if err == nil {
		defer store.Close()
		err = store.Save(cmd.Context(), storage.FromResult(result))
	}
	if err != nil {
		logging.Warn("failed to record run", zap.String("dir", cfg.History.Dir), zap.Error(err))
	}
}
