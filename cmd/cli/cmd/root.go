// Package cmd provides the CLI commands for waste-cost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"waste-cost/internal/config"
	"waste-cost/internal/logging"
)

// Version is the tool version
const Version = "0.1.0"

var (
	cfgFile string
	verbose bool

	// cfg is the effective configuration, loaded before any command runs
	cfg = config.Default()
)

// rootCmd runs the full analysis with the configured defaults
var rootCmd = &cobra.Command{
	Use:   "waste-cost",
	Short: "Analyse operational waste cost",
	Long: `waste-cost computes waste-cost metrics from an operational dataset of
purchases and discards, renders charts by material, sector and month, and
simulates the saving of cutting waste on the costliest materials.

Running without a subcommand analyses the configured dataset
(data/desperdicio_operacional.csv by default) into output/.

Examples:
  waste-cost
  waste-cost analyze ./data/desperdicio_operacional.csv
  waste-cost analyze --format json --fraction 0.5 ./planilha.xlsx
  waste-cost config init`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: initConfig,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, cfg.DataPath)
	},
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultFileName+" when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultFileName
	} else if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	return nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "waste-cost version "+Version)
	},
}
