// Package config provides configuration management.
package config

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"waste-cost/internal/errors"
	"waste-cost/internal/logging"
)

// DefaultFileName is the config file looked up when none is given
const DefaultFileName = "waste-cost.hcl"

// Config is the main application configuration
type Config struct {
	// DataPath is the operational dataset (.csv or .xlsx)
	DataPath string `json:"data_path"`

	// OutputDir receives the chart images and the optional workbook
	OutputDir string `json:"output_dir"`

	// Sheet selects the worksheet for .xlsx input; empty means the first one
	Sheet string `json:"sheet,omitempty"`

	// Simulation contains reduction simulation settings
	Simulation SimulationConfig `json:"simulation"`

	// Charts contains chart rendering settings
	Charts ChartsConfig `json:"charts"`

	// Output contains report output settings
	Output OutputConfig `json:"output"`

	// History contains run history settings
	History HistoryConfig `json:"history"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// SimulationConfig contains reduction simulation settings
type SimulationConfig struct {
	// Fraction is the share of waste cut on the critical materials, in [0,1]
	Fraction float64 `json:"fraction"`
}

// ChartsConfig contains chart rendering settings
type ChartsConfig struct {
	// Width is the image width in pixels
	Width int `json:"width"`

	// Height is the image height in pixels
	Height int `json:"height"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the summary format (cli, json, table)
	Format string `json:"format"`

	// Workbook enables the xlsx export next to the charts
	Workbook bool `json:"workbook"`
}

// HistoryConfig contains run history settings
type HistoryConfig struct {
	// Enabled records every successful run
	Enabled bool `json:"enabled"`

	// Dir holds one JSON file per run
	Dir string `json:"dir"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		DataPath:  filepath.Join("data", "desperdicio_operacional.csv"),
		OutputDir: "output",
		Simulation: SimulationConfig{
			Fraction: 0.3,
		},
		Charts: ChartsConfig{
			Width:  640,
			Height: 480,
		},
		Output: OutputConfig{
			Format:   "cli",
			Workbook: false,
		},
		History: HistoryConfig{
			Enabled: false,
			Dir:     filepath.Join(".waste-cost", "history"),
		},
		Logging: logging.DefaultConfig(),
	}
}

// fileConfig mirrors Config with pointers so absent settings keep their defaults
type fileConfig struct {
	DataPath   *string         `hcl:"data_path,optional"`
	OutputDir  *string         `hcl:"output_dir,optional"`
	Sheet      *string         `hcl:"sheet,optional"`
	Simulation *fileSimulation `hcl:"simulation,block"`
	Charts     *fileCharts     `hcl:"charts,block"`
	Output     *fileOutput     `hcl:"output,block"`
	History    *fileHistory    `hcl:"history,block"`
	Logging    *fileLogging    `hcl:"logging,block"`
}

type fileSimulation struct {
	Fraction *float64 `hcl:"fraction,optional"`
}

type fileCharts struct {
	Width  *int `hcl:"width,optional"`
	Height *int `hcl:"height,optional"`
}

type fileOutput struct {
	Format   *string `hcl:"format,optional"`
	Workbook *bool   `hcl:"workbook,optional"`
}

type fileHistory struct {
	Enabled *bool   `hcl:"enabled,optional"`
	Dir     *string `hcl:"dir,optional"`
}

type fileLogging struct {
	Level       *string `hcl:"level,optional"`
	Format      *string `hcl:"format,optional"`
	Output      *string `hcl:"output,optional"`
	Development *bool   `hcl:"development,optional"`
}

// Load loads configuration from an HCL file.
// A missing file yields the defaults. Expressions may reference base_dir,
// the directory holding the file.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("cannot read config file "+path, err)
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Config("cannot resolve config directory", err)
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"base_dir": cty.StringVal(baseDir),
		},
	}

	var fc fileConfig
	if err := hclsimple.Decode(path, src, evalCtx, &fc); err != nil {
		return nil, errors.Config("invalid config file "+path, err)
	}

	cfg := Default()
	fc.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.DataPath, fc.DataPath)
	setString(&cfg.OutputDir, fc.OutputDir)
	setString(&cfg.Sheet, fc.Sheet)

	if s := fc.Simulation; s != nil && s.Fraction != nil {
		cfg.Simulation.Fraction = *s.Fraction
	}
	if c := fc.Charts; c != nil {
		if c.Width != nil {
			cfg.Charts.Width = *c.Width
		}
		if c.Height != nil {
			cfg.Charts.Height = *c.Height
		}
	}
	if o := fc.Output; o != nil {
		setString(&cfg.Output.Format, o.Format)
		if o.Workbook != nil {
			cfg.Output.Workbook = *o.Workbook
		}
	}
	if h := fc.History; h != nil {
		if h.Enabled != nil {
			cfg.History.Enabled = *h.Enabled
		}
		setString(&cfg.History.Dir, h.Dir)
	}
	if l := fc.Logging; l != nil {
		setString(&cfg.Logging.Level, l.Level)
		setString(&cfg.Logging.Format, l.Format)
		setString(&cfg.Logging.Output, l.Output)
		if l.Development != nil {
			cfg.Logging.Development = *l.Development
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks the configuration for values the pipeline cannot use
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.Config("data_path cannot be empty", nil)
	}
	if c.OutputDir == "" {
		return errors.Config("output_dir cannot be empty", nil)
	}
	if c.Simulation.Fraction < 0 || c.Simulation.Fraction > 1 {
		return errors.Config("simulation fraction must be between 0 and 1", nil).
			WithContext("fraction", c.Simulation.Fraction)
	}
	if c.Charts.Width <= 0 || c.Charts.Height <= 0 {
		return errors.Config("chart dimensions must be positive", nil).
			WithContext("width", c.Charts.Width).
			WithContext("height", c.Charts.Height)
	}
	if c.History.Enabled && c.History.Dir == "" {
		return errors.Config("history dir cannot be empty when history is enabled", nil)
	}
	switch c.Output.Format {
	case "cli", "json", "table":
	default:
		return errors.Config("unknown output format "+c.Output.Format, nil)
	}
	return nil
}

// Save writes the configuration to a file as HCL
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("data_path", cty.StringVal(c.DataPath))
	body.SetAttributeValue("output_dir", cty.StringVal(c.OutputDir))
	if c.Sheet != "" {
		body.SetAttributeValue("sheet", cty.StringVal(c.Sheet))
	}

	body.AppendNewline()
	sim := body.AppendNewBlock("simulation", nil).Body()
	sim.SetAttributeValue("fraction", cty.NumberFloatVal(c.Simulation.Fraction))

	body.AppendNewline()
	charts := body.AppendNewBlock("charts", nil).Body()
	charts.SetAttributeValue("width", cty.NumberIntVal(int64(c.Charts.Width)))
	charts.SetAttributeValue("height", cty.NumberIntVal(int64(c.Charts.Height)))

	body.AppendNewline()
	out := body.AppendNewBlock("output", nil).Body()
	out.SetAttributeValue("format", cty.StringVal(c.Output.Format))
	out.SetAttributeValue("workbook", cty.BoolVal(c.Output.Workbook))

	body.AppendNewline()
	hist := body.AppendNewBlock("history", nil).Body()
	hist.SetAttributeValue("enabled", cty.BoolVal(c.History.Enabled))
	hist.SetAttributeValue("dir", cty.StringVal(c.History.Dir))

	body.AppendNewline()
	lg := body.AppendNewBlock("logging", nil).Body()
	lg.SetAttributeValue("level", cty.StringVal(c.Logging.Level))
	lg.SetAttributeValue("format", cty.StringVal(c.Logging.Format))
	lg.SetAttributeValue("output", cty.StringVal(c.Logging.Output))

	return os.WriteFile(path, f.Bytes(), 0644)
}
