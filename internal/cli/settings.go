package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/depthview/internal/config"
)

// resolveConfig builds the effective config: defaults, then the config file,
// then every flag set on the command line. The result is validated.
func resolveConfig(opts *RootOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	src := opts.flags
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"listen", func() { cfg.Listen = src.Listen }},
		{"port", func() { cfg.Port = src.Port }},
		{"csv", func() { cfg.CSV = src.CSV }},
		{"db", func() { cfg.DB = src.DB }},
		{"table", func() { cfg.Table = src.Table }},
		{"width", func() { cfg.Width = src.Width }},
		{"figure-width", func() { cfg.FigureWidth = src.FigureWidth }},
		{"figure-height", func() { cfg.FigureHeight = src.FigureHeight }},
		{"plot-dir", func() { cfg.PlotDir = src.PlotDir }},
		{"plot-keep", func() { cfg.PlotKeep = src.PlotKeep }},
		{"log-file", func() { cfg.LogFile = src.LogFile }},
		{"cors-origin", func() { cfg.CORSOrigins = src.CORSOrigins }},
	}
	flags := cmd.Flags()
	for _, o := range overrides {
		if flags.Changed(o.flag) {
			o.apply()
		}
	}
	if opts.Verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
