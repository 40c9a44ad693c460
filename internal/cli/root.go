package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/depthview/internal/config"
	"github.com/roach88/depthview/internal/render"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// flags holds values bound to command-line flags. Only flags the user set
	// are applied over the config file; see resolveConfig.
	flags config.Config

	// Names allows overriding plot archive naming (for testing).
	// If nil, defaults to render.UUIDv7Names.
	Names render.NameGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the depthview command. Run without a subcommand it
// loads the depth file and serves heatmaps.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{flags: config.Default()}

	cmd := &cobra.Command{
		Use:   "depthview",
		Short: "Serve depth-range heatmaps from a CSV of depth-indexed samples",
		Long: `Load a CSV of depth-indexed sample rows into SQLite, resample every row
to a fixed width and serve heatmap PNGs for depth ranges over HTTP.

Request a plot with:
  curl 'http://localhost:8080/?depth_min=120&depth_max=200' > plot.png`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigPath, "config", "", "config file (.yaml, .yml or .toml)")
	pf.StringVar(&opts.flags.DB, "db", opts.flags.DB, "path to SQLite database")
	pf.StringVar(&opts.flags.Table, "table", opts.flags.Table, "depth table name")
	pf.StringVar(&opts.flags.CSV, "csv", opts.flags.CSV, "depth file to load")
	pf.IntVar(&opts.flags.Width, "width", opts.flags.Width, "samples per row after resampling")
	pf.IntVar(&opts.flags.FigureWidth, "figure-width", opts.flags.FigureWidth, "plot width in pixels")
	pf.IntVar(&opts.flags.FigureHeight, "figure-height", opts.flags.FigureHeight, "plot height in pixels")
	pf.StringVar(&opts.flags.LogFile, "log-file", opts.flags.LogFile, "write logs to a rotating file instead of stderr")

	// Serve flags
	f := cmd.Flags()
	f.StringVarP(&opts.flags.Listen, "listen", "l", opts.flags.Listen, "host to listen on")
	f.IntVarP(&opts.flags.Port, "port", "p", opts.flags.Port, "port to listen on")
	f.StringVar(&opts.flags.PlotDir, "plot-dir", opts.flags.PlotDir, "also save every served plot in this directory")
	f.IntVar(&opts.flags.PlotKeep, "plot-keep", opts.flags.PlotKeep, "saved plots to keep (0 keeps all)")
	f.StringSliceVar(&opts.flags.CORSOrigins, "cors-origin", nil, "allow cross-origin GETs from this origin (repeatable)")

	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewPlotCommand(opts))

	return cmd
}
