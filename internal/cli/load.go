package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/depthview/internal/ingest"
	"github.com/roach88/depthview/internal/store"
)

// LoadResult is the JSON payload of the load command.
type LoadResult struct {
	CSV         string  `json:"csv"`
	Bytes       int64   `json:"bytes"`
	DB          string  `json:"db"`
	Table       string  `json:"table"`
	Rows        int     `json:"rows"`
	SourceWidth int     `json:"source_width"`
	Width       int     `json:"width"`
	MinDepth    float64 `json:"min_depth"`
	MaxDepth    float64 `json:"max_depth"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load the depth file into the database without serving",
		Long: `Read the depth file, resample every row and replace the depth table.

The table can then be plotted with "depthview plot" without starting the server.

Example:
  depthview load --csv img.csv --db challenge.db --width 150`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, cmd)
		},
	}
}

func runLoad(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := resolveConfig(opts, cmd)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	logger, closer := newLogger(cfg, cmd.ErrOrStderr())
	defer closer.Close()

	st, err := store.Open(cfg.DB)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	formatter.VerboseLog("Loading %s into %s.%s", cfg.CSV, cfg.DB, cfg.Table)
	sum, err := ingest.Run(cmd.Context(), st, ingestOptions(cfg, logger))
	if err != nil {
		return failLoad(formatter, err)
	}

	result := LoadResult{
		CSV:         sum.CSV,
		Bytes:       sum.Bytes,
		DB:          cfg.DB,
		Table:       sum.Table,
		Rows:        sum.Stats.Rows,
		SourceWidth: sum.SourceWidth,
		Width:       sum.Width,
		MinDepth:    sum.Stats.MinDepth,
		MaxDepth:    sum.Stats.MaxDepth,
	}
	text := fmt.Sprintf("✓ Loaded %s rows from %s (%s) into %s, width %d -> %d, depth %g to %g",
		humanize.Comma(int64(result.Rows)), result.CSV, humanize.Bytes(uint64(result.Bytes)),
		result.Table, result.SourceWidth, result.Width, result.MinDepth, result.MaxDepth)
	return formatter.Success(result, text)
}
