package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/depthview/internal/rangequery"
	"github.com/roach88/depthview/internal/render"
	"github.com/roach88/depthview/internal/server"
	"github.com/roach88/depthview/internal/store"
)

// PlotOptions holds flags for the plot command.
type PlotOptions struct {
	*RootOptions
	DepthMin string
	DepthMax string
	Out      string
}

// PlotResult is the JSON payload of the plot command.
type PlotResult struct {
	Out      string `json:"out"`
	Table    string `json:"table"`
	DepthMin string `json:"depth_min"`
	DepthMax string `json:"depth_max"`
	Bytes    int    `json:"bytes"`
}

// NewPlotCommand creates the plot command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render one depth range from the database to a PNG file",
		Long: `Render the rows of an already loaded depth table within an inclusive
depth range, exactly as the server would, and write the PNG to a file.

Example:
  depthview plot --db challenge.db --depth-min 120 --depth-max 200 --out plot.png`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DepthMin, "depth-min", "", "lowest depth to include (required)")
	cmd.Flags().StringVar(&opts.DepthMax, "depth-max", "", "highest depth to include (required)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "plot.png", "output PNG path")
	_ = cmd.MarkFlagRequired("depth-min")
	_ = cmd.MarkFlagRequired("depth-max")

	return cmd
}

func runPlot(opts *PlotOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := resolveConfig(opts.RootOptions, cmd)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	logger, closer := newLogger(cfg, cmd.ErrOrStderr())
	defer closer.Close()

	if _, err := os.Stat(cfg.DB); err != nil {
		return formatter.fail(ExitCommandError, ErrCodeDatabase, "database not found", err)
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	h := server.NewHandler(rangequery.New(st, cfg.Table), newRenderer(cfg), nil, logger)
	query := url.Values{
		server.ParamDepthMin: {opts.DepthMin},
		server.ParamDepthMax: {opts.DepthMax},
	}
	img, err := h.Plot(cmd.Context(), query)
	switch {
	case err == nil:
	case server.IsBadRequest(err):
		return formatter.fail(ExitCommandError, ErrCodeGeneric, "invalid depth range", err)
	case store.IsSchemaError(err):
		return formatter.fail(ExitCommandError, ErrCodeDatabase, "depth table not loaded", err)
	case render.IsRenderError(err):
		return formatter.fail(ExitFailure, ErrCodeNoData, "nothing to plot", err)
	default:
		return formatter.fail(ExitFailure, ErrCodeDatabase, "failed to query depth range", err)
	}

	if err := os.WriteFile(opts.Out, img, 0o644); err != nil {
		return formatter.fail(ExitCommandError, ErrCodeWriteFailed, "failed to write plot", err)
	}

	result := PlotResult{
		Out:      opts.Out,
		Table:    cfg.Table,
		DepthMin: opts.DepthMin,
		DepthMax: opts.DepthMax,
		Bytes:    len(img),
	}
	text := fmt.Sprintf("✓ Wrote %s (%s) for depth %s to %s",
		result.Out, humanize.Bytes(uint64(result.Bytes)), opts.DepthMin, opts.DepthMax)
	return formatter.Success(result, text)
}
