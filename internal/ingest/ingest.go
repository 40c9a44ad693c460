// Package ingest loads the depth file into the store at startup.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roach88/depthview/internal/model"
	"github.com/roach88/depthview/internal/resample"
	"github.com/roach88/depthview/internal/rowsource"
	"github.com/roach88/depthview/internal/store"
)

// Loader is the part of *store.Store ingest writes through.
type Loader interface {
	ReplaceTable(ctx context.Context, name string, width int, rows []model.Row) error
	Stats(ctx context.Context, name string) (store.TableStats, error)
}

// Options configures Run.
type Options struct {
	CSV    string
	Table  string
	Width  int
	Logger *slog.Logger
}

// Summary describes a completed load.
type Summary struct {
	CSV         string
	Bytes       int64
	Table       string
	SourceWidth int
	Width       int
	Stats       store.TableStats
	Elapsed     time.Duration
}

// Run reads opts.CSV, resamples every row to opts.Width samples and replaces
// opts.Table with the result. Any failure leaves the previous table intact.
func Run(ctx context.Context, st Loader, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	sum := Summary{CSV: opts.CSV, Table: opts.Table, Width: opts.Width}

	if info, err := os.Stat(opts.CSV); err == nil {
		sum.Bytes = info.Size()
	}
	logger.Info("loading depth file", "path", opts.CSV, "size", humanize.Bytes(uint64(sum.Bytes)))

	raw, err := rowsource.Load(opts.CSV)
	if err != nil {
		return sum, err
	}
	sum.SourceWidth = raw.Width()
	logger.Debug("depth file parsed", "rows", raw.Len(), "samples", raw.Width())

	resampled, err := resample.Matrix(raw, opts.Width)
	if err != nil {
		return sum, fmt.Errorf("resample: %w", err)
	}

	if err := st.ReplaceTable(ctx, opts.Table, opts.Width, resampled.Rows); err != nil {
		return sum, err
	}

	stats, err := st.Stats(ctx, opts.Table)
	if err != nil {
		return sum, err
	}
	sum.Stats = stats
	sum.Elapsed = time.Since(start)

	logger.Info("depth table loaded",
		"table", opts.Table,
		"rows", humanize.Comma(int64(stats.Rows)),
		"width", opts.Width,
		"source_width", sum.SourceWidth,
		"min_depth", stats.MinDepth,
		"max_depth", stats.MaxDepth,
		"elapsed", sum.Elapsed,
	)
	return sum, nil
}
