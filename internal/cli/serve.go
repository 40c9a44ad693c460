package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/depthview/internal/config"
	"github.com/roach88/depthview/internal/ingest"
	"github.com/roach88/depthview/internal/logging"
	"github.com/roach88/depthview/internal/rangequery"
	"github.com/roach88/depthview/internal/render"
	"github.com/roach88/depthview/internal/rowsource"
	"github.com/roach88/depthview/internal/server"
	"github.com/roach88/depthview/internal/store"
)

// runServe loads the depth file and serves plots until interrupted.
func runServe(opts *RootOptions, cmd *cobra.Command) error {
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
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	if _, err := ingest.Run(ctx, st, ingestOptions(cfg, logger)); err != nil {
		return failLoad(formatter, err)
	}

	archive := render.NewArchive(cfg.PlotDir, cfg.PlotKeep)
	if opts.Names != nil {
		archive.Names = opts.Names
	}
	svc := rangequery.New(st, cfg.Table)
	renderer := newRenderer(cfg)
	width, height := renderer.Size()
	logger.Info("serving depth table",
		"table", svc.Table(),
		"figure", fmt.Sprintf("%dx%d", width, height),
		"archive", archive.Enabled(),
	)
	h := server.NewHandler(svc, renderer, archive, logger)
	mux := server.NewMux(h, server.MuxOptions{CORSOrigins: cfg.CORSOrigins, Logger: logger})

	if err := server.Serve(ctx, cfg.Addr(), mux, logger); err != nil {
		return formatter.fail(ExitFailure, ErrCodeGeneric, "server error", err)
	}
	return nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger builds the process logger from cfg and installs it as the slog
// default.
func newLogger(cfg config.Config, stderr io.Writer) (*slog.Logger, io.Closer) {
	logger, closer := logging.New(logging.Options{
		Verbose:    cfg.Verbose,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Stderr:     stderr,
	})
	logging.Install(logger)
	return logger, closer
}

func newRenderer(cfg config.Config) *render.Renderer {
	return render.New(render.Options{Width: cfg.FigureWidth, Height: cfg.FigureHeight})
}

func ingestOptions(cfg config.Config, logger *slog.Logger) ingest.Options {
	return ingest.Options{CSV: cfg.CSV, Table: cfg.Table, Width: cfg.Width, Logger: logger}
}

// failLoad classifies an ingest error for the user.
func failLoad(formatter *OutputFormatter, err error) error {
	if rowsource.IsParseError(err) || errors.Is(err, os.ErrNotExist) {
		return formatter.fail(ExitCommandError, ErrCodeInput, "failed to load depth file", err)
	}
	return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to load depth table", err)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM or when parent
// is done.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan) // Prevent signal handler leak
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
