// Package logging builds the process logger: slog text output to stderr, or to
// a size-rotated file when one is configured.
package logging

import (
	"io"
	"log/slog"

	"github.com/natefinch/lumberjack"
)

// Options configures New.
type Options struct {
	Verbose bool
	// File, when set, receives the log instead of Stderr.
	File       string
	MaxSizeMB  int
	MaxAgeDays int
	Stderr     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a text logger at Info level, or Debug when Verbose is set. The
// returned Closer releases the log file, if any.
func New(opts Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var (
		out    io.Writer = opts.Stderr
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		l := &lumberjack.Logger{
			Filename: opts.File,
			MaxSize:  opts.MaxSizeMB,  // megabytes
			MaxAge:   opts.MaxAgeDays, // days
		}
		out, closer = l, l
	}
	if out == nil {
		out = io.Discard
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closer
}

// Install makes logger the slog default. Output of the standard log package,
// such as goji's panic recoverer, then goes through the same handler.
func Install(logger *slog.Logger) {
	slog.SetDefault(logger)
}
