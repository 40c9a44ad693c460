package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/cors"
	"github.com/zenazn/goji/web"
	"github.com/zenazn/goji/web/middleware"
	"github.com/zenazn/goji/web/mutil"
)

// MuxOptions configures NewMux.
type MuxOptions struct {
	// CORSOrigins enables cross-origin GETs from these origins. Empty disables CORS.
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewMux routes GET on every path to h, with request ids and access logging.
func NewMux(h *Handler, opts MuxOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := web.New()
	m.Use(middleware.RequestID)
	m.Use(accessLog(logger))
	m.Use(middleware.Recoverer)
	m.Get("/*", h)

	if len(opts.CORSOrigins) == 0 {
		return m
	}
	return cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(m)
}

// accessLog logs one line per request once the response is written.
func accessLog(logger *slog.Logger) func(*web.C, http.Handler) http.Handler {
	return func(c *web.C, next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := mutil.WrapWriter(w)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request",
				"req_id", middleware.GetReqID(*c),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"content_type", ww.Header().Get("Content-Type"),
				"bytes", humanize.Bytes(uint64(ww.BytesWritten())),
				"duration", time.Since(start),
			)
		}
		return http.HandlerFunc(fn)
	}
}
