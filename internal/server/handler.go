// Package server serves depth-range heatmaps over HTTP.
//
// Every GET, on any path, reads depth_min and depth_max from the query string,
// fetches the matching rows, renders them and replies with the PNG. Anything
// that goes wrong along the way produces the same small HTML usage hint; the
// cause is logged, never sent to the client.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dustin/go-humanize"
	"github.com/zenazn/goji/web"
	"github.com/zenazn/goji/web/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/roach88/depthview/internal/model"
	"github.com/roach88/depthview/internal/render"
)

// UsageHTML is the body returned for every failed request.
const UsageHTML = "<html><body><h1>Require query ?depth_min= &depth_max= </h1></body></html>"

// Querier fetches the rows within an inclusive depth range.
type Querier interface {
	Range(ctx context.Context, depthMin, depthMax float64) (model.Slice, error)
}

// Handler runs the query, render and respond pipeline. Requests are processed
// one at a time.
type Handler struct {
	query    Querier
	renderer *render.Renderer
	archive  *render.Archive
	logger   *slog.Logger
	sem      *semaphore.Weighted
}

// NewHandler creates a Handler. archive may be nil. A nil logger uses
// slog.Default().
func NewHandler(q Querier, r *render.Renderer, archive *render.Archive, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		query:    q,
		renderer: r,
		archive:  archive,
		logger:   logger,
		sem:      semaphore.NewWeighted(1),
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.ServeHTTPC(web.C{}, w, r)
}

// ServeHTTPC implements web.Handler so the goji request id reaches the logs.
func (h *Handler) ServeHTTPC(c web.C, w http.ResponseWriter, r *http.Request) {
	logger := h.logger
	if id := middleware.GetReqID(c); id != "" {
		logger = logger.With("req_id", id)
	}

	if err := h.sem.Acquire(r.Context(), 1); err != nil {
		logger.Warn("request abandoned while waiting", "error", err)
		writeUsage(w)
		return
	}
	defer h.sem.Release(1)

	img, err := h.Plot(r.Context(), r.URL.Query())
	if err != nil {
		logger.Info("request failed", "query", r.URL.RawQuery, "error", err)
		writeUsage(w)
		return
	}

	if path, err := h.archive.Save(img); err != nil {
		logger.Warn("archive plot failed", "error", err)
	} else if path != "" {
		logger.Debug("plot archived", "path", path)
	}

	logger.Debug("plot rendered", "query", r.URL.RawQuery, "size", humanize.Bytes(uint64(len(img))))
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// Plot parses the bounds from q, queries the range and renders it.
func (h *Handler) Plot(ctx context.Context, q url.Values) ([]byte, error) {
	depthMin, depthMax, err := ParseBounds(q)
	if err != nil {
		return nil, err
	}
	slice, err := h.query.Range(ctx, depthMin, depthMax)
	if err != nil {
		return nil, err
	}
	img, err := h.renderer.Render(slice)
	if err != nil {
		return nil, fmt.Errorf("range [%g, %g]: %w", depthMin, depthMax, err)
	}
	return img, nil
}

func writeUsage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(UsageHTML))
}
