package harness

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/roach88/depthview/internal/ingest"
	"github.com/roach88/depthview/internal/model"
	"github.com/roach88/depthview/internal/rangequery"
	"github.com/roach88/depthview/internal/render"
	"github.com/roach88/depthview/internal/server"
	"github.com/roach88/depthview/internal/store"
	"github.com/roach88/depthview/internal/testutil"
)

// Scenario defaults.
const (
	DefaultWidth        = 150
	DefaultTable        = "img"
	DefaultFigureWidth  = 360
	DefaultFigureHeight = 160
)

// Harness is the test execution engine for one scenario.
type Harness struct {
	store   *store.Store
	archive *render.Archive
	mux     http.Handler
	table   string
	width   int
	seq     int64
	result  *Result
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database and temp directory for
// isolation.
//
// Execution flow:
// 1. Write the scenario CSV and load it at the scenario width
// 2. Check load_error expectations, stopping there if one is set
// 3. Serve every request through the production mux
// 4. Evaluate assertions
// 5. Return result with pass/fail, trace, and errors
//
// An error is returned only when the scenario cannot run at all.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "depthview-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	csvPath := filepath.Join(dir, "img.csv")
	if err := os.WriteFile(csvPath, []byte(scenario.CSV), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write scenario csv: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		table:  orDefault(scenario.Table, DefaultTable),
		width:  scenario.Width,
		result: NewResult(),
	}
	if h.width == 0 {
		h.width = DefaultWidth
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	ctx := context.Background()

	_, loadErr := ingest.Run(ctx, st, ingest.Options{
		CSV:    csvPath,
		Table:  h.table,
		Width:  h.width,
		Logger: logger,
	})
	if scenario.LoadError != "" {
		h.result.LoadErr = loadErr
		switch {
		case loadErr == nil:
			h.result.AddError(fmt.Sprintf("expected load error containing %q, load succeeded", scenario.LoadError))
		case !strings.Contains(loadErr.Error(), scenario.LoadError):
			h.result.AddError(fmt.Sprintf("expected load error containing %q, got %q", scenario.LoadError, loadErr))
		}
		return h.result, nil
	}
	if loadErr != nil {
		return nil, fmt.Errorf("failed to load scenario csv: %w", loadErr)
	}

	if scenario.Archive != nil {
		h.archive = &render.Archive{
			Dir:   filepath.Join(dir, "plots"),
			Keep:  scenario.Archive.Keep,
			Names: testutil.NewSequenceNames(),
		}
	}
	fig := Figure{Width: DefaultFigureWidth, Height: DefaultFigureHeight}
	if scenario.Figure != nil {
		fig = *scenario.Figure
	}

	handler := server.NewHandler(
		&recordingQuerier{next: rangequery.New(st, h.table), h: h},
		render.New(render.Options{Width: fig.Width, Height: fig.Height}),
		h.archive,
		logger,
	)
	h.mux = server.NewMux(handler, server.MuxOptions{Logger: logger})

	for i, req := range scenario.Requests {
		h.serve(i, req)
	}

	for _, errMsg := range EvaluateAssertions(ctx, h, scenario.Assertions) {
		h.result.AddError(errMsg)
	}
	return h.result, nil
}

// serve sends one request through the mux, records the response and checks
// its expectation.
func (h *Harness) serve(index int, req Request) {
	start := len(h.result.Trace)

	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, req.Get, nil))

	ev := TraceEvent{
		Type:        EventResponse,
		Target:      req.Get,
		Status:      rec.Code,
		ContentType: rec.Header().Get("Content-Type"),
	}
	if ev.ContentType == "image/png" {
		cfg, err := png.DecodeConfig(bytes.NewReader(rec.Body.Bytes()))
		if err != nil {
			ev.Body = fmt.Sprintf("invalid png: %v", err)
		} else {
			ev.Image = fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
		}
	} else {
		ev.Body = rec.Body.String()
	}
	h.record(ev)

	if req.Expect == nil {
		return
	}
	for _, msg := range checkExpect(req.Expect, ev, h.result.Trace[start:]) {
		h.result.AddError(fmt.Sprintf("requests[%d] %s: %s", index, req.Get, msg))
	}
}

// checkExpect compares a response, and the events recorded while serving it,
// against exp.
func checkExpect(exp *Expect, resp TraceEvent, events []TraceEvent) []string {
	var errs []string

	status := exp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if resp.Status != status {
		errs = append(errs, fmt.Sprintf("status %d, want %d", resp.Status, status))
	}
	if exp.ContentType != "" && resp.ContentType != exp.ContentType {
		errs = append(errs, fmt.Sprintf("content type %q, want %q", resp.ContentType, exp.ContentType))
	}
	if exp.Usage && resp.Body != server.UsageHTML {
		errs = append(errs, fmt.Sprintf("body %q, want the usage hint", resp.Body))
	}
	if exp.Rows != nil {
		var query *TraceEvent
		for i := range events {
			if events[i].Type == EventQuery {
				query = &events[i]
			}
		}
		switch {
		case query == nil:
			errs = append(errs, fmt.Sprintf("want %d rows, range query never ran", *exp.Rows))
		case query.Rows == nil:
			errs = append(errs, fmt.Sprintf("want %d rows, range query failed: %s", *exp.Rows, query.Error))
		case *query.Rows != *exp.Rows:
			errs = append(errs, fmt.Sprintf("range query returned %d rows, want %d", *query.Rows, *exp.Rows))
		}
	}
	return errs
}

func (h *Harness) record(ev TraceEvent) {
	h.seq++
	ev.Seq = h.seq
	h.result.Trace = append(h.result.Trace, ev)
}

// recordingQuerier traces every range query the handler makes.
type recordingQuerier struct {
	next server.Querier
	h    *Harness
}

func (q *recordingQuerier) Range(ctx context.Context, depthMin, depthMax float64) (model.Slice, error) {
	slice, err := q.next.Range(ctx, depthMin, depthMax)

	ev := TraceEvent{
		Type:     EventQuery,
		DepthMin: formatBound(depthMin),
		DepthMax: formatBound(depthMax),
	}
	if err != nil {
		ev.Error = err.Error()
	} else {
		rows := slice.Len()
		ev.Rows = &rows
	}
	q.h.record(ev)
	return slice, err
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
