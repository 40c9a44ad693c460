package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// sampleTolerance absorbs interpolation rounding in expected sample values.
const sampleTolerance = 1e-9

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			switch ev.Type {
			case EventQuery:
				fmt.Fprintf(&buf, "  [%d] query [%s, %s]", ev.Seq, ev.DepthMin, ev.DepthMax)
				if ev.Rows != nil {
					fmt.Fprintf(&buf, " -> %d rows\n", *ev.Rows)
				} else {
					fmt.Fprintf(&buf, " -> error %s\n", ev.Error)
				}
			case EventResponse:
				fmt.Fprintf(&buf, "  [%d] GET %s -> %d %s\n", ev.Seq, ev.Target, ev.Status, ev.ContentType)
			}
		}
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(ctx context.Context, h *Harness, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertRange:
			err = h.assertRange(ctx, a)
		case AssertTable:
			err = h.assertTable(ctx, a)
		case AssertResponseCount:
			err = h.assertResponseCount(a)
		case AssertArchived:
			err = h.assertArchived(a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// assertRange queries the table directly and compares the result.
func (h *Harness) assertRange(ctx context.Context, a Assertion) error {
	slice, err := h.store.QueryRange(ctx, h.table, a.DepthMin, a.DepthMax)
	if err != nil {
		return &AssertionError{
			Type:     AssertRange,
			Expected: fmt.Sprintf("depths %v in [%g, %g]", a.Depths, a.DepthMin, a.DepthMax),
			Actual:   fmt.Sprintf("query error: %v", err),
		}
	}

	if diff := cmp.Diff(a.Depths, slice.Depths, cmpopts.EquateEmpty()); diff != "" {
		return &AssertionError{
			Type:     AssertRange,
			Expected: fmt.Sprintf("depths %v in [%g, %g]", a.Depths, a.DepthMin, a.DepthMax),
			Actual:   fmt.Sprintf("depths %v (-want +got):\n%s", slice.Depths, diff),
			Trace:    h.result.Trace,
		}
	}

	if a.Samples == nil {
		return nil
	}
	opts := cmp.Options{
		cmpopts.EquateApprox(0, sampleTolerance),
		cmpopts.EquateNaNs(),
		cmpopts.EquateEmpty(),
	}
	if diff := cmp.Diff(a.Samples, slice.Samples, opts); diff != "" {
		return &AssertionError{
			Type:     AssertRange,
			Expected: fmt.Sprintf("samples %v", a.Samples),
			Actual:   fmt.Sprintf("samples %v (-want +got):\n%s", slice.Samples, diff),
			Trace:    h.result.Trace,
		}
	}
	return nil
}

// assertTable checks the loaded table's shape. Only fields set in a are checked.
func (h *Harness) assertTable(ctx context.Context, a Assertion) error {
	stats, err := h.store.Stats(ctx, h.table)
	if err != nil {
		return &AssertionError{Type: AssertTable, Expected: "table stats", Actual: err.Error()}
	}
	width, err := h.store.TableWidth(ctx, h.table)
	if err != nil {
		return &AssertionError{Type: AssertTable, Expected: "table width", Actual: err.Error()}
	}

	var mismatches []string
	if a.Rows != nil && stats.Rows != *a.Rows {
		mismatches = append(mismatches, fmt.Sprintf("rows %d, want %d", stats.Rows, *a.Rows))
	}
	if a.Width != nil && width != *a.Width {
		mismatches = append(mismatches, fmt.Sprintf("width %d, want %d", width, *a.Width))
	}
	if a.MinDepth != nil && stats.MinDepth != *a.MinDepth {
		mismatches = append(mismatches, fmt.Sprintf("min_depth %g, want %g", stats.MinDepth, *a.MinDepth))
	}
	if a.MaxDepth != nil && stats.MaxDepth != *a.MaxDepth {
		mismatches = append(mismatches, fmt.Sprintf("max_depth %g, want %g", stats.MaxDepth, *a.MaxDepth))
	}
	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     AssertTable,
			Expected: "table matching assertion",
			Actual:   strings.Join(mismatches, "; "),
		}
	}
	return nil
}

// assertResponseCount counts responses with the assertion's content type.
func (h *Harness) assertResponseCount(a Assertion) error {
	count := 0
	for _, ev := range h.result.Responses() {
		if ev.ContentType == a.ContentType {
			count++
		}
	}
	if count != *a.Count {
		return &AssertionError{
			Type:     AssertResponseCount,
			Expected: fmt.Sprintf("%d %s responses", *a.Count, a.ContentType),
			Actual:   fmt.Sprintf("%d", count),
			Trace:    h.result.Trace,
		}
	}
	return nil
}

// assertArchived counts plots in the archive. No archive counts as zero.
func (h *Harness) assertArchived(a Assertion) error {
	plots, err := h.archive.List()
	if err != nil {
		return &AssertionError{Type: AssertArchived, Expected: "archive listing", Actual: err.Error()}
	}
	if len(plots) != *a.Count {
		return &AssertionError{
			Type:     AssertArchived,
			Expected: fmt.Sprintf("%d archived plots", *a.Count),
			Actual:   fmt.Sprintf("%d", len(plots)),
			Trace:    h.result.Trace,
		}
	}
	return nil
}
