package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/depthview/internal/model"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRows builds rows at the given depths with width samples each.
// Sample j of row i is depth + j, which keeps every value distinct.
func createTestRows(width int, depths ...float64) []model.Row {
	rows := make([]model.Row, len(depths))
	for i, d := range depths {
		samples := make([]float64, width)
		for j := range samples {
			samples[j] = d + float64(j)
		}
		rows[i] = model.Row{Depth: d, Samples: samples}
	}
	return rows
}
