package store

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/depthview/internal/model"
	"github.com/roach88/depthview/internal/querysql"
)

func TestReplaceTable_CreatesSchema(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceTable(ctx, "img", 3, createTestRows(3, 100, 150)))

	width, err := s.TableWidth(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, 3, width)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM img`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestReplaceTable_DiscardsPriorData(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceTable(ctx, "img", 4, createTestRows(4, 1, 2, 3, 4, 5)))
	require.NoError(t, s.ReplaceTable(ctx, "img", 2, createTestRows(2, 10)))

	width, err := s.TableWidth(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, 2, width)

	stats, err := s.Stats(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rows)
	assert.Equal(t, 10.0, stats.MinDepth)
}

func TestReplaceTable_LeavesOtherTablesAlone(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceTable(ctx, "a", 2, createTestRows(2, 1, 2)))
	require.NoError(t, s.ReplaceTable(ctx, "b", 2, createTestRows(2, 3)))

	stats, err := s.Stats(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
}

func TestReplaceTable_ReservedWordName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceTable(ctx, "order", 2, createTestRows(2, 1)))

	got, err := s.QueryRange(ctx, "order", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, got.Depths)
}

func TestReplaceTable_EmptyRows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceTable(ctx, "img", 2, nil))

	stats, err := s.Stats(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Rows)
	assert.True(t, math.IsNaN(stats.MinDepth))
	assert.True(t, math.IsNaN(stats.MaxDepth))
}

func TestReplaceTable_SchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		table string
		width int
		rows  []model.Row
		cause error
	}{
		{"malformed name", "img;drop", 2, createTestRows(2, 1), querysql.ErrInvalidIdentifier},
		{"leading digit", "1img", 2, createTestRows(2, 1), querysql.ErrInvalidIdentifier},
		{"zero width", "img", 0, nil, querysql.ErrInvalidWidth},
		{"too wide", "img", querysql.MaxColumns, nil, querysql.ErrInvalidWidth},
		{"row width mismatch", "img", 3, createTestRows(2, 1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestStore(t)
			err := s.ReplaceTable(context.Background(), tt.table, tt.width, tt.rows)
			require.Error(t, err)
			assert.True(t, IsSchemaError(err), "expected SchemaError, got %T: %v", err, err)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestReplaceTable_MismatchLeavesExistingTable(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceTable(ctx, "img", 2, createTestRows(2, 1, 2)))

	bad := append(createTestRows(2, 5), model.Row{Depth: 6, Samples: []float64{1}})
	err := s.ReplaceTable(ctx, "img", 2, bad)
	require.True(t, IsSchemaError(err))

	stats, err := s.Stats(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
}

func TestReplaceTable_NaNStoredAsNull(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rows := []model.Row{{Depth: 1, Samples: []float64{math.NaN(), 2}}}
	require.NoError(t, s.ReplaceTable(ctx, "img", 2, rows))

	var nulls int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM img WHERE col0 IS NULL`).Scan(&nulls))
	assert.Equal(t, 1, nulls)
}

func TestReplaceTable_CancelledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.ReplaceTable(ctx, "img", 2, createTestRows(2, 1))
	assert.Error(t, err)
	assert.False(t, IsSchemaError(err))
}
