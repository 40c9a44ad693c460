package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/depthview/internal/model"
	"github.com/roach88/depthview/internal/rowsource"
	"github.com/roach88/depthview/internal/store"
	"github.com/roach88/depthview/internal/testutil"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func quietOptions(csv string, width int) Options {
	return Options{
		CSV:    csv,
		Table:  "img",
		Width:  width,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRun_LoadsAndResamples(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	path := testutil.WriteSampleCSV(t)

	sum, err := Run(ctx, st, quietOptions(path, 2))
	require.NoError(t, err)

	assert.Equal(t, "img", sum.Table)
	assert.Equal(t, 4, sum.SourceWidth)
	assert.Equal(t, 2, sum.Width)
	assert.Equal(t, int64(len(testutil.SampleCSV)), sum.Bytes)
	assert.Equal(t, store.TableStats{Rows: 3, MinDepth: 100, MaxDepth: 200}, sum.Stats)

	width, err := st.TableWidth(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, 2, width)

	got, err := st.QueryRange(ctx, "img", 100, 200)
	require.NoError(t, err)
	assert.Equal(t, model.Slice{
		Depths:  []float64{100, 150, 200},
		Samples: [][]float64{{1, 4}, {5, 8}, {9, 12}},
	}, got)
}

func TestRun_ReplacesPreviousLoad(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	_, err := Run(ctx, st, quietOptions(testutil.WriteSampleCSV(t), 3))
	require.NoError(t, err)

	second := testutil.WriteCSV(t, "second.csv", "depth,a,b\n7,1,2\n8,3,4\ntrailer\n")
	sum, err := Run(ctx, st, quietOptions(second, 5))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Stats.Rows)

	width, err := st.TableWidth(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, 5, width)
}

func TestRun_ParseErrorKeepsPreviousTable(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	_, err := Run(ctx, st, quietOptions(testutil.WriteSampleCSV(t), 2))
	require.NoError(t, err)

	bad := testutil.WriteCSV(t, "bad.csv", "depth,a\n1,2\nx,3\n4,5\ntrailer\n")
	_, err = Run(ctx, st, quietOptions(bad, 2))
	require.Error(t, err)
	assert.True(t, rowsource.IsParseError(err))

	stats, err := st.Stats(ctx, "img")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Rows)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := Run(ctx, openStore(t), quietOptions(filepath.Join(t.TempDir(), "none.csv"), 2))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("zero width", func(t *testing.T) {
		_, err := Run(ctx, openStore(t), quietOptions(testutil.WriteSampleCSV(t), 0))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "resample")
	})

	t.Run("bad table name", func(t *testing.T) {
		opts := quietOptions(testutil.WriteSampleCSV(t), 2)
		opts.Table = "img-2"
		_, err := Run(ctx, openStore(t), opts)
		require.Error(t, err)
		assert.True(t, store.IsSchemaError(err))
	})
}
