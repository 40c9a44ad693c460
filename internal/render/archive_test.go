package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/depthview/internal/testutil"
)

func TestArchive_DisabledIsNoop(t *testing.T) {
	var nilArchive *Archive
	assert.False(t, nilArchive.Enabled())

	path, err := nilArchive.Save([]byte("x"))
	require.NoError(t, err)
	assert.Empty(t, path)

	a := &Archive{}
	path, err = a.Save([]byte("x"))
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestArchive_SaveWritesPlot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	a := &Archive{Dir: dir, Names: testutil.NewSequenceNames()}

	path, err := a.Save([]byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plot_000001.png"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))
}

func TestArchive_KeepPrunesOldest(t *testing.T) {
	dir := t.TempDir()
	a := &Archive{Dir: dir, Keep: 2, Names: testutil.NewSequenceNames()}

	for i := 0; i < 5; i++ {
		_, err := a.Save([]byte{byte(i)})
		require.NoError(t, err)
	}

	plots, err := a.List()
	require.NoError(t, err)
	require.Len(t, plots, 2)
	assert.Equal(t, "plot_000004.png", filepath.Base(plots[0]))
	assert.Equal(t, "plot_000005.png", filepath.Base(plots[1]))
}

func TestArchive_KeepZeroRetainsEverything(t *testing.T) {
	a := &Archive{Dir: t.TempDir(), Names: testutil.NewSequenceNames()}
	for i := 0; i < 4; i++ {
		_, err := a.Save([]byte{1})
		require.NoError(t, err)
	}
	plots, err := a.List()
	require.NoError(t, err)
	assert.Len(t, plots, 4)
}

func TestArchive_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0o644))

	a := &Archive{Dir: dir, Keep: 1, Names: testutil.NewSequenceNames()}
	_, err := a.Save([]byte{1})
	require.NoError(t, err)
	_, err = a.Save([]byte{2})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
}

func TestNewArchive_UsesUUIDv7Names(t *testing.T) {
	a := NewArchive(t.TempDir(), 0)
	path, err := a.Save([]byte{1})
	require.NoError(t, err)

	base := filepath.Base(path)
	require.True(t, strings.HasPrefix(base, "plot_"))
	id, err := uuid.Parse(strings.TrimSuffix(strings.TrimPrefix(base, "plot_"), ".png"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}
