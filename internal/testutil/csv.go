package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SampleCSV is a small depth file: a header, three rows of four samples at
// depths 100, 150 and 200, and a junk trailing line the loader must skip.
const SampleCSV = `depth,c0,c1,c2,c3
100,1,2,3,4
150,5,6,7,8
200,9,10,11,12
end of data;;;
`

// WriteCSV writes content to name inside a fresh temp dir and returns the path.
func WriteCSV(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// WriteSampleCSV writes SampleCSV to a temp file and returns the path.
func WriteSampleCSV(t testing.TB) string {
	t.Helper()
	return WriteCSV(t, "img.csv", SampleCSV)
}
