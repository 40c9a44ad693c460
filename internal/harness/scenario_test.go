package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: "one row, one request"
csv: |
  depth,a,b
  1,2,3
  trailer
width: 2
requests:
  - get: "/?depth_min=1&depth_max=1"
`

func TestLoadScenario_AllTestdataParse(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)
			assert.NotEmpty(t, s.Name)
			assert.NotEmpty(t, s.Description)
		})
	}
}

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, "depth,a,b\n1,2,3\ntrailer\n", s.CSV)
	assert.Equal(t, 2, s.Width)
	require.Len(t, s.Requests, 1)
	assert.Nil(t, s.Requests[0].Expect)
}

func TestParseScenario_Fields(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/serve_depth_ranges.yaml")
	require.NoError(t, err)

	require.Len(t, s.Requests, 4)
	exp := s.Requests[2].Expect
	require.NotNil(t, exp)
	assert.True(t, exp.Usage)
	require.NotNil(t, exp.Rows)
	assert.Equal(t, 0, *exp.Rows)

	rng := s.Assertions[0]
	assert.Equal(t, AssertRange, rng.Type)
	assert.Equal(t, 120.0, rng.DepthMin)
	assert.Equal(t, []float64{150, 200}, rng.Depths)
	assert.Equal(t, [][]float64{{5, 8}, {9, 12}}, rng.Samples)

	empty := s.Assertions[1]
	assert.NotNil(t, empty.Depths)
	assert.Empty(t, empty.Depths)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    minimalScenario + "assertion: []\n",
			wantErr: "field assertion not found",
		},
		{
			name:    "missing name",
			yaml:    "description: d\ncsv: x\nrequests: [{get: /}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\ncsv: x\nrequests: [{get: /}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing csv",
			yaml:    "name: n\ndescription: d\nrequests: [{get: /}]\n",
			wantErr: "csv is required",
		},
		{
			name:    "nothing to do",
			yaml:    "name: n\ndescription: d\ncsv: x\n",
			wantErr: "requests or assertions are required",
		},
		{
			name:    "empty get",
			yaml:    "name: n\ndescription: d\ncsv: x\nrequests: [{get: \"\"}]\n",
			wantErr: "requests[0]: get is required",
		},
		{
			name:    "requests with load error",
			yaml:    "name: n\ndescription: d\ncsv: x\nload_error: boom\nrequests: [{get: /}]\n",
			wantErr: "requests cannot run",
		},
		{
			name:    "bad figure",
			yaml:    "name: n\ndescription: d\ncsv: x\nfigure: {width: 0, height: 5}\nrequests: [{get: /}]\n",
			wantErr: "figure width and height",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\ncsv: x\nassertions: [{type: vibes}]\n",
			wantErr: `unknown assertion type "vibes"`,
		},
		{
			name:    "range without depths",
			yaml:    "name: n\ndescription: d\ncsv: x\nassertions: [{type: range, depth_min: 1, depth_max: 2}]\n",
			wantErr: "depths is required",
		},
		{
			name:    "range samples mismatch",
			yaml:    "name: n\ndescription: d\ncsv: x\nassertions: [{type: range, depths: [1, 2], samples: [[1]]}]\n",
			wantErr: "one row per depth",
		},
		{
			name:    "empty table assertion",
			yaml:    "name: n\ndescription: d\ncsv: x\nassertions: [{type: table}]\n",
			wantErr: "table needs at least one",
		},
		{
			name:    "response_count without count",
			yaml:    "name: n\ndescription: d\ncsv: x\nassertions: [{type: response_count, content_type: image/png}]\n",
			wantErr: "count is required",
		},
		{
			name:    "archived without count",
			yaml:    "name: n\ndescription: d\ncsv: x\nassertions: [{type: archived}]\n",
			wantErr: "count is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
