package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines an end-to-end test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// CSV is the depth file content, header and trailing line included.
	CSV string `yaml:"csv"`

	// Width is the resample width. Defaults to 150.
	Width int `yaml:"width,omitempty"`

	// Table is the depth table name. Defaults to "img".
	Table string `yaml:"table,omitempty"`

	// Figure is the plot size. Defaults to 360x160.
	Figure *Figure `yaml:"figure,omitempty"`

	// Archive enables plot archiving with the given retention.
	Archive *ArchiveSpec `yaml:"archive,omitempty"`

	// LoadError, when set, expects loading to fail with an error containing it.
	// No requests may be given then.
	LoadError string `yaml:"load_error,omitempty"`

	// Requests are served in order through the HTTP mux.
	Requests []Request `yaml:"requests,omitempty"`

	// Assertions validate the final state and trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Figure is a plot size in pixels.
type Figure struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ArchiveSpec configures plot archiving.
type ArchiveSpec struct {
	Keep int `yaml:"keep"`
}

// Request is one GET with its expected response.
type Request struct {
	// Get is the request target, path and query (e.g. "/?depth_min=1&depth_max=2").
	Get string `yaml:"get"`

	// Expect is checked against the response. If nil, nothing is checked.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies an expected response.
type Expect struct {
	// Status defaults to 200.
	Status int `yaml:"status,omitempty"`

	// ContentType must match exactly when set.
	ContentType string `yaml:"content_type,omitempty"`

	// Usage requires the body to be the usage hint.
	Usage bool `yaml:"usage,omitempty"`

	// Rows is the number of rows the range query returned. Nil skips the check;
	// a request that never reached the query fails a non-nil Rows.
	Rows *int `yaml:"rows,omitempty"`
}

// Assertion validates final state or the trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "range": query the store and compare depths/samples
	// - "table": check row count, width and depth bounds
	// - "response_count": count responses with content_type
	// - "archived": count archived plots
	Type string `yaml:"type"`

	// DepthMin and DepthMax bound the range (used by range).
	DepthMin float64 `yaml:"depth_min,omitempty"`
	DepthMax float64 `yaml:"depth_max,omitempty"`

	// Depths is the expected depth order (used by range).
	Depths []float64 `yaml:"depths,omitempty"`

	// Samples are the expected sample rows (used by range). NaN is written .nan.
	Samples [][]float64 `yaml:"samples,omitempty"`

	// Rows, Width, MinDepth and MaxDepth describe the table (used by table).
	// Unset fields are not checked.
	Rows     *int     `yaml:"rows,omitempty"`
	Width    *int     `yaml:"width,omitempty"`
	MinDepth *float64 `yaml:"min_depth,omitempty"`
	MaxDepth *float64 `yaml:"max_depth,omitempty"`

	// ContentType selects responses (used by response_count).
	ContentType string `yaml:"content_type,omitempty"`

	// Count is the expected number (used by response_count and archived).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertRange         = "range"
	AssertTable         = "table"
	AssertResponseCount = "response_count"
	AssertArchived      = "archived"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.CSV == "" {
		return fmt.Errorf("csv is required")
	}
	if s.Width < 0 {
		return fmt.Errorf("width must be positive")
	}
	if s.Figure != nil && (s.Figure.Width < 1 || s.Figure.Height < 1) {
		return fmt.Errorf("figure width and height must be positive")
	}
	if s.Archive != nil && s.Archive.Keep < 0 {
		return fmt.Errorf("archive.keep must be non-negative")
	}

	if s.LoadError != "" {
		if len(s.Requests) > 0 {
			return fmt.Errorf("requests cannot run when load_error is expected")
		}
		return nil
	}

	if len(s.Requests) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("requests or assertions are required")
	}

	for i, req := range s.Requests {
		if req.Get == "" {
			return fmt.Errorf("requests[%d]: get is required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRange:
		if a.Depths == nil {
			return fmt.Errorf("assertions[%d]: depths is required for range (use [] for empty)", index)
		}
		if a.Samples != nil && len(a.Samples) != len(a.Depths) {
			return fmt.Errorf("assertions[%d]: samples must have one row per depth", index)
		}
	case AssertTable:
		if a.Rows == nil && a.Width == nil && a.MinDepth == nil && a.MaxDepth == nil {
			return fmt.Errorf("assertions[%d]: table needs at least one of rows, width, min_depth, max_depth", index)
		}
	case AssertResponseCount:
		if a.ContentType == "" {
			return fmt.Errorf("assertions[%d]: content_type is required for response_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for response_count", index)
		}
	case AssertArchived:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for archived", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
