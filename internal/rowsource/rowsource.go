// Package rowsource reads the depth-indexed input file into a model.Matrix.
//
// The file is comma-delimited with one record per line. The first line is a
// header and the last line is a known-bad trailing record; both are skipped.
// Every remaining line holds a depth followed by its samples. Empty sample fields are missing values and
// parse as NaN. The depth field is always required.
package rowsource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/roach88/depthview/internal/model"
)

// ParseError reports a malformed input file.
type ParseError struct {
	Path   string // input file, empty when reading from a stream
	Line   int    // 1-based line number, 0 when not tied to a line
	Column int    // 1-based field index, 0 when not tied to a field
	Msg    string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ":%d", e.Column)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Load opens path and parses it with Read.
func Load(path string) (model.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Matrix{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return model.Matrix{}, err
	}
	return m, nil
}

// maxLineBytes bounds a single input line.
const maxLineBytes = 16 << 20

// record is one non-blank line of the input.
type record struct {
	line   int
	fields []string
}

// Read parses the input stream. A leading UTF-8 byte order mark is ignored.
//
// Records are physical lines split on commas. Quotes have no meaning, so a
// stray quote fails the numeric parse of its field instead of joining lines.
func Read(r io.Reader) (model.Matrix, error) {
	sc := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []record
	n := 0
	for sc.Scan() {
		n++
		fields := strings.Split(strings.TrimSuffix(sc.Text(), "\r"), ",")
		if blank(fields) {
			continue
		}
		records = append(records, record{line: n, fields: fields})
	}
	if err := sc.Err(); err != nil {
		return model.Matrix{}, &ParseError{Line: n + 1, Msg: "read line", Err: err}
	}

	// header + at least one data row + trailing row
	if len(records) < 3 {
		return model.Matrix{}, &ParseError{
			Msg: fmt.Sprintf("no data rows: found %d non-blank lines, need header, data and trailing line", len(records)),
		}
	}
	data := records[1 : len(records)-1]

	width := len(data[0].fields)
	if width < 2 {
		return model.Matrix{}, &ParseError{Line: data[0].line, Msg: "no sample columns after depth"}
	}

	m := model.Matrix{Rows: make([]model.Row, 0, len(data))}
	for _, rec := range data {
		if len(rec.fields) != width {
			return model.Matrix{}, &ParseError{
				Line: rec.line,
				Msg:  fmt.Sprintf("expected %d fields, found %d", width, len(rec.fields)),
			}
		}
		row, err := parseRow(rec)
		if err != nil {
			return model.Matrix{}, err
		}
		m.Rows = append(m.Rows, row)
	}
	return m, nil
}

func parseRow(rec record) (model.Row, error) {
	depthField := strings.TrimSpace(rec.fields[0])
	if depthField == "" {
		return model.Row{}, &ParseError{Line: rec.line, Column: 1, Msg: "missing depth"}
	}
	depth, err := strconv.ParseFloat(depthField, 64)
	if err != nil {
		return model.Row{}, &ParseError{Line: rec.line, Column: 1, Msg: "invalid depth", Err: err}
	}
	if math.IsNaN(depth) || math.IsInf(depth, 0) {
		return model.Row{}, &ParseError{Line: rec.line, Column: 1, Msg: fmt.Sprintf("depth must be finite, got %v", depth)}
	}

	samples := make([]float64, len(rec.fields)-1)
	for i, field := range rec.fields[1:] {
		field = strings.TrimSpace(field)
		if field == "" {
			samples[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return model.Row{}, &ParseError{Line: rec.line, Column: i + 2, Msg: "invalid sample", Err: err}
		}
		samples[i] = v
	}
	return model.Row{Depth: depth, Samples: samples}, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
