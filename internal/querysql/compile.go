// Package querysql builds the SQL text for depth tables.
//
// A depth table has one REAL depth column followed by Width REAL sample
// columns named col0..col{Width-1}. Identifiers are validated and quoted
// before they reach SQL; values are always bound through ? placeholders.
package querysql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxColumns is SQLite's default SQLITE_MAX_COLUMN.
const MaxColumns = 2000

// DepthColumn is the name of the key column.
const DepthColumn = "depth"

var (
	// ErrInvalidIdentifier is returned for table names that are not plain SQL identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidWidth is returned for sample widths outside [1, MaxColumns-1].
	ErrInvalidWidth = errors.New("invalid width")
)

// validIdentifier matches names made of letters, digits and underscores that
// do not start with a digit. Identifiers cannot be parameterized, so this is
// what keeps table names out of the injection surface.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks that name can be used as a table name.
func ValidateIdentifier(name string) error {
	if !validIdentifier.MatchString(name) {
		return fmt.Errorf("%w %q: must match %s", ErrInvalidIdentifier, name, validIdentifier.String())
	}
	return nil
}

// Table describes a depth table.
type Table struct {
	Name  string
	Width int
}

// NewTable validates name and width and returns the table description.
func NewTable(name string, width int) (Table, error) {
	if err := ValidateIdentifier(name); err != nil {
		return Table{}, err
	}
	if width < 1 || width+1 > MaxColumns {
		return Table{}, fmt.Errorf("%w %d: must be between 1 and %d", ErrInvalidWidth, width, MaxColumns-1)
	}
	return Table{Name: name, Width: width}, nil
}

// SampleColumn returns the name of the i-th sample column.
func SampleColumn(i int) string {
	return fmt.Sprintf("col%d", i)
}

// Columns returns the depth column followed by the sample columns.
func (t Table) Columns() []string {
	cols := make([]string, 0, t.Width+1)
	cols = append(cols, DepthColumn)
	for i := 0; i < t.Width; i++ {
		cols = append(cols, SampleColumn(i))
	}
	return cols
}

// Drop returns the DROP TABLE statement.
func (t Table) Drop() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", quote(t.Name))
}

// Create returns the CREATE TABLE statement.
func (t Table) Create() string {
	defs := make([]string, 0, t.Width+1)
	for _, c := range t.Columns() {
		defs = append(defs, c+" REAL")
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quote(t.Name), strings.Join(defs, ", "))
}

// CreateIndex returns the statement indexing the depth column.
func (t Table) CreateIndex() string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", quote(t.Name+"_depth_idx"), quote(t.Name), DepthColumn)
}

// Insert returns the parameterized INSERT statement for one row.
func (t Table) Insert() string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(t.Name),
		strings.Join(t.Columns(), ", "),
		placeholders(t.Width+1))
}

// SelectRange returns the inclusive depth range query.
// Parameters: depth minimum, depth maximum.
//
// Rows come back in ascending depth; equal depths keep insertion order.
func (t Table) SelectRange() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s BETWEEN ? AND ? ORDER BY %s ASC, rowid ASC",
		strings.Join(t.Columns(), ", "),
		quote(t.Name),
		DepthColumn,
		DepthColumn)
}

// Stats returns the row count and depth bounds query.
func (t Table) Stats() string {
	return fmt.Sprintf("SELECT COUNT(*), MIN(%s), MAX(%s) FROM %s", DepthColumn, DepthColumn, quote(t.Name))
}

// TableInfo returns the PRAGMA listing the columns of the named table.
func TableInfo(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return fmt.Sprintf("PRAGMA table_info(%s)", quote(name)), nil
}

// quote wraps an already validated identifier in double quotes so that
// reserved words such as "order" remain usable as table names.
func quote(ident string) string {
	return `"` + ident + `"`
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
