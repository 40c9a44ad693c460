package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/roach88/depthview/internal/model"
	"github.com/roach88/depthview/internal/querysql"
)

// TableStats summarizes a depth table.
type TableStats struct {
	Rows     int
	MinDepth float64 // NaN when the table is empty
	MaxDepth float64 // NaN when the table is empty
}

// QueryRange returns every record with depthMin <= depth <= depthMax.
// Results are ordered by depth ascending; see the package documentation.
//
// Returns an empty slice (not nil fields) when nothing matches, including
// when depthMin > depthMax. A missing table fails with *SchemaError.
func (s *Store) QueryRange(ctx context.Context, name string, depthMin, depthMax float64) (model.Slice, error) {
	width, err := s.TableWidth(ctx, name)
	if err != nil {
		return model.Slice{}, err
	}
	tbl := querysql.Table{Name: name, Width: width}

	rows, err := s.db.QueryContext(ctx, tbl.SelectRange(), depthMin, depthMax)
	if err != nil {
		return model.Slice{}, fmt.Errorf("query range: %w", err)
	}
	defer rows.Close()

	vals := make([]sql.NullFloat64, width+1)
	dest := make([]any, width+1)
	for i := range vals {
		dest[i] = &vals[i]
	}

	result := model.EmptySlice()
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return model.Slice{}, fmt.Errorf("scan range row: %w", err)
		}
		samples := make([]float64, width)
		for i := range samples {
			samples[i] = floatValue(vals[i+1])
		}
		result.Depths = append(result.Depths, floatValue(vals[0]))
		result.Samples = append(result.Samples, samples)
	}

	if err := rows.Err(); err != nil {
		return model.Slice{}, fmt.Errorf("iterate range rows: %w", err)
	}

	return result, nil
}

// TableWidth returns the number of sample columns of the named table.
// Fails with *SchemaError if the table does not exist or does not start with
// a depth column.
func (s *Store) TableWidth(ctx context.Context, name string) (int, error) {
	pragma, err := querysql.TableInfo(name)
	if err != nil {
		return 0, &SchemaError{Table: name, Msg: "invalid table name", Err: err}
	}

	rows, err := s.db.QueryContext(ctx, pragma)
	if err != nil {
		return 0, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid     int
			colName string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
			return 0, fmt.Errorf("scan table info: %w", err)
		}
		columns = append(columns, colName)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate table info: %w", err)
	}

	if len(columns) == 0 {
		return 0, &SchemaError{Table: name, Msg: "table does not exist"}
	}
	if columns[0] != querysql.DepthColumn {
		return 0, &SchemaError{Table: name, Msg: fmt.Sprintf("first column is %q, want %q", columns[0], querysql.DepthColumn)}
	}
	for i, c := range columns[1:] {
		if c != querysql.SampleColumn(i) {
			return 0, &SchemaError{Table: name, Msg: fmt.Sprintf("column %d is %q, want %q", i+1, c, querysql.SampleColumn(i))}
		}
	}
	if len(columns) == 1 {
		return 0, &SchemaError{Table: name, Msg: "table has no sample columns"}
	}
	return len(columns) - 1, nil
}

// Stats returns the row count and depth bounds of the named table.
func (s *Store) Stats(ctx context.Context, name string) (TableStats, error) {
	width, err := s.TableWidth(ctx, name)
	if err != nil {
		return TableStats{}, err
	}
	tbl := querysql.Table{Name: name, Width: width}

	var (
		count              int
		minDepth, maxDepth sql.NullFloat64
	)
	if err := s.db.QueryRowContext(ctx, tbl.Stats()).Scan(&count, &minDepth, &maxDepth); err != nil {
		return TableStats{}, fmt.Errorf("table stats: %w", err)
	}
	return TableStats{Rows: count, MinDepth: floatValue(minDepth), MaxDepth: floatValue(maxDepth)}, nil
}

// floatValue maps NULL to NaN.
func floatValue(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
