package store

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/depthview/internal/model"
	"github.com/roach88/depthview/internal/querysql"
)

// ReplaceTable drops the named table, recreates it with width sample columns
// and inserts rows, all in one transaction. Any prior data under name is lost.
//
// Rows are validated before anything is written: a row whose sample count is
// not width fails with *SchemaError and leaves the database untouched.
func (s *Store) ReplaceTable(ctx context.Context, name string, width int, rows []model.Row) error {
	tbl, err := querysql.NewTable(name, width)
	if err != nil {
		return &SchemaError{Table: name, Msg: "invalid table definition", Err: err}
	}
	for i, r := range rows {
		if len(r.Samples) != width {
			return &SchemaError{
				Table: name,
				Msg:   fmt.Sprintf("row %d has %d samples, table width is %d", i, len(r.Samples), width),
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace table: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, stmt := range []string{tbl.Drop(), tbl.Create(), tbl.CreateIndex()} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("replace table: %w", err)
		}
	}

	ins, err := tx.PrepareContext(ctx, tbl.Insert())
	if err != nil {
		return fmt.Errorf("replace table: prepare insert: %w", err)
	}
	defer ins.Close()

	args := make([]any, width+1)
	for i, r := range rows {
		args[0] = r.Depth
		for j, v := range r.Samples {
			args[j+1] = sqlValue(v)
		}
		if _, err := ins.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("replace table: insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace table: commit: %w", err)
	}
	return nil
}

// sqlValue maps NaN to NULL.
func sqlValue(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
