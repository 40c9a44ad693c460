package store

import (
	"errors"
	"fmt"
)

// SchemaError reports a table name, width or row shape that does not fit the
// depth table schema, or a table that does not exist.
type SchemaError struct {
	Table string
	Msg   string
	Err   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema: table %q: %s: %v", e.Table, e.Msg, e.Err)
	}
	return fmt.Sprintf("schema: table %q: %s", e.Table, e.Msg)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsSchemaError returns true if err is or wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
