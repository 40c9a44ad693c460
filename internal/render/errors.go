package render

import (
	"errors"
	"fmt"
)

// RenderError reports a result set that cannot be drawn: no rows, or rows of
// inconsistent shape.
type RenderError struct {
	Msg string
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render: %s: %v", e.Msg, e.Err)
	}
	return "render: " + e.Msg
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsRenderError returns true if err is or wraps a *RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
