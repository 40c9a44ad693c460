package server

import (
	"errors"
	"fmt"
)

// BadRequestError reports a query string that does not name a usable depth
// range.
type BadRequestError struct {
	Param string
	Value string
	Msg   string
	Err   error
}

// Error implements the error interface.
func (e *BadRequestError) Error() string {
	msg := fmt.Sprintf("bad request: %s", e.Param)
	if e.Value != "" {
		msg += fmt.Sprintf("=%q", e.Value)
	}
	msg += ": " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BadRequestError) Unwrap() error {
	return e.Err
}

// IsBadRequest returns true if err is or wraps a *BadRequestError.
func IsBadRequest(err error) bool {
	var br *BadRequestError
	return errors.As(err, &br)
}
