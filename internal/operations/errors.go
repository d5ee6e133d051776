package operations

import (
	"fmt"
	"strings"
)

// UnsupportedOperationError reports a dispatch for an operation kind that
// does not exist. It carries the supported set so callers can surface it.
type UnsupportedOperationError struct {
	Operation string
	Supported []string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation not supported: %s", e.Operation)
}

// MissingParamsError reports required parameters absent from a dispatch
// request. Missing lists exactly the absent names in declaration order.
type MissingParamsError struct {
	Operation Kind
	Missing   []string
}

func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("missing required parameters: %s for operation %s",
		strings.Join(e.Missing, ", "), e.Operation)
}
