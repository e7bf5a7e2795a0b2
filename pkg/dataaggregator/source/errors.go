package source

import (
	"errors"
	"fmt"
)

var UnsupportedSourceError = errors.New("source does not support this query")

// ValidationError is bad caller input, reported before any exchange happens
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TransportError is a failed upstream exchange: no response or a non-2xx status
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s returned status %d", e.Endpoint, e.StatusCode)
	}

	return fmt.Sprintf("upstream %s unreachable: %s", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AdapterError is the single failure an adapter reports for an operation
type AdapterError struct {
	Adapter   string
	Operation string
	Err       error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", e.Adapter, e.Operation, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
