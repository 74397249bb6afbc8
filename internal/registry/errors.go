package registry

import (
	"errors"
	"fmt"
)

// ErrInvalidDescriptor wraps every registration-time invariant violation.
var ErrInvalidDescriptor = errors.New("invalid operation descriptor")

// DuplicateOperationError is returned when a name is registered twice.
type DuplicateOperationError struct {
	Name string
}

func (e *DuplicateOperationError) Error() string {
	return fmt.Sprintf("operation %q is already registered", e.Name)
}

// UnknownOperationError is returned when a name has no registration.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}
