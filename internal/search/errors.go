package search

import (
	"errors"
	"fmt"
)

// ErrUnsupported matches every *UnsupportedError.
var ErrUnsupported = errors.New("unsupported")

// ErrInvalidRequest is returned for requests that can never succeed, such as
// a negative offset.
var ErrInvalidRequest = errors.New("invalid search request")

// UnsupportedError reports a search feature that is recognised but not
// provided.
type UnsupportedError struct {
	Op  string
	Err error
}

func (e *UnsupportedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("search: %s is not supported: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("search: %s is not supported", e.Op)
}

func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }

func (e *UnsupportedError) Unwrap() error { return e.Err }
