package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable is returned when a catalog source cannot be read or fetched.
	ErrUnreachable = errors.New("catalog source unreachable")
	// ErrMalformed is returned when a catalog source cannot be parsed or holds invalid records.
	ErrMalformed = errors.New("catalog source malformed")
)

// LoadError reports which catalog source failed to load.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
