package configs

import (
	"errors"
	"fmt"
)

var ErrValueNotFound = errors.New("value not found")

// LoadError reports a file that failed to compile or validate, or a value that failed to decode.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
