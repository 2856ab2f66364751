// Package input turns external input into toast requests.
package input

import (
	"context"

	"github.com/jmylchreest/toasty/internal/model"
)

// Handler receives each request read from a source. Returning an error stops
// the source.
type Handler func(r *model.Request) error

// Source produces toast requests.
type Source interface {
	// Name returns the source identifier (e.g., "stdin").
	Name() string

	// Run reads until the input ends, ctx is done or handler fails.
	Run(ctx context.Context, handler Handler) error
}

// AdapterError represents an input error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
