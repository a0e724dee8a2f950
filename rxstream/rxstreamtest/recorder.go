// Package rxstreamtest contains fixtures for tests involving rxstream values.
package rxstreamtest

import (
	"slices"
	"sync"

	"github.com/gordian-engine/rxepic/rxstream"
)

// Recorder accumulates every event delivered to its observer.
// It is safe for concurrent use.
type Recorder[T any] struct {
	mu sync.Mutex

	values    []T
	errs      []error
	completed int
}

// Observer returns an observer that records into r.
func (r *Recorder[T]) Observer() rxstream.Observer[T] {
	return rxstream.Observer[T]{
		Next: func(v T) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.values = append(r.values, v)
		},
		Error: func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		},
		Complete: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.completed++
		},
	}
}

// Values returns a copy of the values received so far.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.values)
}

// Errs returns a copy of the errors received so far.
func (r *Recorder[T]) Errs() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.errs)
}

// Completed returns the number of completion events received.
func (r *Recorder[T]) Completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}
