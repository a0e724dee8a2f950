package rxpubsub

import (
	"context"
	"sync"

	"github.com/gordian-engine/rxepic/rxstream"
)

// Stream is a linked list of event-driven values.
// The list has a single writer and many readers.
// Readers can each consume the list at their own pace.
//
// Each node is either a value node, with Val and Next set,
// or a terminal node, with Done set and Next nil.
// Both kinds become readable once Ready is closed.
//
// If readers do not actively consume the list,
// the node they observe will never be garbage collected,
// which is a memory leak.
type Stream[T any] struct {
	Ready chan struct{}
	Next  *Stream[T]
	Val   T

	// Done is set on the terminal node.
	// Err is the source's error, or nil if it completed normally.
	Done bool
	Err  error
}

// NewStream returns an initialized pubsub stream.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{
		Ready: make(chan struct{}),
	}
}

// Publish assigns s's value and initializes s.Next.
// Then s.Ready is closed, notifying any observers that
// s.Val can now be safely read.
//
// If Publish or Close has already been called for s, Publish panics.
func (s *Stream[T]) Publish(t T) {
	s.Val = t
	s.Next = NewStream[T]()
	close(s.Ready)
}

// Close marks s as the terminal node, recording err,
// and closes s.Ready.
//
// If Publish or Close has already been called for s, Close panics.
func (s *Stream[T]) Close(err error) {
	s.Done = true
	s.Err = err
	close(s.Ready)
}

// Wait blocks until s is ready or ctx is canceled.
func (s *Stream[T]) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-s.Ready:
		return nil
	}
}

// Observe subscribes to src and publishes every value it emits
// into the returned Stream.
// An error or completion from src closes the stream.
//
// Values emitted synchronously during subscription,
// such as a seeded subject's current value,
// are already published when Observe returns.
//
// The returned handle releases the subscription to src;
// the stream is left open in that case.
func Observe[T any](src rxstream.Subscribable[T]) (*Stream[T], rxstream.Unsubscriber) {
	var (
		mu     sync.Mutex
		closed bool
	)
	head := NewStream[T]()
	cur := head

	sub := src.Subscribe(rxstream.Observer[T]{
		Next: func(v T) {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return
			}
			cur.Publish(v)
			cur = cur.Next
		},
		Error: func(err error) {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return
			}
			closed = true
			cur.Close(err)
		},
		Complete: func() {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return
			}
			closed = true
			cur.Close(nil)
		},
	})

	return head, sub
}
