package rxstreamtest

import (
	"sync/atomic"

	"github.com/gordian-engine/rxepic/rxstream"
)

// Source is a hot stream that counts its subscriptions,
// for asserting that operators subscribe and release upstreams correctly.
type Source[T any] struct {
	*rxstream.Subject[T]

	subscribes   atomic.Int32
	unsubscribes atomic.Int32
}

// NewSource returns a new, unseeded Source.
func NewSource[T any]() *Source[T] {
	return &Source[T]{Subject: rxstream.NewSubject[T]()}
}

// Subscribe registers obs with the underlying subject
// and counts the subscription and its eventual release.
func (s *Source[T]) Subscribe(obs rxstream.Observer[T]) rxstream.Unsubscriber {
	s.subscribes.Add(1)
	inner := s.Subject.Subscribe(obs)
	return rxstream.NewSubscription(func() {
		s.unsubscribes.Add(1)
		inner.Unsubscribe()
	})
}

// Subscribes returns the number of calls to Subscribe.
func (s *Source[T]) Subscribes() int {
	return int(s.subscribes.Load())
}

// Unsubscribes returns the number of released subscriptions.
func (s *Source[T]) Unsubscribes() int {
	return int(s.unsubscribes.Load())
}

// AsObservable returns an Observable view of s that keeps counting.
func (s *Source[T]) AsObservable() *rxstream.Observable[T] {
	return rxstream.New(s.Subscribe)
}
