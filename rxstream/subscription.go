package rxstream

import "sync/atomic"

// Unsubscriber is the minimal handle returned from subscribing to a stream.
// [*Subscription] is the implementation used throughout this module,
// but foreign streams may return their own handle types.
type Unsubscriber interface {
	Unsubscribe()
}

// Subscription represents one observer's registration with a stream.
// It owns a single teardown function
// which runs at most once, regardless of how many times,
// or from how many goroutines, Unsubscribe is called.
type Subscription struct {
	teardown func()

	closed atomic.Bool
}

// NewSubscription returns a Subscription that calls teardown
// on the first call to [*Subscription.Unsubscribe].
// A nil teardown is allowed, for streams with nothing to release.
func NewSubscription(teardown func()) *Subscription {
	return &Subscription{teardown: teardown}
}

// Unsubscribe runs the teardown function if it has not already run.
//
// If the teardown function panics, the panic propagates to the caller,
// and the Subscription is still considered closed.
func (s *Subscription) Unsubscribe() {
	if s.closed.Swap(true) {
		return
	}

	if s.teardown != nil {
		s.teardown()
	}
}

// Closed reports whether Unsubscribe has been called.
func (s *Subscription) Closed() bool {
	return s.closed.Load()
}
