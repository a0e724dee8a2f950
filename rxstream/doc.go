// Package rxstream contains a minimal push-based reactive stream model.
//
// The three building blocks are [Observable], a cold stream that re-runs
// its subscribe function for every subscriber;
// [Subject], a hot stream that multicasts every value to all
// currently registered observers;
// and [Subscription], the handle used to release a registration.
//
// All delivery is synchronous and happens on the caller's stack.
// Nothing in this package starts goroutines;
// see the rxpubsub package for bridging streams to goroutine consumers.
//
// Any value exposing a Subscribe method with the [Subscribable] signature
// is treated as a stream, so foreign implementations interoperate
// without depending on the concrete types here.
package rxstream
