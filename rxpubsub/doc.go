// Package rxpubsub bridges rxstream values and goroutines.
//
// The rxstream package delivers synchronously on the emitter's stack.
// When a consumer instead wants to read values at its own pace
// from its own goroutine, [Observe] publishes a stream into a [Stream],
// a single-writer, many-reader linked list.
//
// In the other direction, [FromChannel] turns a channel into an
// Observable, which is the usual way for an epic to emit
// update callbacks from background work.
package rxpubsub
