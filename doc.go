// Package rxepic connects a state container to "epics":
// functions that observe the container's changes as streams
// and respond with update callbacks.
//
// A [Middleware] is attached once to a host state container with
// [*Middleware.Attach], which returns the handler the host calls
// on every state transition.
// Each transition publishes the new state and then each of its patches,
// in order, into two hot streams.
//
// [*Middleware.Run] passes those streams, along with the configured
// dependencies, to a root epic, and applies every update callback
// the epic emits back to the container.
// Use [CombineEpics] to build a root epic out of several smaller ones.
//
// The stream primitives live in the rxstream package,
// and the patch model and patch operators live in the rxpatch package.
package rxepic
