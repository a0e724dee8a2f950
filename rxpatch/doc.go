// Package rxpatch contains the patch records published by the middleware
// and the operators for selecting among them.
//
// A [Patch] describes a single change to a state tree:
// an operation kind and the path of the changed node.
// [Of] selects patches by operation kind and path prefix,
// and [Where] selects them with a CEL expression.
//
// Patch streams can be logged with [NewRecorder]
// and read back with [ReadLog],
// and [Diff] and [Apply] convert between state snapshots and patches.
package rxpatch
