package rxepic

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/gordian-engine/rxepic/rxpatch"
	"github.com/gordian-engine/rxepic/rxstream"
)

// Epic observes the patch and state streams of a [Middleware]
// and returns a stream of update callbacks to apply to the state container.
//
// S is the state type and D is the type of the dependency bag
// configured on the middleware.
//
// An epic must return a non-nil stream or an error.
// Returning an error (or no stream) is a wiring failure
// and is reported synchronously by [CombineEpics] or [*Middleware.Run].
type Epic[S, D any] func(
	patches rxstream.Subscribable[rxpatch.Patch],
	states rxstream.Subscribable[S],
	deps D,
) (rxstream.Subscribable[func(S) S], error)

// CombineEpics returns an epic that runs every given epic
// with the same arguments and merges their outputs.
//
// If any epic is nil, fails or returns no stream,
// the combined epic returns an [*EpicContractError] naming it,
// and none of the successfully returned streams are subscribed.
func CombineEpics[S, D any](epics ...Epic[S, D]) Epic[S, D] {
	return func(
		patches rxstream.Subscribable[rxpatch.Patch],
		states rxstream.Subscribable[S],
		deps D,
	) (rxstream.Subscribable[func(S) S], error) {
		outs := make([]rxstream.Subscribable[func(S) S], 0, len(epics))
		for _, epic := range epics {
			out, err := runEpic(epic, patches, states, deps)
			if err != nil {
				return nil, err
			}
			outs = append(outs, out)
		}

		return rxstream.Merge(outs...), nil
	}
}

// runEpic calls epic and validates its result.
func runEpic[S, D any](
	epic Epic[S, D],
	patches rxstream.Subscribable[rxpatch.Patch],
	states rxstream.Subscribable[S],
	deps D,
) (rxstream.Subscribable[func(S) S], error) {
	if epic == nil {
		return nil, &EpicContractError{Err: ErrNilEpic}
	}

	out, err := epic(patches, states, deps)
	if err != nil {
		return nil, &EpicContractError{Epic: epicName(epic), Err: err}
	}

	if out == nil {
		return nil, &EpicContractError{Epic: epicName(epic), Err: ErrNoStream}
	}

	// Catches typed nils, such as a nil *rxstream.Observable.
	s, err := rxstream.Lookup[func(S) S](out)
	if err != nil {
		return nil, &EpicContractError{Epic: epicName(epic), Err: err}
	}

	return s, nil
}

// epicName returns the short function name of epic,
// e.g. "todos.saveEpic" or "todos.New.func1".
func epicName(epic any) string {
	v := reflect.ValueOf(epic)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}

	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return ""
	}

	name := fn.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
