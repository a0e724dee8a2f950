package rxepic

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyAttached is returned from [*Middleware.Attach]
	// when the middleware is already attached to a container.
	// A Middleware is not reusable across containers.
	ErrAlreadyAttached = errors.New("middleware is already attached to a state container")

	// ErrNotAttached is returned from [*Middleware.Run]
	// when it is called before [*Middleware.Attach].
	ErrNotAttached = errors.New("middleware run before being attached to a state container")

	// ErrNoRootEpic is returned from [*Middleware.Run] when given a nil epic.
	ErrNoRootEpic = errors.New("no root epic provided to Run")

	// ErrAlreadyRunning is returned from [*Middleware.Run]
	// after a root epic has already been started.
	ErrAlreadyRunning = errors.New("a root epic is already running")

	// ErrStopped is returned from [*Middleware.Run]
	// after [*Middleware.Stop] has been called.
	ErrStopped = errors.New("middleware is stopped")

	// ErrNilEpic is wrapped in an [*EpicContractError]
	// when [CombineEpics] is given a nil epic.
	ErrNilEpic = errors.New("nil epic")

	// ErrNoStream is wrapped in an [*EpicContractError]
	// when an epic returns neither a stream nor an error.
	ErrNoStream = errors.New("epic returned no stream")
)

// EpicContractError reports an epic that did not honor its contract:
// it returned an error, no stream,
// or a value without the Subscribe capability.
type EpicContractError struct {
	// Name of the offending epic's function, if known.
	Epic string

	Err error
}

func (e *EpicContractError) Error() string {
	if e.Epic == "" {
		return fmt.Sprintf("epic contract violation: %v", e.Err)
	}
	return fmt.Sprintf("epic %s: %v", e.Epic, e.Err)
}

func (e *EpicContractError) Unwrap() error {
	return e.Err
}
