package rxepic

import (
	"errors"
	"log/slog"

	"github.com/gordian-engine/rxepic/rxpatch"
	"github.com/gordian-engine/rxepic/rxstream"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Config is the configuration passed to [New].
type Config[S, D any] struct {
	Options

	// Passed as-is to the root epic.
	Dependencies D

	// Optionally transforms the raw streams before epics see them.
	Adapter Adapter[S]

	// If nil, spans are not recorded.
	TracerProvider oteltrace.TracerProvider

	// If nil, metrics are not recorded.
	Metrics *Metrics
}

// Adapter transforms the middleware's streams before they reach the root epic,
// for instance to wrap them in another stream library's types.
// A nil field leaves that stream unchanged.
type Adapter[S any] struct {
	Patches func(rxstream.Subscribable[rxpatch.Patch]) rxstream.Subscribable[rxpatch.Patch]
	States  func(rxstream.Subscribable[S]) rxstream.Subscribable[S]
}

func (a Adapter[S]) patches(s rxstream.Subscribable[rxpatch.Patch]) rxstream.Subscribable[rxpatch.Patch] {
	if a.Patches == nil {
		return s
	}
	return a.Patches(s)
}

func (a Adapter[S]) states(s rxstream.Subscribable[S]) rxstream.Subscribable[S] {
	if a.States == nil {
		return s
	}
	return a.States(s)
}

// validate panics if there are any illegal settings in the configuration.
func (c Config[S, D]) validate(log *slog.Logger) {
	// Collect every problem so the panic is maximally helpful.
	var panicErrs error

	if log == nil {
		panicErrs = errors.Join(
			panicErrs,
			errors.New("log may not be nil"),
		)
	}

	if err := c.Options.Validate(); err != nil {
		panicErrs = errors.Join(panicErrs, err)
	}

	if panicErrs != nil {
		panic(panicErrs)
	}
}
