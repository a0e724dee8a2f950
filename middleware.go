package rxepic

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gordian-engine/rxepic/internal/rtrace"
	"github.com/gordian-engine/rxepic/rxpatch"
	"github.com/gordian-engine/rxepic/rxstream"
)

// Changeset is what a state container reports for one transition.
type Changeset struct {
	// The ordered changes that produced the new state.
	Patches []rxpatch.Patch
}

// TransitionHandler is returned from [*Middleware.Attach].
// The state container calls it after every state transition.
type TransitionHandler[S any] func(cs Changeset, state S)

// Updater is the optional capability of a state container
// to apply an update callback.
// Containers that do not implement Updater can still be attached,
// but update callbacks emitted by epics are then ignored.
type Updater[S any] interface {
	Update(func(S) S)
}

// Middleware publishes a state container's transitions to epics
// and applies the epics' update callbacks back to the container.
//
// Create a Middleware with [New], attach it to exactly one container
// with [*Middleware.Attach], and then start the epics with [*Middleware.Run].
type Middleware[S, D any] struct {
	log *slog.Logger

	id string

	tracer  rtrace.Tracer
	metrics *Metrics

	opts    Options
	deps    D
	adapter Adapter[S]

	patches *rxstream.Subject[rxpatch.Patch]
	states  *rxstream.Subject[S]

	mu       sync.Mutex
	attached bool
	store    any
	running  bool
	stopped  bool
	sub      rxstream.Unsubscriber
}

// New returns a new Middleware.
// It panics if cfg is invalid or log is nil.
func New[S, D any](log *slog.Logger, cfg Config[S, D]) *Middleware[S, D] {
	cfg.validate(log)

	id := uuid.NewString()

	return &Middleware[S, D]{
		log: log.With("middleware_id", id),

		id: id,

		tracer:  rtrace.NewTracer(cfg.TracerProvider),
		metrics: cfg.Metrics,

		opts:    cfg.Options,
		deps:    cfg.Dependencies,
		adapter: cfg.Adapter,

		patches: rxstream.NewSubject[rxpatch.Patch](),
		states:  rxstream.NewSubject[S](),
	}
}

// ID returns the unique identifier of m, as used in its logs and spans.
func (m *Middleware[S, D]) ID() string {
	return m.id
}

// Patches returns the raw patch stream, before any adapter.
func (m *Middleware[S, D]) Patches() rxstream.Subscribable[rxpatch.Patch] {
	return m.patches
}

// States returns the raw state stream, before any adapter.
func (m *Middleware[S, D]) States() rxstream.Subscribable[S] {
	return m.states
}

// Attach binds m to a state container and returns the handler
// the container must call after each state transition.
// Attach must be called before the first transition.
//
// If store implements [Updater], update callbacks emitted by the root epic
// are applied through it.
//
// In strict mode, a second call returns [ErrAlreadyAttached].
func (m *Middleware[S, D]) Attach(store any) (TransitionHandler[S], error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attached {
		if m.opts.strict() {
			return nil, ErrAlreadyAttached
		}
		m.log.Warn("Replacing attached state container")
	}

	m.attached = true
	m.store = store

	_, canUpdate := store.(Updater[S])
	m.log.Debug(
		"Attached to state container",
		"store_type", fmt.Sprintf("%T", store),
		"can_update", canUpdate,
	)

	return m.handleTransition, nil
}

func (m *Middleware[S, D]) handleTransition(cs Changeset, state S) {
	if m.opts.IgnoreEmptyPatches && len(cs.Patches) == 0 {
		m.metrics.droppedTransition()
		return
	}

	m.mu.Lock()
	stopped := m.stopped
	m.mu.Unlock()
	if stopped {
		// The streams are completing or complete,
		// so publish nothing rather than a partial transition.
		m.metrics.droppedTransition()
		return
	}

	_, span := m.tracer.Start(
		context.Background(), "rxepic.transition",
		rtrace.WithAttributes(
			rtrace.MiddlewareIDAttr(m.id),
			rtrace.PatchCountAttr(len(cs.Patches)),
		),
	)
	defer span.End()

	// State first, so that epics reacting to a patch
	// can already see the state it produced.
	m.states.Next(state)
	for _, p := range cs.Patches {
		m.patches.Next(p)
	}

	m.metrics.transition(len(cs.Patches))
}

// Run starts the root epic.
//
// The epic receives the (adapted) patch and state streams
// and the configured dependencies.
// Every update callback on the returned stream
// is applied to the attached container.
//
// Run returns [ErrNotAttached] if called before Attach in strict mode,
// [ErrNoRootEpic] if root is nil in strict mode,
// [ErrAlreadyRunning] if a root epic was already started,
// [ErrStopped] after [*Middleware.Stop],
// and an [*EpicContractError] if the epic fails or returns no stream.
// A failed Run may be retried with another epic.
func (m *Middleware[S, D]) Run(root Epic[S, D]) error {
	if err := m.beginRun(root); err != nil {
		return err
	}
	if root == nil {
		// Lenient mode without an epic.
		return nil
	}

	name := epicName(root)

	_, span := m.tracer.Start(
		context.Background(), "rxepic.run",
		rtrace.WithAttributes(
			rtrace.MiddlewareIDAttr(m.id),
			rtrace.EpicAttr(name),
		),
	)
	defer span.End()

	out, err := runEpic(
		root,
		m.adapter.patches(m.patches),
		m.adapter.states(m.states),
		m.deps,
	)
	if err != nil {
		rtrace.SpanError(span, err)
		span.SetAttributes(rtrace.ErrorAttr(err))
		m.log.Info("Root epic failed to start", "epic", name, "err", err)

		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		return err
	}

	sub := out.Subscribe(rxstream.Observer[func(S) S]{
		Next: m.applyUpdate,
		Error: func(err error) {
			m.metrics.epicError()
			m.log.Error("Root epic stream failed", "epic", name, "err", err)
		},
		Complete: func() {
			m.log.Debug("Root epic stream completed", "epic", name)
		},
	})

	m.mu.Lock()
	m.sub = sub
	m.mu.Unlock()

	m.log.Debug("Started root epic", "epic", name)
	return nil
}

// beginRun checks the preconditions for Run
// and marks m as running if they hold.
func (m *Middleware[S, D]) beginRun(root Epic[S, D]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return ErrStopped
	}

	strict := m.opts.strict()

	if !m.attached {
		if strict {
			return ErrNotAttached
		}
		m.log.Warn("Running root epic before attaching; updates are dropped until attached")
	}

	if root == nil {
		if strict {
			return ErrNoRootEpic
		}
		m.log.Debug("Run called without a root epic; nothing to do")
		return nil
	}

	if m.running {
		return ErrAlreadyRunning
	}
	m.running = true

	return nil
}

func (m *Middleware[S, D]) applyUpdate(fn func(S) S) {
	m.mu.Lock()
	store := m.store
	m.mu.Unlock()

	u, ok := store.(Updater[S])
	if !ok {
		// Tolerate containers without the update capability.
		return
	}

	u.Update(fn)
	m.metrics.update()
}

// Stop completes the patch and state streams,
// giving epics a chance to emit final updates,
// and then releases the subscription to the root epic's output.
//
// Transitions reported from the moment Stop is called are not published,
// though update callbacks the epics emit while completing
// are still applied to the container.
func (m *Middleware[S, D]) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()

	m.states.Complete()
	m.patches.Complete()

	m.mu.Lock()
	sub := m.sub
	m.sub = nil
	m.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}

	m.log.Debug("Stopped")
}
