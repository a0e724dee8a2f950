package rxstream

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// compactMinSlots is the minimum number of registration slots
// before a Subject considers compacting its registry.
const compactMinSlots = 32

// Subject is a hot, multicast stream that is also an observer.
// Every value passed to [*Subject.Next] is delivered
// to every observer registered at that moment, in registration order.
//
// A Subject created with [NewSeededSubject] also tracks a current value,
// which it delivers to each new subscriber ahead of any later value.
// Values emitted while that delivery is in progress,
// from any goroutine, are queued and delivered to the new subscriber in order.
//
// After [*Subject.Error] or [*Subject.Complete], the Subject is terminated:
// its registry is cleared, further Next/Error/Complete calls are ignored,
// and new subscribers receive nothing.
//
// The registry is safe for concurrent use,
// but observers are always called without any lock held,
// so an observer may subscribe, unsubscribe or emit re-entrantly.
type Subject[T any] struct {
	mu sync.Mutex

	// Registrations indexed by slot.
	// Slots are assigned in registration order,
	// and live tracks which slots have not been unsubscribed.
	regs []*registration[T]
	live *bitset.BitSet

	// Count of deliveries in progress.
	// Slots must not move while this is nonzero.
	delivering int

	seeded bool
	value  T

	terminated bool
	err        error
}

// registration fields other than obs are guarded by the subject's mutex.
type registration[T any] struct {
	obs  Observer[T]
	slot uint

	removed bool

	// Set while the current value is being replayed to a new subscriber.
	// Deliveries meanwhile are held in queue and end.
	pending bool
	queue   []T
	end     *termination
}

func (r *registration[T]) terminate(t termination) {
	if t.failed {
		r.obs.Error(t.err)
	} else {
		r.obs.Complete()
	}
}

type termination struct {
	failed bool
	err    error
}

// NewSubject returns an unseeded Subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{
		live: bitset.New(0),
	}
}

// NewSeededSubject returns a Subject whose current value starts at seed.
// Each new subscriber immediately receives the current value.
func NewSeededSubject[T any](seed T) *Subject[T] {
	return &Subject[T]{
		live: bitset.New(0),

		seeded: true,
		value:  seed,
	}
}

// Subscribe registers obs with s.
// If s is seeded, obs.Next is first called with the current value.
//
// The returned handle removes this particular registration;
// subscribing the same callbacks twice yields two independent registrations.
func (s *Subject[T]) Subscribe(obs Observer[T]) Unsubscriber {
	obs = obs.normalized()

	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return closedSubscription()
	}

	reg := &registration[T]{
		obs:     obs,
		slot:    uint(len(s.regs)),
		pending: s.seeded,
	}
	s.regs = append(s.regs, reg)
	s.live.Set(reg.slot)

	seeded, cur := s.seeded, s.value
	s.mu.Unlock()

	if seeded {
		obs.Next(cur)
		s.drain(reg)
	}

	return NewSubscription(func() {
		s.remove(reg)
	})
}

// drain delivers whatever was queued for reg during its replay,
// until the queue is empty and reg can receive values directly.
func (s *Subject[T]) drain(reg *registration[T]) {
	for {
		s.mu.Lock()
		if reg.removed {
			reg.queue, reg.end = nil, nil
			s.mu.Unlock()
			return
		}

		q, end := reg.queue, reg.end
		reg.queue, reg.end = nil, nil
		if len(q) == 0 && end == nil {
			reg.pending = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		for _, v := range q {
			reg.obs.Next(v)
		}
		if end != nil {
			reg.terminate(*end)
			return
		}
	}
}

// AsObservable returns an Observable view of s,
// for APIs that expect the concrete Observable type.
func (s *Subject[T]) AsObservable() *Observable[T] {
	return New(s.Subscribe)
}

// Next delivers v to every registered observer.
// If s is seeded, v becomes the current value first.
func (s *Subject[T]) Next(v T) {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return
	}
	if s.seeded {
		s.value = v
	}
	snap := s.snapshot()
	s.delivering++
	s.mu.Unlock()

	defer s.endDelivery()

	for _, reg := range snap {
		s.deliverNext(reg, v)
	}
}

// Error delivers err to every registered observer,
// then terminates s.
func (s *Subject[T]) Error(err error) {
	snap, ok := s.terminate(err)
	if !ok {
		return
	}

	for _, reg := range snap {
		s.deliverEnd(reg, termination{failed: true, err: err})
	}
}

// Complete delivers completion to every registered observer,
// then terminates s.
func (s *Subject[T]) Complete() {
	snap, ok := s.terminate(nil)
	if !ok {
		return
	}

	for _, reg := range snap {
		s.deliverEnd(reg, termination{})
	}
}

// Value returns the current value and whether s is seeded.
// The value is only meaningful when s is seeded;
// before any call to Next it is the seed.
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.seeded
}

// Terminated reports whether Error or Complete has been called.
func (s *Subject[T]) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

// Err returns the error s was terminated with,
// or nil if s is live or was completed normally.
func (s *Subject[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ObserverCount returns the number of currently registered observers.
func (s *Subject[T]) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.live.Count())
}

// terminate marks s terminated, clears the registry,
// and returns the observers that were registered.
// The boolean result is false if s was already terminated.
func (s *Subject[T]) terminate(err error) ([]*registration[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return nil, false
	}

	snap := s.snapshot()

	s.terminated = true
	s.err = err
	clear(s.regs)
	s.regs = nil
	s.live.ClearAll()

	return snap, true
}

// snapshot returns the live registrations in slot order.
// The caller must hold s.mu.
func (s *Subject[T]) snapshot() []*registration[T] {
	out := make([]*registration[T], 0, s.live.Count())
	for i, ok := s.live.NextSet(0); ok; i, ok = s.live.NextSet(i + 1) {
		out = append(out, s.regs[i])
	}
	return out
}

// deliverNext calls reg's Next with v,
// unless an earlier observer unsubscribed reg during this delivery
// or reg is still receiving its replay.
func (s *Subject[T]) deliverNext(reg *registration[T], v T) {
	s.mu.Lock()
	if reg.removed {
		s.mu.Unlock()
		return
	}
	if reg.pending {
		reg.queue = append(reg.queue, v)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	reg.obs.Next(v)
}

// deliverEnd is the terminal counterpart of deliverNext.
func (s *Subject[T]) deliverEnd(reg *registration[T], t termination) {
	s.mu.Lock()
	if reg.removed {
		s.mu.Unlock()
		return
	}
	if reg.pending {
		reg.end = &t
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	reg.terminate(t)
}

func (s *Subject[T]) remove(reg *registration[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reg.removed {
		return
	}
	reg.removed = true

	if reg.slot >= uint(len(s.regs)) || s.regs[reg.slot] != reg {
		// The subject terminated and cleared its registry.
		return
	}

	s.regs[reg.slot] = nil
	s.live.Clear(reg.slot)

	s.maybeCompact()
}

func (s *Subject[T]) endDelivery() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delivering--
	s.maybeCompact()
}

// maybeCompact drops dead slots once most of the registry is unused.
// The caller must hold s.mu.
func (s *Subject[T]) maybeCompact() {
	if s.delivering > 0 || len(s.regs) < compactMinSlots {
		return
	}

	n := s.live.Count()
	if n*2 >= uint(len(s.regs)) {
		return
	}

	// Writing to index j never overtakes reading from index i,
	// so compacting in place is safe.
	kept := s.regs[:0]
	for i, ok := s.live.NextSet(0); ok; i, ok = s.live.NextSet(i + 1) {
		reg := s.regs[i]
		reg.slot = uint(len(kept))
		kept = append(kept, reg)
	}
	clear(s.regs[len(kept):])
	s.regs = kept

	s.live.ClearAll()
	for i := range kept {
		s.live.Set(uint(i))
	}
}

func closedSubscription() *Subscription {
	sub := NewSubscription(nil)
	sub.Unsubscribe()
	return sub
}
