package rxstream_test

import (
	"errors"
	"testing"

	"github.com/gordian-engine/rxepic/rxstream"
	"github.com/gordian-engine/rxepic/rxstream/rxstreamtest"
	"github.com/stretchr/testify/require"
)

func TestMerge_singleSourceIdentity(t *testing.T) {
	t.Parallel()

	src := rxstream.NewSubject[int]()
	require.Same(t, src, rxstream.Merge[int](src))
}

func TestMerge_forwardsEverySource(t *testing.T) {
	t.Parallel()

	a := rxstreamtest.NewSource[int]()
	b := rxstreamtest.NewSource[int]()
	c := rxstreamtest.NewSource[int]()

	m := rxstream.Merge[int](a, b, c)

	var r rxstreamtest.Recorder[int]
	sub := m.Subscribe(r.Observer())

	require.Equal(t, 1, a.Subscribes())
	require.Equal(t, 1, b.Subscribes())
	require.Equal(t, 1, c.Subscribes())

	b.Next(2)
	a.Next(1)
	c.Next(3)
	b.Next(4)

	// Each emission is seen exactly once, in call-stack order.
	require.Equal(t, []int{2, 1, 3, 4}, r.Values())

	sub.Unsubscribe()
	require.Equal(t, 1, a.Unsubscribes())
	require.Equal(t, 1, b.Unsubscribes())
	require.Equal(t, 1, c.Unsubscribes())

	a.Next(5)
	require.Equal(t, []int{2, 1, 3, 4}, r.Values())

	// Idempotent.
	sub.Unsubscribe()
	require.Equal(t, 1, a.Unsubscribes())
}

func TestMerge_terminalEventsAreForwardedVerbatim(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	a := rxstream.NewSubject[int]()
	b := rxstream.NewSubject[int]()

	var r rxstreamtest.Recorder[int]
	rxstream.Merge[int](a, b).Subscribe(r.Observer())

	a.Complete()
	b.Next(1)
	b.Error(boom)

	// No completion bookkeeping across sources:
	// every event reaches the observer as-is.
	require.Equal(t, 1, r.Completed())
	require.Equal(t, []int{1}, r.Values())
	require.Equal(t, []error{boom}, r.Errs())
}

func TestMerge_zeroSources(t *testing.T) {
	t.Parallel()

	m := rxstream.Merge[int]()
	require.NotNil(t, m)

	var r rxstreamtest.Recorder[int]
	sub := m.Subscribe(r.Observer())
	require.NotPanics(t, sub.Unsubscribe)
	require.Empty(t, r.Values())
}

func TestMerge_coldSources(t *testing.T) {
	t.Parallel()

	var r rxstreamtest.Recorder[string]
	rxstream.Merge[string](rxstream.Of("a", "b"), rxstream.Of("c")).Subscribe(r.Observer())

	require.Equal(t, []string{"a", "b", "c"}, r.Values())
	require.Equal(t, 2, r.Completed())
}
