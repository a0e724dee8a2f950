package rxstream_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/gordian-engine/rxepic/rxstream"
	"github.com/gordian-engine/rxepic/rxstream/rxstreamtest"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	t.Parallel()

	o := rxstream.Of(1, 2, 3)

	for range 2 {
		var r rxstreamtest.Recorder[int]
		o.Subscribe(r.Observer())
		require.Equal(t, []int{1, 2, 3}, r.Values())
		require.Equal(t, 1, r.Completed())
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	src := rxstreamtest.NewSource[int]()
	even := rxstream.Filter(func(v int) (bool, error) {
		return v%2 == 0, nil
	})

	var r rxstreamtest.Recorder[int]
	sub := even(src).Subscribe(r.Observer())

	for i := range 6 {
		src.Next(i)
	}
	require.Equal(t, []int{0, 2, 4}, r.Values())

	sub.Unsubscribe()
	require.Equal(t, 1, src.Unsubscribes())
}

func TestFilter_predicateErrorForwarded(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := rxstream.NewSubject[int]()
	f := rxstream.Filter(func(v int) (bool, error) {
		if v < 0 {
			return false, boom
		}
		return true, nil
	})

	var r rxstreamtest.Recorder[int]
	f(src).Subscribe(r.Observer())

	require.NotPanics(t, func() {
		src.Next(1)
		src.Next(-1)
	})

	require.Equal(t, []int{1}, r.Values())
	require.Len(t, r.Errs(), 1)
	require.ErrorIs(t, r.Errs()[0], boom)
}

func TestFilter_predicatePanicForwarded(t *testing.T) {
	t.Parallel()

	src := rxstream.NewSubject[int]()
	f := rxstream.Filter(func(int) (bool, error) {
		panic("nope")
	})

	var r rxstreamtest.Recorder[int]
	f(src).Subscribe(r.Observer())

	require.NotPanics(t, func() { src.Next(1) })
	require.Len(t, r.Errs(), 1)
	require.ErrorContains(t, r.Errs()[0], "nope")
}

func TestMap(t *testing.T) {
	t.Parallel()

	toString := rxstream.Map(strconv.Itoa)

	var r rxstreamtest.Recorder[string]
	toString(rxstream.Of(1, 2)).Subscribe(r.Observer())

	require.Equal(t, []string{"1", "2"}, r.Values())
	require.Equal(t, 1, r.Completed())
}

func TestPipe(t *testing.T) {
	t.Parallel()

	positive := rxstream.Filter(func(v int) (bool, error) { return v > 0, nil })
	double := rxstream.Map(func(v int) int { return v * 2 })

	var r rxstreamtest.Recorder[int]
	rxstream.Pipe[int](rxstream.Of(-1, 1, 2), positive, double).Subscribe(r.Observer())

	require.Equal(t, []int{2, 4}, r.Values())
}
