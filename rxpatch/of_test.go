package rxpatch_test

import (
	"testing"

	"github.com/gordian-engine/rxepic/rxpatch"
	"github.com/gordian-engine/rxepic/rxstream"
	"github.com/gordian-engine/rxepic/rxstream/rxstreamtest"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, op rxstream.Operator[rxpatch.Patch, rxpatch.Patch], in ...rxpatch.Patch) *rxstreamtest.Recorder[rxpatch.Patch] {
	t.Helper()

	var r rxstreamtest.Recorder[rxpatch.Patch]
	op(rxstream.Of(in...)).Subscribe(r.Observer())
	return &r
}

func TestOf_zeroMatchIsIdentity(t *testing.T) {
	t.Parallel()

	src := rxstream.NewSubject[rxpatch.Patch]()
	require.Same(t, src, rxpatch.Of(rxpatch.Match{})(src))
}

func TestOf_pathPrefix(t *testing.T) {
	t.Parallel()

	abc := rxpatch.Patch{Op: rxpatch.Add, Path: []string{"a", "b", "c"}}
	x := rxpatch.Patch{Op: rxpatch.Add, Path: []string{"x"}}

	r := collect(t, rxpatch.Of(rxpatch.Match{Op: rxpatch.Add, Path: []string{"a", "b"}}), abc, x)

	require.Equal(t, []rxpatch.Patch{abc}, r.Values())
	require.Equal(t, 1, r.Completed())
}

func TestOf_prefixIsTextual(t *testing.T) {
	t.Parallel()

	// The joined path is a string prefix, not a segment prefix.
	abc := rxpatch.Patch{Op: rxpatch.Replace, Path: []string{"a", "bc"}}

	r := collect(t, rxpatch.Of(rxpatch.Match{Path: []string{"a", "b"}}), abc)
	require.Equal(t, []rxpatch.Patch{abc}, r.Values())
}

func TestOf_ops(t *testing.T) {
	t.Parallel()

	add := rxpatch.Patch{Op: rxpatch.Add, Path: []string{"a"}}
	rep := rxpatch.Patch{Op: rxpatch.Replace, Path: []string{"a"}}
	rem := rxpatch.Patch{Op: rxpatch.Remove, Path: []string{"a"}}

	for _, tc := range []struct {
		name string
		m    rxpatch.Match
		want []rxpatch.Patch
	}{
		{
			name: "single op",
			m:    rxpatch.Match{Op: rxpatch.Remove},
			want: []rxpatch.Patch{rem},
		},
		{
			name: "op set",
			m:    rxpatch.Match{Ops: []rxpatch.Op{rxpatch.Add, rxpatch.Replace}},
			want: []rxpatch.Patch{add, rep},
		},
		{
			name: "ops take precedence over op",
			m:    rxpatch.Match{Op: rxpatch.Remove, Ops: []rxpatch.Op{rxpatch.Add}},
			want: []rxpatch.Patch{add},
		},
		{
			name: "empty op set allows any op",
			m:    rxpatch.Match{Ops: []rxpatch.Op{""}, Path: []string{"a"}},
			want: []rxpatch.Patch{add, rep, rem},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := collect(t, rxpatch.Of(tc.m), add, rep, rem)
			require.Equal(t, tc.want, r.Values())
		})
	}
}

func TestOf_invalidPathReportsError(t *testing.T) {
	t.Parallel()

	r := collect(
		t,
		rxpatch.Of(rxpatch.Match{Path: []string{"a("}}),
		rxpatch.Patch{Op: rxpatch.Add, Path: []string{"a"}},
	)

	require.Empty(t, r.Values())
	require.Len(t, r.Errs(), 1)
	require.ErrorContains(t, r.Errs()[0], "invalid patch path prefix")
}
