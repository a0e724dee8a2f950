package rxpatch_test

import (
	"testing"

	"github.com/gordian-engine/rxepic/rxpatch"
	"github.com/stretchr/testify/require"
)

func TestWhere(t *testing.T) {
	t.Parallel()

	todo := rxpatch.Patch{Op: rxpatch.Add, Path: []string{"todos", "1"}, Value: "milk"}
	done := rxpatch.Patch{Op: rxpatch.Replace, Path: []string{"todos", "1", "done"}, Value: true}
	name := rxpatch.Patch{Op: rxpatch.Replace, Path: []string{"user", "name"}, Value: "ann"}
	gone := rxpatch.Patch{Op: rxpatch.Remove, Path: []string{"user"}}

	for _, tc := range []struct {
		expr string
		want []rxpatch.Patch
	}{
		{expr: "", want: []rxpatch.Patch{todo, done, name, gone}},
		{expr: `op == "replace"`, want: []rxpatch.Patch{done, name}},
		{expr: `path_str.startsWith("todos.")`, want: []rxpatch.Patch{todo, done}},
		{expr: `size(path) == 1`, want: []rxpatch.Patch{gone}},
		{expr: `path[0] == "user" && op != "remove"`, want: []rxpatch.Patch{name}},
		{expr: `value == true`, want: []rxpatch.Patch{done}},
	} {
		t.Run(tc.expr, func(t *testing.T) {
			t.Parallel()

			op, err := rxpatch.Where(tc.expr)
			require.NoError(t, err)

			r := collect(t, op, todo, done, name, gone)
			require.Equal(t, tc.want, r.Values())
			require.Empty(t, r.Errs())
		})
	}
}

func TestWhere_compileErrors(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{
		`op ==`,
		`unknown_var == 1`,
		`path_str`,
	} {
		_, err := rxpatch.Where(expr)
		require.Error(t, err, expr)
	}
}

func TestWhere_evalErrorForwarded(t *testing.T) {
	t.Parallel()

	// Indexing past the end of the path fails at evaluation time.
	op, err := rxpatch.Where(`path[3] == "x"`)
	require.NoError(t, err)

	r := collect(t, op, rxpatch.Patch{Op: rxpatch.Add, Path: []string{"a"}})
	require.Empty(t, r.Values())
	require.Len(t, r.Errs(), 1)
	require.ErrorContains(t, r.Errs()[0], "evaluating patch filter")
}
