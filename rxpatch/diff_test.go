package rxpatch_test

import (
	"testing"

	"github.com/gordian-engine/rxepic/rxpatch"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	prev := map[string]any{
		"a": 1,
		"b": map[string]any{"x": "1", "y": "2"},
		"c": []int{1},
		"d": true,
	}
	next := map[string]any{
		"a": 2,
		"b": map[string]any{"x": "1", "z": "3"},
		"c": []int{1},
		"e": "new",
	}

	require.Equal(t, []rxpatch.Patch{
		{Op: rxpatch.Replace, Path: []string{"a"}, Value: 2},
		{Op: rxpatch.Remove, Path: []string{"b", "y"}},
		{Op: rxpatch.Add, Path: []string{"b", "z"}, Value: "3"},
		{Op: rxpatch.Remove, Path: []string{"d"}},
		{Op: rxpatch.Add, Path: []string{"e"}, Value: "new"},
	}, rxpatch.Diff(prev, next))
}

func TestDiff_noChanges(t *testing.T) {
	t.Parallel()

	s := map[string]any{"a": map[string]any{"b": 1}}
	require.Empty(t, rxpatch.Diff(s, s))
	require.Empty(t, rxpatch.Diff(nil, map[string]any{}))
}

func TestDiff_pathsDoNotAlias(t *testing.T) {
	t.Parallel()

	prev := map[string]any{"n": map[string]any{}}
	next := map[string]any{"n": map[string]any{"a": 1, "b": 2, "c": 3}}

	patches := rxpatch.Diff(prev, next)
	require.Len(t, patches, 3)
	require.Equal(t, []string{"n", "a"}, patches[0].Path)
	require.Equal(t, []string{"n", "b"}, patches[1].Path)
	require.Equal(t, []string{"n", "c"}, patches[2].Path)
}

func TestApply_roundTripsDiff(t *testing.T) {
	t.Parallel()

	prev := map[string]any{
		"a": 1,
		"b": map[string]any{"x": "1", "y": "2"},
	}
	next := map[string]any{
		"a": 1,
		"b": map[string]any{"x": "changed"},
		"c": "added",
	}

	state := map[string]any{
		"a": 1,
		"b": map[string]any{"x": "1", "y": "2"},
	}
	for _, p := range rxpatch.Diff(prev, next) {
		require.NoError(t, rxpatch.Apply(state, p))
	}

	require.Equal(t, next, state)
}

func TestApply_errors(t *testing.T) {
	t.Parallel()

	state := map[string]any{"a": 1}

	require.Error(t, rxpatch.Apply(state, rxpatch.Patch{Op: rxpatch.Add}))
	require.Error(t, rxpatch.Apply(state, rxpatch.Patch{Op: rxpatch.Add, Path: []string{"a", "b"}}))
	require.Error(t, rxpatch.Apply(state, rxpatch.Patch{Op: "move", Path: []string{"a"}}))
}
