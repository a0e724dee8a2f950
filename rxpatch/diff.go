package rxpatch

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Diff returns the patches that turn prev into next.
//
// Nested maps of type map[string]any are compared recursively;
// any other differing value produces a single Replace patch at its path.
// Keys are visited in sorted order so the result is deterministic.
func Diff(prev, next map[string]any) []Patch {
	return diff(nil, prev, next, nil)
}

func diff(path []string, prev, next map[string]any, out []Patch) []Patch {
	keys := slices.Sorted(maps.Keys(prev))
	for k := range next {
		if _, ok := prev[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		pv, inPrev := prev[k]
		nv, inNext := next[k]

		p := append(slices.Clip(path), k)

		switch {
		case !inNext:
			out = append(out, Patch{Op: Remove, Path: p})
		case !inPrev:
			out = append(out, Patch{Op: Add, Path: p, Value: nv})
		default:
			pm, prevIsMap := pv.(map[string]any)
			nm, nextIsMap := nv.(map[string]any)
			if prevIsMap && nextIsMap {
				out = diff(p, pm, nm, out)
				continue
			}

			if !reflect.DeepEqual(pv, nv) {
				out = append(out, Patch{Op: Replace, Path: p, Value: nv})
			}
		}
	}

	return out
}

// Apply applies p to state in place.
//
// Intermediate path segments must refer to existing nested maps.
// Add and Replace set the final key; Remove deletes it.
func Apply(state map[string]any, p Patch) error {
	if len(p.Path) == 0 {
		return fmt.Errorf("cannot apply %s patch with empty path", p.Op)
	}

	m := state
	for _, seg := range p.Path[:len(p.Path)-1] {
		child, ok := m[seg].(map[string]any)
		if !ok {
			return fmt.Errorf(
				"cannot apply %s patch at %s: %q is not a map",
				p.Op, p.PathString(), seg,
			)
		}
		m = child
	}

	last := p.Path[len(p.Path)-1]
	switch p.Op {
	case Add, Replace:
		m[last] = p.Value
	case Remove:
		delete(m, last)
	default:
		return fmt.Errorf("unknown patch op %q", p.Op)
	}

	return nil
}
