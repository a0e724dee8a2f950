package rxpatch

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/gordian-engine/rxepic/rxstream"
)

// Match selects patches for [Of].
type Match struct {
	// Allowed operation kind.
	// Ignored when Ops is non-empty.
	Op Op

	// Allowed operation kinds.
	// If neither Op nor Ops names a kind, any kind matches.
	Ops []Op

	// Path prefix.
	// The segments are joined with dots and matched as a regular expression
	// anchored at the start of the patch's dotted path,
	// so ["a", "b"] matches a.b, a.b.c and also a.bc.
	Path []string
}

func (m Match) isZero() bool {
	return m.Op == "" && len(m.Ops) == 0 && len(m.Path) == 0
}

// Of returns an operator passing only the patches selected by m.
// The zero Match selects everything, and Of returns the source unchanged.
//
// If the joined path is not a valid regular expression,
// the error is delivered to the subscriber on the first patch.
func Of(m Match) rxstream.Operator[Patch, Patch] {
	if m.isZero() {
		return func(src rxstream.Subscribable[Patch]) rxstream.Subscribable[Patch] {
			return src
		}
	}

	ops := m.Ops
	if len(ops) == 0 {
		ops = []Op{m.Op}
	}
	ops = slices.DeleteFunc(slices.Clone(ops), func(op Op) bool { return op == "" })

	prefix := strings.Join(m.Path, ".")
	re, reErr := regexp.Compile("^" + prefix)
	if reErr != nil {
		reErr = fmt.Errorf("invalid patch path prefix %q: %w", prefix, reErr)
	}

	return rxstream.Filter(func(p Patch) (bool, error) {
		if reErr != nil {
			return false, reErr
		}

		if len(ops) > 0 && !slices.Contains(ops, p.Op) {
			return false, nil
		}

		return re.MatchString(p.PathString()), nil
	})
}
