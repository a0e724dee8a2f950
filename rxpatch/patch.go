package rxpatch

import "strings"

// Op is the kind of change a [Patch] describes.
type Op string

const (
	Replace Op = "replace"
	Add     Op = "add"
	Remove  Op = "remove"
)

// Patch is a single recorded change in a state transition.
type Patch struct {
	Op   Op       `cbor:"1,keyasint"`
	Path []string `cbor:"2,keyasint"`

	// The new value for Add and Replace; unset for Remove.
	Value any `cbor:"3,keyasint,omitempty"`
}

// PathString returns the path segments joined with dots.
func (p Patch) PathString() string {
	return strings.Join(p.Path, ".")
}
