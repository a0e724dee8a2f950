package rxepic

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Strictness controls how a [Middleware] treats misuse
// that a host can survive, such as attaching twice
// or calling Run before attaching.
type Strictness string

const (
	// Strict reports every misuse as an error.
	// This is the default.
	Strict Strictness = "strict"

	// Lenient tolerates attaching more than once (the last container wins),
	// running before attaching (updates are dropped until attached),
	// and running without a root epic (a no-op).
	Lenient Strictness = "lenient"
)

// Options are the plain-data settings of a [Middleware].
// They can be loaded from YAML with [ParseOptions].
type Options struct {
	// When set, transitions that carry no patches are dropped entirely:
	// neither the state stream nor the patch stream emits.
	IgnoreEmptyPatches bool `yaml:"ignore_empty_patches"`

	// Defaults to Strict when empty.
	Strictness Strictness `yaml:"strictness" validate:"omitempty,oneof=strict lenient"`
}

var optionsValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate reports whether o holds legal values.
func (o Options) Validate() error {
	if err := optionsValidator.Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func (o Options) strict() bool {
	return o.Strictness != Lenient
}

// ParseOptions decodes YAML-encoded options and validates them.
// Unknown keys are rejected.
// Empty input yields the zero Options.
func ParseOptions(data []byte) (Options, error) {
	var o Options

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("decoding options: %w", err)
	}

	if err := o.Validate(); err != nil {
		return Options{}, err
	}

	return o, nil
}
