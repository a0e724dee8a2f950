package rxpatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/gordian-engine/rxepic/rxstream"
)

// Where returns an operator passing only the patches
// for which the CEL expression evaluates to true.
//
// The expression may reference:
//   - op (string): the operation kind
//   - path (list of strings): the path segments
//   - path_str (string): the dotted path
//   - value (dyn): the patch value, null for removals
//
// For example: op == "replace" && path_str.startsWith("todos.")
//
// An empty expression selects everything.
// Compilation errors are returned immediately;
// evaluation errors are delivered to the subscriber.
func Where(expr string) (rxstream.Operator[Patch, Patch], error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Of(Match{}), nil
	}

	env, err := cel.NewEnv(
		cel.Variable("op", cel.StringType),
		cel.Variable("path", cel.ListType(cel.StringType)),
		cel.Variable("path_str", cel.StringType),
		cel.Variable("value", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("building patch filter environment: %w", err)
	}

	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("parsing patch filter %q: %w", expr, iss.Err())
	}
	checked, iss := env.Check(ast)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("checking patch filter %q: %w", expr, iss.Err())
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf(
			"patch filter %q must evaluate to bool, not %s",
			expr, checked.OutputType(),
		)
	}

	prog, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("planning patch filter %q: %w", expr, err)
	}

	return rxstream.Filter(func(p Patch) (bool, error) {
		path := p.Path
		if path == nil {
			path = []string{}
		}

		out, _, err := prog.Eval(map[string]any{
			"op":       string(p.Op),
			"path":     path,
			"path_str": p.PathString(),
			"value":    p.Value,
		})
		if err != nil {
			return false, fmt.Errorf("evaluating patch filter %q: %w", expr, err)
		}

		b, ok := out.Value().(bool)
		if !ok {
			return false, errors.New("patch filter did not produce a bool")
		}
		return b, nil
	}), nil
}
