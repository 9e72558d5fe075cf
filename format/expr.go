package format

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Exprs is a [Lookup] of computed values. Each name is bound to an
// expr-lang program that is evaluated against a fixed environment whenever
// the name is looked up.
type Exprs struct {
	programs map[string]*vm.Program
	sources  map[string]string
	env      map[string]any
}

// CompileExprs compiles each expression in defs against env.
// Expressions may refer only to the variables and functions in env.
func CompileExprs(defs map[string]string, env map[string]any) (*Exprs, error) {
	if env == nil {
		env = map[string]any{}
	}

	e := &Exprs{
		programs: make(map[string]*vm.Program, len(defs)),
		sources:  make(map[string]string, len(defs)),
		env:      env,
	}

	for _, name := range slices.Sorted(maps.Keys(defs)) {
		source := defs[name]

		program, err := expr.Compile(source, expr.Env(env))
		if err != nil {
			return nil, ErrExprCompile.Wrap(err).
				With(slog.String("name", name), slog.String("source", source))
		}

		e.programs[name] = program
		e.sources[name] = source
	}

	return e, nil
}

// Lookup evaluates the program bound to name and converts its result with
// [ValueOf].
func (e *Exprs) Lookup(name string) (Value, error) {
	program, ok := e.programs[name]
	if !ok {
		return Value{}, NotFound(name)
	}

	result, err := vm.Run(program, e.env)
	if err != nil {
		return Value{}, ErrExprEvaluate.Wrap(err).
			With(slog.String("name", name), slog.String("source", e.sources[name]))
	}

	v, err := ValueOf(result)
	if err != nil {
		return Value{}, ErrExprEvaluate.Wrap(err).
			With(slog.String("name", name), slog.String("source", e.sources[name]))
	}

	return v, nil
}

// Names returns the bound names in sorted order.
func (e *Exprs) Names() []string {
	return slices.Sorted(maps.Keys(e.programs))
}
