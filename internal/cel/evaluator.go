// Package cel compiles CEL expressions into row predicates. The record under
// test is bound to the variable "_".
package cel

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/tabula/pkg/record"
	"github.com/oakwood-commons/tabula/pkg/view"
)

// ErrNotBool is returned when an expression does not produce a bool.
var ErrNotBool = errors.New("expression must evaluate to a bool")

// Evaluator compiles expressions against a shared environment.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the strings, encoders, lists and
// math extensions loaded. Extra options extend the environment.
func NewEvaluator(opts ...cel.EnvOption) (*Evaluator, error) {
	env, err := newStandardCELEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 6+len(opts))
	allOpts = append(allOpts,
		cel.Variable("_", cel.DynType),
		// Record numbers are doubles while literals like 100 are ints.
		cel.CrossTypeNumericComparisons(true),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// Predicate is a compiled boolean expression.
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr. A statically known non-bool result
// is rejected here; dynamic results are checked by Match.
func (e *Evaluator) Compile(expr string) (*Predicate, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(types.BoolType) && !out.IsExactType(types.DynType) {
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotBool, expr, out)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expr
}

// Match evaluates the predicate against rec.
func (p *Predicate) Match(rec record.Record) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{"_": rec.Interface()})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("%w: got %s", ErrNotBool, out.Type().TypeName())
	}
	return bool(b), nil
}

// Func adapts the predicate for view.WithPredicate. Rows whose evaluation
// fails are excluded.
func (p *Predicate) Func(log logr.Logger) view.Predicate {
	return func(rec record.Record) bool {
		ok, err := p.Match(rec)
		if err != nil {
			log.V(1).Info("predicate excluded row", "id", rec.ID(), "expr", p.expr, "error", err.Error())
			return false
		}
		return ok
	}
}
