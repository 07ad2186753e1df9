package mapping

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator evaluates field expressions against an environment.
type Evaluator interface {
	Evaluate(expression string, env map[string]any) (any, error)
	Compile(expression string, env map[string]any) error
}

// exprEvaluator implements Evaluator using expr-lang/expr. Compiled programs
// are cached per expression; environments built by NewEnv share one shape, so
// a program compiled against one is valid for every other.
type exprEvaluator struct {
	cache sync.Map // expression string → *vm.Program
}

// NewEvaluator creates an expr-lang backed evaluator. It is safe for concurrent use.
func NewEvaluator() Evaluator {
	return &exprEvaluator{}
}

func (e *exprEvaluator) Evaluate(expression string, env map[string]any) (any, error) {
	if expression == "" {
		return nil, nil
	}
	program, err := e.compile(expression, env)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expression, err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", expression, err)
	}
	return result, nil
}

func (e *exprEvaluator) Compile(expression string, env map[string]any) error {
	if _, err := e.compile(expression, env); err != nil {
		return fmt.Errorf("compile expression %q: %w", expression, err)
	}
	return nil
}

func (e *exprEvaluator) compile(expression string, env map[string]any) (*vm.Program, error) {
	if cached, ok := e.cache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	e.cache.Store(expression, program)
	return program, nil
}
