package strategy

import (
	"github.com/cockroachdb/errors"
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// --------------------------------------------------------------------------
// Expression strategies (github.com/expr-lang/expr)
// --------------------------------------------------------------------------

// entryEnv exposes an entry to an expression
func entryEnv(e Entry) map[string]any {
	return map[string]any{
		"key":   e.Key,
		"value": e.Value,
	}
}

// compile compiles an expression that can access the given entry variables
func compile(expression string, vars []string, opts ...exprlang.Option) (*exprvm.Program, error) {
	if expression == "" {
		return nil, errors.New("expression must not be empty")
	}
	env := make(map[string]any, len(vars))
	for _, v := range vars {
		env[v] = map[string]any{}
	}
	options := append([]exprlang.Option{exprlang.Env(env)}, opts...)
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, errors.Wrapf(err, "compile %q", expression)
	}
	return program, nil
}

// NewExprPredicate compiles a boolean expression over the entries current and candidate.
func NewExprPredicate(expression string) (Predicate, error) {
	program, err := compile(expression, []string{"current", "candidate"}, exprlang.AsBool())
	if err != nil {
		return Predicate{}, err
	}

	return Predicate{
		Name:        "expr",
		Description: expression,
		Fn: func(current, candidate Entry) (bool, error) {
			out, err := exprlang.Run(program, map[string]any{
				"current":   entryEnv(current),
				"candidate": entryEnv(candidate),
			})
			if err != nil {
				return false, err
			}
			b, ok := out.(bool)
			if !ok {
				return false, errors.Newf("expression returned %T, expected bool", out)
			}
			return b, nil
		},
	}, nil
}

// NewExprAbsorber compiles an expression over the entries dst and src that returns the new destination value.
func NewExprAbsorber(expression string) (Absorber, error) {
	program, err := compile(expression, []string{"dst", "src"})
	if err != nil {
		return Absorber{}, err
	}

	return Absorber{
		Name:        "expr",
		Description: expression,
		Fn: func(dst, src Entry) (Value, error) {
			out, err := exprlang.Run(program, map[string]any{
				"dst": entryEnv(dst),
				"src": entryEnv(src),
			})
			if err != nil {
				return nil, err
			}
			return Normalize(out), nil
		},
	}, nil
}
