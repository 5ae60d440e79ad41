// Package strategy provides named predicates and absorbers for maps with string
// keys and dynamic values, and binds them to the callbacks of
// github.com/ValentinKolb/mapbench/lib/merge.
//
// Values are JSON-like: float64, string, bool, []any, map[string]any or nil.
//
// Key Components:
//
//   - Predicate / Absorber: a named callback. Unlike the merge callbacks they can fail
//     (e.g. "sum" on a string value).
//
//   - Registry: a concurrent registry of predicates and absorbers, backed by xsync.MapOf.
//     DefaultRegistry contains the built-in strategies:
//     predicates equal-value, equal-key-length, equal-value-length, always;
//     absorbers sum, concat, append, max, min, first, last.
//
//   - Expression strategies: NewExprPredicate and NewExprAbsorber compile
//     github.com/expr-lang/expr expressions. Predicates see current and candidate,
//     absorbers see dst and src, each with the fields key and value:
//
//     len(current.key) == len(candidate.key)
//     dst.value + src.value
//
//   - Binding: adapts a Predicate and an Absorber to merge callbacks and collects their
//     errors, since the merge algorithms do not support failing callbacks. A failing
//     predicate is treated as "no match", a failing absorber leaves the destination unchanged.
package strategy
