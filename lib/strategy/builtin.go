package strategy

import (
	"math"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
)

// --------------------------------------------------------------------------
// Value helpers
// --------------------------------------------------------------------------

// Normalize converts all numeric values to float64 (recursively for lists and objects)
func Normalize(v Value) Value {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Normalize(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Normalize(e)
		}
		return out
	default:
		return v
	}
}

// number returns v as float64
func number(v Value) (float64, error) {
	if f, ok := Normalize(v).(float64); ok {
		return f, nil
	}
	return 0, errors.Newf("expected a number, got %T", v)
}

// length returns the length of strings (in runes), lists and objects
func length(v Value) (int, error) {
	switch t := v.(type) {
	case string:
		return utf8.RuneCountInString(t), nil
	case []any:
		return len(t), nil
	case map[string]any:
		return len(t), nil
	default:
		return 0, errors.Newf("value of type %T has no length", v)
	}
}

// list returns v as list; non list values become a list with a single element
func list(v Value) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return []any{v}
}

// --------------------------------------------------------------------------
// Built-in predicates
// --------------------------------------------------------------------------

var (
	EqualValue = Predicate{
		Name:        "equal-value",
		Description: "values are deeply equal",
		Fn: func(current, candidate Entry) (bool, error) {
			return cmp.Equal(Normalize(current.Value), Normalize(candidate.Value)), nil
		},
	}

	EqualKeyLength = Predicate{
		Name:        "equal-key-length",
		Description: "keys have the same length in bytes",
		Fn: func(current, candidate Entry) (bool, error) {
			return len(current.Key) == len(candidate.Key), nil
		},
	}

	EqualValueLength = Predicate{
		Name:        "equal-value-length",
		Description: "strings, lists or objects have the same length",
		Fn: func(current, candidate Entry) (bool, error) {
			a, err := length(current.Value)
			if err != nil {
				return false, err
			}
			b, err := length(candidate.Value)
			if err != nil {
				return false, err
			}
			return a == b, nil
		},
	}

	Always = Predicate{
		Name:        "always",
		Description: "every pair matches",
		Fn: func(_, _ Entry) (bool, error) {
			return true, nil
		},
	}
)

// --------------------------------------------------------------------------
// Built-in absorbers
// --------------------------------------------------------------------------

var (
	Sum = Absorber{
		Name:        "sum",
		Description: "adds numbers",
		Fn: func(dst, src Entry) (Value, error) {
			return numeric(dst, src, func(a, b float64) float64 { return a + b })
		},
	}

	Max = Absorber{
		Name:        "max",
		Description: "keeps the larger number",
		Fn: func(dst, src Entry) (Value, error) {
			return numeric(dst, src, math.Max)
		},
	}

	Min = Absorber{
		Name:        "min",
		Description: "keeps the smaller number",
		Fn: func(dst, src Entry) (Value, error) {
			return numeric(dst, src, math.Min)
		},
	}

	Concat = Absorber{
		Name:        "concat",
		Description: "concatenates strings",
		Fn: func(dst, src Entry) (Value, error) {
			a, ok := dst.Value.(string)
			if !ok {
				return nil, errors.Newf("expected a string, got %T", dst.Value)
			}
			b, ok := src.Value.(string)
			if !ok {
				return nil, errors.Newf("expected a string, got %T", src.Value)
			}
			return a + b, nil
		},
	}

	Append = Absorber{
		Name:        "append",
		Description: "collects values in a list (lists are flattened one level)",
		Fn: func(dst, src Entry) (Value, error) {
			a := list(dst.Value)
			b := list(src.Value)
			out := make([]any, 0, len(a)+len(b))
			return append(append(out, a...), b...), nil
		},
	}

	First = Absorber{
		Name:        "first",
		Description: "keeps the destination value",
		Fn: func(dst, _ Entry) (Value, error) {
			return dst.Value, nil
		},
	}

	Last = Absorber{
		Name:        "last",
		Description: "takes the value with the larger key",
		Fn: func(_, src Entry) (Value, error) {
			return src.Value, nil
		},
	}
)

// numeric applies fn to two numeric values
func numeric(dst, src Entry, fn func(a, b float64) float64) (Value, error) {
	a, err := number(dst.Value)
	if err != nil {
		return nil, err
	}
	b, err := number(src.Value)
	if err != nil {
		return nil, err
	}
	return fn(a, b), nil
}
