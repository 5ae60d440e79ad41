package strategy

import (
	"sync"
	"testing"

	"github.com/ValentinKolb/mapbench/lib/merge"
	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/ValentinKolb/mapbench/lib/omap/engines/btree"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries(kv ...any) []Entry {
	out := make([]Entry, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Entry{Key: kv[i].(string), Value: kv[i+1]})
	}
	return out
}

func newMap(t *testing.T, es []Entry) omap.OrderedMap[string, Value] {
	t.Helper()
	m := btree.New[string, Value](nil)
	require.NoError(t, m.Load(es))
	return m
}

func contents(m omap.OrderedMap[string, Value]) map[string]Value {
	out := make(map[string]Value, m.Len())
	for k, v := range m.All() {
		out[k] = v
	}
	return out
}

func TestBuiltinPredicates(t *testing.T) {
	tests := []struct {
		name      string
		pred      Predicate
		a, b      Entry
		expected  bool
		expectErr bool
	}{
		{name: "equal numbers", pred: EqualValue, a: Entry{"a", 1.0}, b: Entry{"b", 1}, expected: true},
		{name: "equal lists", pred: EqualValue, a: Entry{"a", []any{1.0, "x"}}, b: Entry{"b", []any{1.0, "x"}}, expected: true},
		{name: "different objects", pred: EqualValue, a: Entry{"a", map[string]any{"x": 1.0}}, b: Entry{"b", map[string]any{"x": 2.0}}, expected: false},
		{name: "key length", pred: EqualKeyLength, a: Entry{"abc", nil}, b: Entry{"xyz", 5.0}, expected: true},
		{name: "key length differs", pred: EqualKeyLength, a: Entry{"ab", nil}, b: Entry{"xyz", nil}, expected: false},
		{name: "value length runes", pred: EqualValueLength, a: Entry{"a", "äö"}, b: Entry{"b", "xy"}, expected: true},
		{name: "value length list", pred: EqualValueLength, a: Entry{"a", []any{1.0}}, b: Entry{"b", "x"}, expected: true},
		{name: "value length number", pred: EqualValueLength, a: Entry{"a", 1.0}, b: Entry{"b", "x"}, expectErr: true},
		{name: "always", pred: Always, a: Entry{"a", 1.0}, b: Entry{"b", "x"}, expected: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := tc.pred.Fn(tc.a, tc.b)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ok)
		})
	}
}

func TestBuiltinAbsorbers(t *testing.T) {
	tests := []struct {
		name      string
		abs       Absorber
		dst, src  Value
		expected  Value
		expectErr bool
	}{
		{name: "sum", abs: Sum, dst: 1.5, src: 2, expected: 3.5},
		{name: "sum string", abs: Sum, dst: 1.5, src: "x", expectErr: true},
		{name: "max", abs: Max, dst: 1.0, src: 3.0, expected: 3.0},
		{name: "min", abs: Min, dst: 1.0, src: 3.0, expected: 1.0},
		{name: "concat", abs: Concat, dst: "aa", src: "bb", expected: "aabb"},
		{name: "concat number", abs: Concat, dst: "aa", src: 1.0, expectErr: true},
		{name: "append scalars", abs: Append, dst: 1.0, src: 2.0, expected: []any{1.0, 2.0}},
		{name: "append lists", abs: Append, dst: []any{1.0}, src: []any{2.0, 3.0}, expected: []any{1.0, 2.0, 3.0}},
		{name: "first", abs: First, dst: "a", src: "b", expected: "a"},
		{name: "last", abs: Last, dst: "a", src: "b", expected: "b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := tc.abs.Fn(Entry{"dst", tc.dst}, Entry{"src", tc.src})
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestExprStrategies(t *testing.T) {
	pred, err := NewExprPredicate("len(current.key) == len(candidate.key)")
	require.NoError(t, err)
	abs, err := NewExprAbsorber("dst.value + src.value")
	require.NoError(t, err)

	m := newMap(t, entries("abcd", 1.0, "bcde", 2.0, "cdefg", 3.0, "defg", 4.0))
	b := Bind(pred, abs)
	merge.Merge(m, b.Predicate(), b.AbsorbOwned())

	require.NoError(t, b.Err())
	assert.Equal(t, map[string]Value{"abcd": 3.0, "cdefg": 3.0, "defg": 4.0}, contents(m))
}

func TestExprStrategies_IntegerResult(t *testing.T) {
	abs, err := NewExprAbsorber("len(dst.value) + len(src.value)")
	require.NoError(t, err)

	v, err := abs.Fn(Entry{"a", "xx"}, Entry{"b", "yyy"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestExprStrategies_CompileErrors(t *testing.T) {
	_, err := NewExprPredicate("")
	assert.Error(t, err)

	_, err = NewExprPredicate("current.key ==")
	assert.Error(t, err)

	_, err = NewExprPredicate(`"not a bool"`)
	assert.Error(t, err)

	_, err = NewExprAbsorber("dst.value +")
	assert.Error(t, err)
}

func TestBinding_CollectsErrors(t *testing.T) {
	m := newMap(t, entries("a", 1.0, "b", "x", "c", 2.0))
	b := Bind(Always, Sum)

	merge.MergeConsecutive(m, b.Predicate(), b.Absorb())

	err := b.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 callback(s) failed")
	assert.Contains(t, err.Error(), `absorber sum("a" <- "b")`)
	// the failing source is still removed, the destination keeps its previous value
	assert.Equal(t, map[string]Value{"a": 3.0}, contents(m))
}

func TestBinding_PredicateErrorMeansNoMatch(t *testing.T) {
	m := newMap(t, entries("a", 1.0, "b", 2.0))
	b := Bind(EqualValueLength, Sum)

	merge.Merge(m, b.Predicate(), b.AbsorbOwned())

	require.Error(t, b.Err())
	assert.Equal(t, 2, m.Len())
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	p, err := r.Predicate("equal-key-length")
	require.NoError(t, err)
	assert.Equal(t, "equal-key-length", p.Name)

	_, err = r.Absorber("nope")
	assert.True(t, errors.Is(err, ErrUnknownStrategy))

	err = r.RegisterAbsorber(Absorber{Name: "sum", Fn: Sum.Fn})
	assert.Error(t, err, "duplicate names must be rejected")

	err = r.RegisterPredicate(Predicate{Name: "nameless-fn"})
	assert.Error(t, err)

	names := make([]string, 0)
	for _, a := range r.Absorbers() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"append", "concat", "first", "last", "max", "min", "sum"}, names)
	assert.Len(t, r.Predicates(), 4)
}

func TestRegistry_ConcurrentRegistration(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.RegisterPredicate(Always); err != nil {
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 15, failures, "exactly one registration must win")
	assert.Len(t, r.Predicates(), 1)
}
