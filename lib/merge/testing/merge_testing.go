package testing

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/ValentinKolb/mapbench/lib/merge"
	"github.com/ValentinKolb/mapbench/lib/omap"
)

// Factories create empty maps of the key and value types used by the suites
type Factories struct {
	Ints     func() omap.OrderedMap[int, int]
	Strings  func() omap.OrderedMap[int, string]
	Words    func() omap.OrderedMap[string, int]
	Counters func() omap.OrderedMap[int, *Counter]
}

// Counter is a value type referencing shared memory
type Counter struct {
	N int
}

// Clone returns an independent copy of c
func (c *Counter) Clone() *Counter {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// RunMergeTests runs the merge test suite on top of the maps created by factories.
func RunMergeTests(t *testing.T, name string, factories Factories) {
	t.Run(name, func(t *testing.T) {
		t.Run("EqualValuesSum", func(t *testing.T) {
			testEqualValuesSum(t, factories)
		})

		t.Run("NonAdjacentChain", func(t *testing.T) {
			testNonAdjacentChain(t, factories)
		})

		t.Run("EmptyAndSingle", func(t *testing.T) {
			testEmptyAndSingle(t, factories)
		})

		t.Run("NoOp", func(t *testing.T) {
			testNoOp(t, factories)
		})

		t.Run("ValueConservation", func(t *testing.T) {
			testValueConservation(t, factories)
		})

		t.Run("Subset", func(t *testing.T) {
			testSubset(t, factories)
		})

		t.Run("AdjacencyDistinction", func(t *testing.T) {
			testAdjacencyDistinction(t, factories)
		})

		t.Run("FixedDestination", func(t *testing.T) {
			testFixedDestination(t, factories)
		})

		t.Run("SharedValues", func(t *testing.T) {
			testSharedValues(t, factories)
		})

		t.Run("PlanInvariants", func(t *testing.T) {
			testPlanInvariants(t, factories)
		})

		t.Run("StringKeys", func(t *testing.T) {
			testStringKeys(t, factories)
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func equalValues[K comparable, V comparable](a, b omap.Entry[K, V]) bool {
	return a.Value == b.Value
}

func sumConsecutive[K any](_ K, dst *int, _ K, src *int) {
	*dst += *src
}

func sumOwned[K any](_ K, dst *int, _ K, src int) {
	*dst += src
}

func concatOwned(_ int, dst *string, _ int, src string) {
	*dst += src
}

func sameLength(a, b omap.Entry[int, string]) bool {
	return len(a.Value) == len(b.Value)
}

func never[K, V any](_, _ omap.Entry[K, V]) bool {
	return false
}

// fill loads the given entries into a new map
func fill[K, V any](t testing.TB, factory func() omap.OrderedMap[K, V], entries ...omap.Entry[K, V]) omap.OrderedMap[K, V] {
	t.Helper()
	m := factory()
	if err := m.Load(entries); err != nil {
		t.Fatalf("Failed to load entries: %v", err)
	}
	return m
}

// ints creates entries from alternating key, value pairs
func ints(kv ...int) []omap.Entry[int, int] {
	entries := make([]omap.Entry[int, int], 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		entries = append(entries, omap.Entry[int, int]{Key: kv[i], Value: kv[i+1]})
	}
	return entries
}

// snapshot returns all entries of m in ascending order without modifying m
func snapshot[K, V any](m omap.OrderedMap[K, V]) []omap.Entry[K, V] {
	entries := make([]omap.Entry[K, V], 0, m.Len())
	for k, v := range m.All() {
		entries = append(entries, omap.Entry[K, V]{Key: k, Value: v})
	}
	return entries
}

// expectEntries compares the content of m with expected
func expectEntries[K, V comparable](t testing.TB, m omap.OrderedMap[K, V], expected []omap.Entry[K, V]) {
	t.Helper()
	got := snapshot(m)
	if len(got) != len(expected) {
		t.Fatalf("Expected %d entries %v, got %d entries %v", len(expected), expected, len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expected entry %d to be %v, got %v", i, expected[i], got[i])
		}
	}
}

// randomInts creates n entries with ascending keys and values in [0, spread)
func randomInts(seed int64, n, spread int) []omap.Entry[int, int] {
	r := rand.New(rand.NewSource(seed))
	entries := make([]omap.Entry[int, int], n)
	key := 0
	for i := range entries {
		key += 1 + r.Intn(3)
		entries[i] = omap.Entry[int, int]{Key: key, Value: r.Intn(spread)}
	}
	return entries
}

func sum(entries []omap.Entry[int, int]) int {
	total := 0
	for _, e := range entries {
		total += e.Value
	}
	return total
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testEqualValuesSum(t *testing.T, factories Factories) {
	m := fill(t, factories.Ints, ints(1, 1, 2, 1, 3, 2, 4, 2)...)

	merge.MergeConsecutive(m, equalValues[int, int], sumConsecutive[int])

	expectEntries(t, m, ints(1, 2, 3, 4))
}

func testNonAdjacentChain(t *testing.T, factories Factories) {
	m := fill(t, factories.Strings,
		omap.Entry[int, string]{Key: 1, Value: "aa"},
		omap.Entry[int, string]{Key: 2, Value: "bb"},
		omap.Entry[int, string]{Key: 3, Value: "aa"},
	)

	merge.Merge(m, sameLength, concatOwned)

	expectEntries(t, m, []omap.Entry[int, string]{{Key: 1, Value: "aabbaa"}})
}

func testEmptyAndSingle(t *testing.T, factories Factories) {
	always := func(_, _ omap.Entry[int, int]) bool { return true }

	empty := factories.Ints()
	merge.MergeConsecutive(empty, always, sumConsecutive[int])
	merge.Merge(empty, always, sumOwned[int])
	if empty.Len() != 0 {
		t.Errorf("Expected empty map to stay empty, got %d entries", empty.Len())
	}

	single := fill(t, factories.Ints, ints(7, 42)...)
	merge.MergeConsecutive(single, always, sumConsecutive[int])
	expectEntries(t, single, ints(7, 42))
	merge.Merge(single, always, sumOwned[int])
	expectEntries(t, single, ints(7, 42))
}

func testNoOp(t *testing.T, factories Factories) {
	entries := randomInts(1, 200, 1000)

	consecutive := fill(t, factories.Ints, entries...)
	merge.MergeConsecutive(consecutive, never[int, int], sumConsecutive[int])
	expectEntries(t, consecutive, entries)

	global := fill(t, factories.Ints, entries...)
	if plan := merge.Plan(global, never[int, int]); len(plan) != 0 {
		t.Errorf("Expected an empty plan, got %d instructions", len(plan))
	}
	merge.Merge(global, never[int, int], sumOwned[int])
	expectEntries(t, global, entries)

	// values that differ between neighbours never match, even though equal values exist
	alternating := ints(1, 1, 2, 2, 3, 1, 4, 2, 5, 1)
	m := fill(t, factories.Ints, alternating...)
	merge.MergeConsecutive(m, equalValues[int, int], sumConsecutive[int])
	expectEntries(t, m, alternating)

	m = fill(t, factories.Ints, alternating...)
	merge.Merge(m, equalValues[int, int], sumOwned[int])
	expectEntries(t, m, alternating)
}

func testValueConservation(t *testing.T, factories Factories) {
	for seed := int64(0); seed < 10; seed++ {
		entries := randomInts(seed, 500, 3)
		expected := sum(entries)

		consecutive := fill(t, factories.Ints, entries...)
		merge.MergeConsecutive(consecutive, equalValues[int, int], sumConsecutive[int])
		if got := sum(snapshot(consecutive)); got != expected {
			t.Errorf("(seed %d) MergeConsecutive: expected sum %d, got %d", seed, expected, got)
		}

		global := fill(t, factories.Ints, entries...)
		merge.Merge(global, equalValues[int, int], sumOwned[int])
		if got := sum(snapshot(global)); got != expected {
			t.Errorf("(seed %d) Merge: expected sum %d, got %d", seed, expected, got)
		}
	}
}

func testSubset(t *testing.T, factories Factories) {
	entries := randomInts(42, 300, 2)
	original := make(map[int]int, len(entries))
	for _, e := range entries {
		original[e.Key] = e.Value
	}

	// absorbing with max keeps every surviving value at its original value or above
	maxConsecutive := func(_ int, dst *int, _ int, src *int) { *dst = max(*dst, *src) }
	maxOwned := func(_ int, dst *int, _ int, src int) { *dst = max(*dst, src) }

	consecutive := fill(t, factories.Ints, entries...)
	merge.MergeConsecutive(consecutive, equalValues[int, int], maxConsecutive)

	global := fill(t, factories.Ints, entries...)
	merge.Merge(global, equalValues[int, int], maxOwned)

	for name, m := range map[string]omap.OrderedMap[int, int]{"MergeConsecutive": consecutive, "Merge": global} {
		if m.Len() > len(entries) {
			t.Errorf("%s: expected at most %d entries, got %d", name, len(entries), m.Len())
		}
		for k, v := range m.All() {
			orig, ok := original[k]
			if !ok {
				t.Errorf("%s: key %d was not part of the original map", name, k)
				continue
			}
			// all entries of a chain share the value, so the folded value equals the original one
			if v != orig {
				t.Errorf("%s: expected key %d to keep value %d, got %d", name, k, orig, v)
			}
		}
	}
}

func testAdjacencyDistinction(t *testing.T, factories Factories) {
	// 1 and 3 both match the representative 1, 2 lies in between and matches as well
	withinRange := func(a, b omap.Entry[int, int]) bool {
		d := a.Value - b.Value
		return d >= -1 && d <= 1
	}
	entries := ints(1, 10, 2, 11, 3, 9, 4, 20)

	// consecutive: 2 merges into 1 (10+11), 3 merges into 1 as 9 is within range of the representative
	consecutive := fill(t, factories.Ints, entries...)
	merge.MergeConsecutive(consecutive, withinRange, sumConsecutive[int])
	expectEntries(t, consecutive, ints(1, 30, 4, 20))

	global := fill(t, factories.Ints, entries...)
	merge.Merge(global, withinRange, sumOwned[int])
	expectEntries(t, global, ints(1, 30, 4, 20))

	// a non matching entry in between separates the chains for MergeConsecutive
	separated := ints(1, 5, 2, 100, 3, 5)
	m := fill(t, factories.Ints, separated...)
	merge.MergeConsecutive(m, equalValues[int, int], sumConsecutive[int])
	expectEntries(t, m, separated)

	// for Merge every entry in between must match the representative as well
	m = fill(t, factories.Ints, separated...)
	merge.Merge(m, equalValues[int, int], sumOwned[int])
	expectEntries(t, m, separated)
}

func testFixedDestination(t *testing.T, factories Factories) {
	// every value is compared with the first entry of the chain (10), not with the absorbed result
	closeTo := func(a, b omap.Entry[int, int]) bool {
		d := a.Value - b.Value
		return d >= -2 && d <= 2
	}
	entries := ints(1, 10, 2, 12, 3, 8, 4, 11, 5, 13)

	consecutive := fill(t, factories.Ints, entries...)
	merge.MergeConsecutive(consecutive, closeTo, sumConsecutive[int])
	// 13 is not within 2 of 10, but within 2 of 11 (the last absorbed entry)
	expectEntries(t, consecutive, ints(1, 41, 5, 13))

	global := fill(t, factories.Ints, entries...)
	plan := merge.Plan(global, closeTo)
	for i, instr := range plan {
		if instr.Destination != 1 {
			t.Errorf("Expected instruction %d to have destination 1, got %d (plan %s)", i, instr.Destination, planString(plan))
		}
	}
	merge.Apply(global, plan, sumOwned[int])
	expectEntries(t, global, ints(1, 41, 5, 13))

	// absorption order: the destination absorbs its sources in ascending key order
	order := fill(t, factories.Strings,
		omap.Entry[int, string]{Key: 1, Value: "a"},
		omap.Entry[int, string]{Key: 2, Value: "b"},
		omap.Entry[int, string]{Key: 3, Value: "c"},
		omap.Entry[int, string]{Key: 4, Value: "dd"},
		omap.Entry[int, string]{Key: 5, Value: "ee"},
	)
	merge.Merge(order, sameLength, concatOwned)
	expectEntries(t, order, []omap.Entry[int, string]{{Key: 1, Value: "abc"}, {Key: 4, Value: "ddee"}})
}

func testSharedValues(t *testing.T, factories Factories) {
	// absorb overwrites the destination in place, so the surviving pointer changes
	// while the chain is still compared with its first value (10)
	closeTo := func(a, b omap.Entry[int, *Counter]) bool {
		d := a.Value.N - b.Value.N
		return d >= -1 && d <= 1
	}
	counters := func() []omap.Entry[int, *Counter] {
		return []omap.Entry[int, *Counter]{
			{Key: 1, Value: &Counter{N: 10}},
			{Key: 2, Value: &Counter{N: 11}},
			{Key: 3, Value: &Counter{N: 12}},
		}
	}
	expect := func(name string, m omap.OrderedMap[int, *Counter]) {
		t.Helper()
		got := snapshot(m)
		if len(got) != 2 || got[0].Key != 1 || got[0].Value.N != 11 || got[1].Key != 3 || got[1].Value.N != 12 {
			t.Errorf("%s: expected [1:11 3:12], got %d entries", name, len(got))
			for _, e := range got {
				t.Errorf("%s: %d:%d", name, e.Key, e.Value.N)
			}
		}
	}

	consecutive := fill(t, factories.Counters, counters()...)
	merge.MergeConsecutive(consecutive, closeTo, func(_ int, dst **Counter, _ int, src **Counter) {
		(*dst).N = (*src).N
	})
	expect("MergeConsecutive", consecutive)

	global := fill(t, factories.Counters, counters()...)
	merge.Merge(global, closeTo, func(_ int, dst **Counter, _ int, src *Counter) {
		(*dst).N = src.N
	})
	expect("Merge", global)
}

func testPlanInvariants(t *testing.T, factories Factories) {
	for seed := int64(0); seed < 10; seed++ {
		m := fill(t, factories.Ints, randomInts(seed, 400, 4)...)
		before := m.Len()

		plan := merge.Plan(m, equalValues[int, int])
		if m.Len() != before {
			t.Fatalf("(seed %d) Plan modified the map: %d entries before, %d after", seed, before, m.Len())
		}

		sources := make(map[int]bool)
		destinations := make(map[int]bool)
		for i, instr := range plan {
			if instr.Destination >= instr.Source {
				t.Errorf("(seed %d) instruction %d: destination %d not before source %d", seed, i, instr.Destination, instr.Source)
			}
			if sources[instr.Source] {
				t.Errorf("(seed %d) instruction %d: source %d used twice", seed, i, instr.Source)
			}
			if sources[instr.Destination] {
				t.Errorf("(seed %d) instruction %d: destination %d was consumed as source", seed, i, instr.Destination)
			}
			if destinations[instr.Source] {
				t.Errorf("(seed %d) instruction %d: source %d was used as destination", seed, i, instr.Source)
			}
			sources[instr.Source] = true
			destinations[instr.Destination] = true
		}

		merge.Apply(m, plan, sumOwned[int])
		if m.Len() != before-len(plan) {
			t.Errorf("(seed %d) expected %d entries after apply, got %d", seed, before-len(plan), m.Len())
		}
	}
}

func testStringKeys(t *testing.T, factories Factories) {
	sameKeyLength := func(a, b omap.Entry[string, int]) bool {
		return len(a.Key) == len(b.Key)
	}
	entries := []omap.Entry[string, int]{
		{Key: "abcd", Value: 1},
		{Key: "abcde", Value: 2},
		{Key: "bcde", Value: 3},
		{Key: "cdef", Value: 4},
		{Key: "defgh", Value: 5},
	}

	consecutive := fill(t, factories.Words, entries...)
	merge.MergeConsecutive(consecutive, sameKeyLength, sumConsecutive[string])
	expectEntries(t, consecutive, []omap.Entry[string, int]{
		{Key: "abcd", Value: 1},
		{Key: "abcde", Value: 2},
		{Key: "bcde", Value: 7},
		{Key: "defgh", Value: 5},
	})

	global := fill(t, factories.Words, entries...)
	merge.Merge(global, sameKeyLength, sumOwned[string])
	expectEntries(t, global, []omap.Entry[string, int]{
		{Key: "abcd", Value: 1},
		{Key: "abcde", Value: 2},
		{Key: "bcde", Value: 7},
		{Key: "defgh", Value: 5},
	})
}

// planString returns a readable representation of a plan
func planString[K any](plan []merge.Instruction[K]) string {
	s := ""
	for _, instr := range plan {
		s += fmt.Sprintf("(%v <- %v)", instr.Destination, instr.Source)
	}
	return s
}
