package testing

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/ValentinKolb/mapbench/lib/omap"
)

// MapFactory is a function that creates a new, empty OrderedMap
type MapFactory func() omap.OrderedMap[int, int]

// RunOrderedMapTests runs the conformance test suite for an OrderedMap implementation.
func RunOrderedMapTests(t *testing.T, name string, factory MapFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("AscendingOrder", func(t *testing.T) {
			testAscendingOrder(t, factory())
		})

		t.Run("From", func(t *testing.T) {
			testFrom(t, factory())
		})

		t.Run("EarlyBreak", func(t *testing.T) {
			testEarlyBreak(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("Update", func(t *testing.T) {
			testUpdate(t, factory())
		})

		t.Run("Drain&Load", func(t *testing.T) {
			testDrainLoad(t, factory())
		})

		t.Run("LoadDuplicate", func(t *testing.T) {
			testLoadDuplicate(t, factory)
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})

		t.Run("RealisticUsage", func(t *testing.T) {
			testRealisticUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// keys collects all keys of a sequence in iteration order
func keys(m omap.OrderedMap[int, int], from *int) []int {
	seq := m.All()
	if from != nil {
		seq = m.From(*from)
	}
	var result []int
	for k := range seq {
		result = append(result, k)
	}
	return result
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func ptr(i int) *int {
	return &i
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, m omap.OrderedMap[int, int]) {
	m.Set(1, 10)

	value, ok := m.Get(1)
	if !ok {
		t.Errorf("Expected key %d to exist after Set", 1)
	}
	if value != 10 {
		t.Errorf("Expected value %d, got %d", 10, value)
	}

	m.Set(1, 20)
	value, _ = m.Get(1)
	if value != 20 {
		t.Errorf("Expected overwritten value %d, got %d", 20, value)
	}
	if m.Len() != 1 {
		t.Errorf("Expected length 1 after overwrite, got %d", m.Len())
	}

	if _, ok := m.Get(2); ok {
		t.Errorf("Expected nonexistent key to return ok=false")
	}
}

func testAscendingOrder(t *testing.T, m omap.OrderedMap[int, int]) {
	inserted := []int{5, 3, 9, 1, 7, -2, 0}
	for _, k := range inserted {
		m.Set(k, k*10)
	}

	expected := append([]int(nil), inserted...)
	sort.Ints(expected)

	if got := keys(m, nil); !equalInts(got, expected) {
		t.Errorf("Expected keys %v, got %v", expected, got)
	}

	for k, v := range m.All() {
		if v != k*10 {
			t.Errorf("Expected value %d for key %d, got %d", k*10, k, v)
		}
	}
}

func testFrom(t *testing.T, m omap.OrderedMap[int, int]) {
	for _, k := range []int{10, 20, 30, 40} {
		m.Set(k, k)
	}

	tests := []struct {
		from     int
		expected []int
	}{
		{from: 20, expected: []int{20, 30, 40}}, // inclusive
		{from: 21, expected: []int{30, 40}},     // missing pivot
		{from: 0, expected: []int{10, 20, 30, 40}},
		{from: 40, expected: []int{40}},
		{from: 41, expected: nil},
	}

	for _, tc := range tests {
		if got := keys(m, ptr(tc.from)); !equalInts(got, tc.expected) {
			t.Errorf("From(%d): expected keys %v, got %v", tc.from, tc.expected, got)
		}
	}
}

func testEarlyBreak(t *testing.T, m omap.OrderedMap[int, int]) {
	for i := 0; i < 100; i++ {
		m.Set(i, i)
	}

	count := 0
	for range m.All() {
		count++
		if count == 10 {
			break
		}
	}
	if count != 10 {
		t.Errorf("Expected iteration to stop after 10 entries, got %d", count)
	}

	for k := range m.From(50) {
		if k != 50 {
			t.Errorf("Expected first key 50, got %d", k)
		}
		break
	}
}

func testRemove(t *testing.T, m omap.OrderedMap[int, int]) {
	m.Set(1, 10)
	m.Set(2, 20)
	m.Set(3, 30)

	value, ok := m.Remove(2)
	if !ok {
		t.Fatalf("Expected Remove to return ok=true for existing key")
	}
	if value != 20 {
		t.Errorf("Expected removed value %d, got %d", 20, value)
	}

	if _, ok := m.Get(2); ok {
		t.Errorf("Expected key 2 to be gone after Remove")
	}
	if _, ok := m.Remove(2); ok {
		t.Errorf("Expected second Remove to return ok=false")
	}
	if got := keys(m, nil); !equalInts(got, []int{1, 3}) {
		t.Errorf("Expected keys [1 3], got %v", got)
	}
}

func testUpdate(t *testing.T, m omap.OrderedMap[int, int]) {
	m.Set(1, 10)

	ok := m.Update(1, func(v *int) {
		*v += 5
	})
	if !ok {
		t.Fatalf("Expected Update to return ok=true for existing key")
	}
	if value, _ := m.Get(1); value != 15 {
		t.Errorf("Expected updated value %d, got %d", 15, value)
	}

	called := false
	if m.Update(2, func(*int) { called = true }) {
		t.Errorf("Expected Update to return ok=false for missing key")
	}
	if called {
		t.Errorf("Expected Update not to call fn for missing key")
	}
	if m.Len() != 1 {
		t.Errorf("Expected Update not to insert keys, got length %d", m.Len())
	}
}

func testDrainLoad(t *testing.T, m omap.OrderedMap[int, int]) {
	for _, k := range []int{3, 1, 2} {
		m.Set(k, k*100)
	}

	entries := m.Drain()
	if m.Len() != 0 {
		t.Errorf("Expected empty map after Drain, got length %d", m.Len())
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 drained entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Key != i+1 || e.Value != (i+1)*100 {
			t.Errorf("Expected drained entry %d to be {%d %d}, got %v", i, i+1, (i+1)*100, e)
		}
	}

	// changing the drained slice must not affect the map
	entries[0].Value = -1

	// load in reverse order
	reversed := []omap.Entry[int, int]{entries[2], entries[1], entries[0]}
	if err := m.Load(reversed); err != nil {
		t.Fatalf("Unexpected error on Load: %v", err)
	}
	if got := keys(m, nil); !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("Expected keys [1 2 3] after Load, got %v", got)
	}
	if value, _ := m.Get(1); value != -1 {
		t.Errorf("Expected loaded value -1, got %d", value)
	}

	// the map keeps its own copy of the loaded entries
	reversed[0].Value = 999
	if value, _ := m.Get(3); value != 300 {
		t.Errorf("Expected value 300 after modifying the input slice, got %d", value)
	}

	// Load into a non-empty map
	if err := m.Load([]omap.Entry[int, int]{{Key: 0, Value: 0}, {Key: 4, Value: 400}}); err != nil {
		t.Fatalf("Unexpected error on Load: %v", err)
	}
	if got := keys(m, nil); !equalInts(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("Expected keys [0 1 2 3 4] after second Load, got %v", got)
	}
}

func testLoadDuplicate(t *testing.T, factory MapFactory) {
	m := factory()
	err := m.Load([]omap.Entry[int, int]{{Key: 1, Value: 1}, {Key: 2, Value: 2}, {Key: 1, Value: 3}})
	if !errors.Is(err, omap.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for duplicate input keys, got %v", err)
	}

	m = factory()
	m.Set(5, 5)
	err = m.Load([]omap.Entry[int, int]{{Key: 5, Value: 6}})
	if !errors.Is(err, omap.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for a key already present, got %v", err)
	}
	if value, _ := m.Get(5); value != 5 {
		t.Errorf("Expected existing value 5 to be kept, got %d", value)
	}
}

func testInfo(t *testing.T, m omap.OrderedMap[int, int]) {
	m.Set(1, 1)
	m.Set(2, 2)

	info := m.Info()
	if info.Len != 2 {
		t.Errorf("Expected Info().Len 2, got %d", info.Len)
	}
	if info.Impl == "" {
		t.Errorf("Expected Info().Impl to be set")
	}
}

func testRealisticUsage(t *testing.T, m omap.OrderedMap[int, int]) {
	r := rand.New(rand.NewSource(7))
	reference := make(map[int]int)

	for i := 0; i < 5000; i++ {
		k := r.Intn(1000)
		switch r.Intn(4) {
		case 0, 1:
			m.Set(k, i)
			reference[k] = i
		case 2:
			_, ok := m.Remove(k)
			_, expected := reference[k]
			if ok != expected {
				t.Fatalf("Remove(%d): expected ok=%v, got %v", k, expected, ok)
			}
			delete(reference, k)
		case 3:
			ok := m.Update(k, func(v *int) { *v++ })
			if _, expected := reference[k]; ok != expected {
				t.Fatalf("Update(%d): expected ok=%v, got %v", k, expected, ok)
			}
			if ok {
				reference[k]++
			}
		}
	}

	if m.Len() != len(reference) {
		t.Fatalf("Expected length %d, got %d", len(reference), m.Len())
	}

	expectedKeys := make([]int, 0, len(reference))
	for k := range reference {
		expectedKeys = append(expectedKeys, k)
	}
	sort.Ints(expectedKeys)

	if got := keys(m, nil); !equalInts(got, expectedKeys) {
		t.Errorf("Expected keys to match the reference map")
	}
	for k, v := range m.All() {
		if reference[k] != v {
			t.Errorf("Expected value %d for key %d, got %d", reference[k], k, v)
		}
	}
}
