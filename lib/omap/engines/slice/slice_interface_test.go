package slice

import (
	"testing"

	mergetesting "github.com/ValentinKolb/mapbench/lib/merge/testing"
	"github.com/ValentinKolb/mapbench/lib/omap"
	omaptesting "github.com/ValentinKolb/mapbench/lib/omap/testing"
)

var factories = mergetesting.Factories{
	Ints:     func() omap.OrderedMap[int, int] { return New[int, int](nil) },
	Strings:  func() omap.OrderedMap[int, string] { return New[int, string](nil) },
	Words:    func() omap.OrderedMap[string, int] { return New[string, int](nil) },
	Counters: func() omap.OrderedMap[int, *mergetesting.Counter] { return New[int, *mergetesting.Counter](nil) },
}

func Test(t *testing.T) {
	omaptesting.RunOrderedMapTests(t, "Slice", func() omap.OrderedMap[int, int] {
		return New[int, int](&Options{InitialCapacity: 16})
	})
	mergetesting.RunMergeTests(t, "Slice", factories)
}

func TestDrainHandsOverEntries(t *testing.T) {
	m := New[int, int](nil)
	for i := 5; i > 0; i-- {
		m.Set(i, i)
	}

	entries := m.Drain()
	if len(entries) != 5 {
		t.Fatalf("Expected 5 entries, got %d", len(entries))
	}

	// the map must not share memory with the drained slice anymore
	m.Set(10, 10)
	if entries[0].Key != 1 {
		t.Errorf("Expected drained slice to be unaffected by later writes, got first key %d", entries[0].Key)
	}
}

func Benchmark(b *testing.B) {
	omaptesting.RunOrderedMapBenchmarks(b, "Slice", func() omap.OrderedMap[int, int] {
		return New[int, int](nil)
	})
	mergetesting.RunMergeBenchmarks(b, "Slice", factories)
}
