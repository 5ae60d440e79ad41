package testing

import (
	"testing"

	"github.com/ValentinKolb/mapbench/lib/omap"
)

const benchSize = 1 << 14

// RunOrderedMapBenchmarks runs all benchmarks for an OrderedMap implementation
func RunOrderedMapBenchmarks(b *testing.B, name string, factory MapFactory) {
	b.Run(name+"/Set", func(b *testing.B) {
		benchmarkSet(b, factory())
	})

	b.Run(name+"/Get", func(b *testing.B) {
		benchmarkGet(b, prefilled(b, factory))
	})

	b.Run(name+"/Update", func(b *testing.B) {
		benchmarkUpdate(b, prefilled(b, factory))
	})

	b.Run(name+"/All", func(b *testing.B) {
		benchmarkAll(b, prefilled(b, factory))
	})

	b.Run(name+"/From", func(b *testing.B) {
		benchmarkFrom(b, prefilled(b, factory))
	})

	b.Run(name+"/Drain&Load", func(b *testing.B) {
		benchmarkDrainLoad(b, prefilled(b, factory))
	})
}

// prefilled creates a map with benchSize entries
func prefilled(b *testing.B, factory MapFactory) omap.OrderedMap[int, int] {
	b.Helper()
	m := factory()
	for i := 0; i < benchSize; i++ {
		m.Set(i, i)
	}
	return m
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkSet(b *testing.B, m omap.OrderedMap[int, int]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Set(i%benchSize, i)
	}
}

func benchmarkGet(b *testing.B, m omap.OrderedMap[int, int]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Get(i % benchSize)
	}
}

func benchmarkUpdate(b *testing.B, m omap.OrderedMap[int, int]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Update(i%benchSize, func(v *int) { *v++ })
	}
}

func benchmarkAll(b *testing.B, m omap.OrderedMap[int, int]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		total := 0
		for _, v := range m.All() {
			total += v
		}
		_ = total
	}
}

func benchmarkFrom(b *testing.B, m omap.OrderedMap[int, int]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range m.From(i % benchSize) {
			break
		}
	}
}

func benchmarkDrainLoad(b *testing.B, m omap.OrderedMap[int, int]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Load(m.Drain()); err != nil {
			b.Fatalf("Unexpected error on Load: %v", err)
		}
	}
}
