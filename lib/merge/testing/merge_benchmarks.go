package testing

import (
	"math/rand"
	"testing"

	"github.com/ValentinKolb/mapbench/lib/merge"
	"github.com/ValentinKolb/mapbench/lib/omap"
)

const (
	benchEntries      = 1 << 14
	benchMinKeyLength = 4
	benchMaxKeyLength = 8
)

// RunMergeBenchmarks runs all merge benchmarks on top of the maps created by factories
func RunMergeBenchmarks(b *testing.B, name string, factories Factories) {
	entries := wordEntries(rand.New(rand.NewSource(1)), benchEntries)

	b.Run(name+"/MergeConsecutive", func(b *testing.B) {
		benchmarkMergeConsecutive(b, factories, entries)
	})

	b.Run(name+"/Merge", func(b *testing.B) {
		benchmarkMerge(b, factories, entries)
	})

	b.Run(name+"/Plan", func(b *testing.B) {
		benchmarkPlan(b, factories, entries)
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// wordEntries creates n entries with random lowercase keys of 4 to 8 characters
func wordEntries(r *rand.Rand, n int) []omap.Entry[string, int] {
	seen := make(map[string]bool, n)
	entries := make([]omap.Entry[string, int], 0, n)
	buf := make([]byte, benchMaxKeyLength)
	for len(entries) < n {
		l := benchMinKeyLength + r.Intn(benchMaxKeyLength-benchMinKeyLength+1)
		for i := 0; i < l; i++ {
			buf[i] = byte('a' + r.Intn(26))
		}
		key := string(buf[:l])
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, omap.Entry[string, int]{Key: key, Value: len(entries)})
	}
	return entries
}

func sameKeyLength(a, b omap.Entry[string, int]) bool {
	return len(a.Key) == len(b.Key)
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkMergeConsecutive(b *testing.B, factories Factories, entries []omap.Entry[string, int]) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		m := fill(b, factories.Words, entries...)
		b.StartTimer()

		merge.MergeConsecutive(m, sameKeyLength, sumConsecutive[string])
	}
}

func benchmarkMerge(b *testing.B, factories Factories, entries []omap.Entry[string, int]) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		m := fill(b, factories.Words, entries...)
		b.StartTimer()

		merge.Merge(m, sameKeyLength, sumOwned[string])
	}
}

func benchmarkPlan(b *testing.B, factories Factories, entries []omap.Entry[string, int]) {
	m := fill(b, factories.Words, entries...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = merge.Plan(m, sameKeyLength)
	}
}
