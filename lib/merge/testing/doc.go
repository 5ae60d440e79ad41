// Package testing provides standardised tests and benchmarks for the merge
// algorithms of github.com/ValentinKolb/mapbench/lib/merge, run on top of any
// omap.OrderedMap implementation.
//
// The package contains:
//   - testing: the behavioural properties of MergeConsecutive and Merge (no-op,
//     value conservation, subset, adjacency, fixed destination, values sharing memory)
//   - benchmark: throughput of both merges on string keyed maps
//
// Example usage:
//
//	// Creating the factories for your implementation
//	factories := mergetesting.Factories{
//		Ints:     func() omap.OrderedMap[int, int] { return NewMyMap[int, int]() },
//		Strings:  func() omap.OrderedMap[int, string] { return NewMyMap[int, string]() },
//		Words:    func() omap.OrderedMap[string, int] { return NewMyMap[string, int]() },
//		Counters: func() omap.OrderedMap[int, *mergetesting.Counter] { return NewMyMap[int, *mergetesting.Counter]() },
//	}
//
//	// Running the standard test suite
//	mergetesting.RunMergeTests(t, "MyMap", factories)
//
//	// Running performance benchmarks
//	mergetesting.RunMergeBenchmarks(b, "MyMap", factories)
package testing
