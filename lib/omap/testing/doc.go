// Package testing provides standardised tests and benchmarks for
// ordered map implementations that satisfy the omap.OrderedMap interface.
//
// The package contains:
//   - testing: A test suite for validating conformance to the OrderedMap interface contract
//   - benchmark: Performance tests for measuring throughput of common map operations
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() omap.OrderedMap[int, int] {
//		return NewMyMap[int, int]()
//	}
//
//	// Running the standard test suite
//	omaptesting.RunOrderedMapTests(t, "MyMap", factory)
//
//	// Running performance benchmarks
//	omaptesting.RunOrderedMapBenchmarks(b, "MyMap", factory)
package testing
