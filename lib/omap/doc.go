// Package omap provides a standardized interface for ordered key-value containers.
// It defines the OrderedMap interface consumed by the merge algorithms in
// github.com/ValentinKolb/mapbench/lib/merge and implemented by the engines below.
//
// The package focuses on:
//   - A unified interface for ordered key-value operations
//   - Iteration through Go range-over-func iterators (iter.Seq2)
//   - Ownership transfer of the whole content (Drain) and bulk construction (Load)
//
// Key Components:
//
//   - OrderedMap Interface: ascending iteration (All), range queries from a key
//     inclusive (From), point lookup (Get), point mutation (Update), removal (Remove),
//     bulk operations (Drain, Load) and metadata (Info).
//
//   - Entry: a plain key-value pair used by the bulk operations.
//
//   - Implementation Identifiers: string constants for the available engines
//     ("btree", "slice").
//
// Note on Mutation during Iteration:
//   - The iterators returned by All and From are live views. Mutating the map while
//     such an iterator is being consumed is undefined behaviour for every engine.
//     Code that needs to change the map based on a traversal must first decide what
//     to change (collecting keys) and only then perform the changes.
//
// Related Packages:
//
// The engines/btree package (github.com/ValentinKolb/mapbench/lib/omap/engines/btree) implements
// OrderedMap on top of github.com/google/btree and is the default engine.
//
// The engines/slice package (github.com/ValentinKolb/mapbench/lib/omap/engines/slice) keeps the
// entries in a sorted slice. It is cheaper for small maps and for Drain/Load heavy workloads.
//
// The testing package (github.com/ValentinKolb/mapbench/lib/omap/testing) provides
// standardized tests and benchmarks for implementations of OrderedMap.
package omap
