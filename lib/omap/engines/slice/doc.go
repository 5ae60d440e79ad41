// Package slice implements omap.OrderedMap with a slice of entries kept sorted by key.
//
// Lookups use binary search (O(log n)); insertions and removals shift the tail of
// the slice (O(n)). Drain hands the backing slice to the caller and Load sorts its
// input once, which makes the engine a good fit for rebuild-heavy workloads such
// as merge.MergeConsecutive and for small maps.
//
// The map is not thread-safe. For concurrent use, external synchronization should be applied.
package slice
