// Package merge coalesces entries of an omap.OrderedMap under a caller-supplied
// predicate and absorb function.
//
// Two algorithms are provided:
//
//   - MergeConsecutive: one forward pass over the entries in ascending key order.
//     An entry is absorbed into the current surviving entry if the predicate holds,
//     otherwise it becomes the new current surviving entry. Only entries that are
//     adjacent in the surviving sequence can merge.
//
//   - Merge: a two phase algorithm. Plan scans the map without modifying it and
//     records (destination, source) instructions; Apply then removes every source
//     and folds it into its destination. A destination absorbs every following entry
//     that matches it until the first mismatch, so non-adjacent entries merge as long
//     as every entry in between matches the same destination.
//
// Both algorithms compare candidates with a fixed representative (the first entry of
// a chain), never with the result of the previous absorption:
//
//	{1:1, 2:1, 3:2, 4:2} with "equal values" and "sum"  ->  {1:2, 3:4}
//
// Note on Mutation Safety:
//   - The iterators of an OrderedMap must not be consumed while the map is being
//     mutated. MergeConsecutive therefore takes the whole content out of the map
//     (Drain) and loads the surviving entries back (Load); Merge never mutates during
//     its scan and never iterates while applying.
//   - The predicate and absorb callbacks must not modify the map themselves.
//
// Note on Failures:
//   - Neither algorithm returns an error. A missing key while applying a plan or a
//     failing rebuild means the plan or the engine is broken; this is reported by
//     panicking with an assertion failure (see errors.IsAssertionFailure in
//     github.com/cockroachdb/errors).
//
// All functions are synchronous and not safe for concurrent use on the same map.
package merge
