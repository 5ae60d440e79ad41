// Package btree implements omap.OrderedMap on top of the generic B-tree of
// github.com/google/btree.
//
// Entries are stored as (key, *value) items so that Update can modify a value
// in place without re-inserting the item. Point operations are O(log n),
// All and From are lazy in-order walks of the tree.
//
// The map is not thread-safe. For concurrent use, external synchronization should be applied.
package btree
