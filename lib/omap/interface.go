package omap

import (
	"iter"

	"github.com/cockroachdb/errors"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplBTree Implementation = "btree"
	ImplSlice Implementation = "slice"
)

// ErrDuplicateKey is returned by Load if the same key appears more than once
var ErrDuplicateKey = errors.New("duplicate key")

// Entry is a single key-value pair of an ordered map
type Entry[K, V any] struct {
	Key   K
	Value V
}

type Info struct {
	Impl Implementation `json:"impl"`
	Len  int            `json:"len"`
}

// --------------------------------------------------------------------------
// Ordered Map Interface
// --------------------------------------------------------------------------

// OrderedMap defines an interface for ordered key-value containers.
// Keys are unique and totally ordered; every traversal yields entries in ascending key order.
// Implementations are not required to be safe for concurrent use and must not be
// mutated while one of the iterators returned by All or From is being consumed.
type OrderedMap[K, V any] interface {

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Len returns the number of entries.
	Len() int

	// All returns an iterator over all entries in ascending key order.
	All() iter.Seq2[K, V]

	// From returns an iterator over all entries with a key greater than or equal to key,
	// in ascending key order. The key does not need to exist.
	From(key K) iter.Seq2[K, V]

	// Get retrieves the value for an exact key.
	// The boolean return value indicates whether a value for the key was found.
	Get(key K) (value V, ok bool)

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set inserts or overwrites the entry for key.
	Set(key K, value V)

	// Remove deletes the entry for key and returns its value.
	// The boolean return value is false if the key was not present.
	Remove(key K) (value V, ok bool)

	// Update calls fn with a pointer to the stored value of key, allowing it to be modified in place.
	// Returns false (without calling fn) if the key is not present. fn must not modify the map.
	Update(key K, fn func(value *V)) (ok bool)

	// --------------------------------------------------------------------------
	// Bulk Operations
	// --------------------------------------------------------------------------

	// Drain removes all entries and returns them in ascending key order.
	// The map is empty afterwards and the caller owns the returned slice.
	Drain() []Entry[K, V]

	// Load inserts all entries, which may be given in any order.
	// If a key occurs twice or is already present ErrDuplicateKey is returned,
	// the content of the map is unspecified in that case.
	Load(entries []Entry[K, V]) (err error)

	// Info returns information about the map.
	Info() Info
}
