package btree

import (
	"cmp"
	"iter"

	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/cockroachdb/errors"
	gbtree "github.com/google/btree"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	defaultDegree = 32 // Default branching factor of the tree
)

// --------------------------------------------------------------------------
// Core structure
// --------------------------------------------------------------------------

// item is the element stored in the tree. value is a pointer so it can be mutated in place.
type item[K, V any] struct {
	key   K
	value *V
}

// btreeImpl implements omap.OrderedMap using a google/btree BTreeG
type btreeImpl[K, V any] struct {
	tree *gbtree.BTreeG[item[K, V]]
}

// Options configures the btree map during initialization
type Options struct {
	Degree int // Branching factor of the tree (0 = use default)
}

// DefaultOptions returns the default btree options
func DefaultOptions() *Options {
	return &Options{
		Degree: defaultDegree,
	}
}

// --------------------------------------------------------------------------
// Initialization
// --------------------------------------------------------------------------

// New creates an empty ordered map for keys with a natural ordering (options are optional).
func New[K cmp.Ordered, V any](opts *Options) omap.OrderedMap[K, V] {
	return NewFunc[K, V](cmp.Compare[K], opts)
}

// NewFunc creates an empty ordered map ordered by compare (options are optional).
// compare must return a negative number, zero or a positive number like cmp.Compare.
func NewFunc[K, V any](compare func(a, b K) int, opts *Options) omap.OrderedMap[K, V] {
	if opts == nil {
		opts = DefaultOptions()
	}
	degree := opts.Degree
	if degree < 2 {
		degree = defaultDegree
	}

	less := func(a, b item[K, V]) bool {
		return compare(a.key, b.key) < 0
	}

	return &btreeImpl[K, V]{
		tree: gbtree.NewG[item[K, V]](degree, less),
	}
}

// searchKey creates an item that is only used to search the tree
func searchKey[K, V any](key K) item[K, V] {
	return item[K, V]{key: key}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see omap.OrderedMap)
// --------------------------------------------------------------------------

func (m *btreeImpl[K, V]) Len() int {
	return m.tree.Len()
}

func (m *btreeImpl[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.tree.Ascend(func(it item[K, V]) bool {
			return yield(it.key, *it.value)
		})
	}
}

func (m *btreeImpl[K, V]) From(key K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.tree.AscendGreaterOrEqual(searchKey[K, V](key), func(it item[K, V]) bool {
			return yield(it.key, *it.value)
		})
	}
}

func (m *btreeImpl[K, V]) Get(key K) (V, bool) {
	it, ok := m.tree.Get(searchKey[K, V](key))
	if !ok {
		var zero V
		return zero, false
	}
	return *it.value, true
}

func (m *btreeImpl[K, V]) Set(key K, value V) {
	// overwrite in place if the key already exists
	if it, ok := m.tree.Get(searchKey[K, V](key)); ok {
		*it.value = value
		return
	}
	m.tree.ReplaceOrInsert(item[K, V]{key: key, value: &value})
}

func (m *btreeImpl[K, V]) Remove(key K) (V, bool) {
	it, ok := m.tree.Delete(searchKey[K, V](key))
	if !ok {
		var zero V
		return zero, false
	}
	return *it.value, true
}

func (m *btreeImpl[K, V]) Update(key K, fn func(value *V)) bool {
	it, ok := m.tree.Get(searchKey[K, V](key))
	if !ok {
		return false
	}
	fn(it.value)
	return true
}

func (m *btreeImpl[K, V]) Drain() []omap.Entry[K, V] {
	entries := make([]omap.Entry[K, V], 0, m.tree.Len())
	m.tree.Ascend(func(it item[K, V]) bool {
		entries = append(entries, omap.Entry[K, V]{Key: it.key, Value: *it.value})
		return true
	})
	m.tree.Clear(true)
	return entries
}

func (m *btreeImpl[K, V]) Load(entries []omap.Entry[K, V]) error {
	for i := range entries {
		if m.tree.Has(searchKey[K, V](entries[i].Key)) {
			return errors.Wrapf(omap.ErrDuplicateKey, "load entry %d (key %v)", i, entries[i].Key)
		}
		value := entries[i].Value
		m.tree.ReplaceOrInsert(item[K, V]{key: entries[i].Key, value: &value})
	}
	return nil
}

func (m *btreeImpl[K, V]) Info() omap.Info {
	return omap.Info{
		Impl: omap.ImplBTree,
		Len:  m.tree.Len(),
	}
}
