package slice

import (
	"cmp"
	"iter"
	"slices"

	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/cockroachdb/errors"
)

// sliceImpl implements omap.OrderedMap using a sorted slice
type sliceImpl[K, V any] struct {
	entries []omap.Entry[K, V] // sorted by key, keys unique
	compare func(a, b K) int
}

// Options configures the slice map during initialization
type Options struct {
	InitialCapacity int // Capacity of the backing slice
}

// DefaultOptions returns the default slice options
func DefaultOptions() *Options {
	return &Options{
		InitialCapacity: 0,
	}
}

// New creates an empty ordered map for keys with a natural ordering (options are optional).
func New[K cmp.Ordered, V any](opts *Options) omap.OrderedMap[K, V] {
	return NewFunc[K, V](cmp.Compare[K], opts)
}

// NewFunc creates an empty ordered map ordered by compare (options are optional).
func NewFunc[K, V any](compare func(a, b K) int, opts *Options) omap.OrderedMap[K, V] {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &sliceImpl[K, V]{
		entries: make([]omap.Entry[K, V], 0, max(opts.InitialCapacity, 0)),
		compare: compare,
	}
}

// search returns the position of key (or where it would be inserted) and whether it was found
func (m *sliceImpl[K, V]) search(key K) (int, bool) {
	return slices.BinarySearchFunc(m.entries, key, func(e omap.Entry[K, V], k K) int {
		return m.compare(e.Key, k)
	})
}

// --------------------------------------------------------------------------
// Interface Methods (docu see omap.OrderedMap)
// --------------------------------------------------------------------------

func (m *sliceImpl[K, V]) Len() int {
	return len(m.entries)
}

func (m *sliceImpl[K, V]) All() iter.Seq2[K, V] {
	return m.seq(0)
}

func (m *sliceImpl[K, V]) From(key K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		pos, _ := m.search(key)
		m.seq(pos)(yield)
	}
}

// seq iterates from position pos to the end of the slice
func (m *sliceImpl[K, V]) seq(pos int) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := pos; i < len(m.entries); i++ {
			if !yield(m.entries[i].Key, m.entries[i].Value) {
				return
			}
		}
	}
}

func (m *sliceImpl[K, V]) Get(key K) (V, bool) {
	pos, found := m.search(key)
	if !found {
		var zero V
		return zero, false
	}
	return m.entries[pos].Value, true
}

func (m *sliceImpl[K, V]) Set(key K, value V) {
	pos, found := m.search(key)
	if found {
		m.entries[pos].Value = value
		return
	}
	m.entries = slices.Insert(m.entries, pos, omap.Entry[K, V]{Key: key, Value: value})
}

func (m *sliceImpl[K, V]) Remove(key K) (V, bool) {
	pos, found := m.search(key)
	if !found {
		var zero V
		return zero, false
	}
	value := m.entries[pos].Value
	m.entries = slices.Delete(m.entries, pos, pos+1)
	return value, true
}

func (m *sliceImpl[K, V]) Update(key K, fn func(value *V)) bool {
	pos, found := m.search(key)
	if !found {
		return false
	}
	fn(&m.entries[pos].Value)
	return true
}

func (m *sliceImpl[K, V]) Drain() []omap.Entry[K, V] {
	entries := m.entries
	m.entries = nil
	return entries
}

func (m *sliceImpl[K, V]) Load(entries []omap.Entry[K, V]) error {
	if len(entries) == 0 {
		return nil
	}

	// fast path: empty map, copy and sort once
	if len(m.entries) == 0 {
		sorted := slices.Clone(entries)
		slices.SortStableFunc(sorted, func(a, b omap.Entry[K, V]) int {
			return m.compare(a.Key, b.Key)
		})
		for i := 1; i < len(sorted); i++ {
			if m.compare(sorted[i-1].Key, sorted[i].Key) == 0 {
				return errors.Wrapf(omap.ErrDuplicateKey, "load (key %v)", sorted[i].Key)
			}
		}
		m.entries = sorted
		return nil
	}

	for i := range entries {
		pos, found := m.search(entries[i].Key)
		if found {
			return errors.Wrapf(omap.ErrDuplicateKey, "load entry %d (key %v)", i, entries[i].Key)
		}
		m.entries = slices.Insert(m.entries, pos, entries[i])
	}
	return nil
}

func (m *sliceImpl[K, V]) Info() omap.Info {
	return omap.Info{
		Impl: omap.ImplSlice,
		Len:  len(m.entries),
	}
}
