package merge

import (
	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/cockroachdb/errors"
)

// MergeConsecutive merges entries that are adjacent in the surviving sequence.
//
// The entries are visited in ascending key order. Every candidate is compared with the
// current surviving entry: if pred holds it is absorbed into it (the surviving key does not
// change and the next candidate is compared with the same entry), otherwise the candidate
// becomes the new current surviving entry. Absorbed entries are removed from the map.
//
// pred always sees the surviving entry as it was before its first absorption, so every member
// of a chain has to match the first entry of the chain individually. Values are copied by
// assignment; value types that absorb modifies through shared memory (pointers, maps, slices)
// must implement Cloner, otherwise pred sees the absorbed result.
//
// Maps with fewer than two entries are left untouched.
func MergeConsecutive[K, V any](m omap.OrderedMap[K, V], pred Predicate[K, V], absorb AbsorbFunc[K, V]) {
	n := m.Len()
	if n < 2 {
		return
	}

	// take ownership of all entries; the map stays empty until the rebuild
	entries := m.Drain()

	// the surviving entries are compacted to the front of the same slice.
	// writes never overtake the read position, so every candidate is read before it can be overwritten.
	survivors := entries[:1]
	representative := snapshot(entries[0]) // current surviving entry as it was before any absorption
	for i := 1; i < len(entries); i++ {
		candidate := entries[i]
		if pred(representative, candidate) {
			current := &survivors[len(survivors)-1]
			absorb(current.Key, &current.Value, candidate.Key, &candidate.Value)
		} else {
			survivors = append(survivors, candidate)
			representative = snapshot(candidate)
		}
	}

	// release references held by the unused tail
	clear(entries[len(survivors):])

	if err := m.Load(survivors); err != nil {
		err = errors.NewAssertionErrorWithWrappedErrf(err, "merge consecutive: rebuilding %d surviving entries", len(survivors))
		plog.Errorf("%v", err)
		panic(err)
	}

	plog.Debugf("merge consecutive: %d entries -> %d entries", n, len(survivors))
}

// snapshot copies e so that later absorptions into e are not visible in the copy
func snapshot[K, V any](e omap.Entry[K, V]) omap.Entry[K, V] {
	return omap.Entry[K, V]{Key: e.Key, Value: cloneValue(e.Value)}
}
