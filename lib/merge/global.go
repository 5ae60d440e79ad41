package merge

import (
	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/cockroachdb/errors"
)

// Merge merges chains of matching entries, which do not need to be adjacent after merging.
//
// It is the combination of Plan and Apply: first the map is scanned without modification
// and a merge plan is created, then the plan is applied.
func Merge[K, V any](m omap.OrderedMap[K, V], pred Predicate[K, V], absorb AbsorbOwnedFunc[K, V]) {
	if m.Len() < 2 {
		return
	}
	Apply(m, Plan(m, pred), absorb)
}

// Plan scans m in ascending key order and returns the merge instructions without modifying m.
//
// A "current" entry (initially the first one) is compared with every following entry ("next").
// If pred(current, next) holds, the instruction (current, next) is recorded and only next advances.
// Otherwise current is re-seated at next's key and the comparison continues with the entry after it.
//
// Because current only moves forward, a key used as a destination is never used as a source,
// and every key is used as a source at most once.
func Plan[K, V any](m omap.OrderedMap[K, V], pred Predicate[K, V]) []Instruction[K] {
	var (
		plan    []Instruction[K]
		current omap.Entry[K, V]
		started bool
	)

	for key, value := range m.All() {
		next := omap.Entry[K, V]{Key: key, Value: value}
		if !started {
			current = next
			started = true
			continue
		}

		if pred(current, next) {
			plan = append(plan, Instruction[K]{
				Destination: cloneKey(current.Key),
				Source:      cloneKey(next.Key),
			})
			continue
		}

		// mismatch: re-seat current with a range query at next's key.
		// the first entry of that range is next itself, the outer loop continues after it.
		current = seek(m, next.Key, next)
	}

	return plan
}

// seek returns the first entry of a range query starting at key (inclusive).
// Plan only calls it with a present key, so the result is the entry stored under key;
// fallback is returned if the range is empty.
func seek[K, V any](m omap.OrderedMap[K, V], key K, fallback omap.Entry[K, V]) omap.Entry[K, V] {
	for k, v := range m.From(key) {
		return omap.Entry[K, V]{Key: k, Value: v}
	}
	return fallback
}

// Apply executes a plan created by Plan on the same, unmodified map.
//
// For every instruction (in order) the source entry is removed and absorbed into the destination
// entry. Apply never iterates over m. A source or destination that is not present means the plan does
// not belong to m: Apply panics with an assertion failure in that case.
func Apply[K, V any](m omap.OrderedMap[K, V], plan []Instruction[K], absorb AbsorbOwnedFunc[K, V]) {
	for i, instr := range plan {
		src, ok := m.Remove(instr.Source)
		if !ok {
			fail(errors.AssertionFailedf("merge: instruction %d: source %v not found", i, instr.Source))
		}

		ok = m.Update(instr.Destination, func(dst *V) {
			absorb(instr.Destination, dst, instr.Source, src)
		})
		if !ok {
			fail(errors.AssertionFailedf("merge: instruction %d: destination %v not found", i, instr.Destination))
		}
	}

	plog.Debugf("merge: applied %d instructions, %d entries left", len(plan), m.Len())
}

// fail logs an invariant violation and aborts
func fail(err error) {
	plog.Errorf("%v", err)
	panic(err)
}
