package merge

import (
	"github.com/ValentinKolb/mapbench/lib/logging"
	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger(logging.Merge)

// Predicate decides whether candidate should be merged into current
type Predicate[K, V any] func(current, candidate omap.Entry[K, V]) bool

// AbsorbFunc folds the value of src into dst. Both values may be modified, keys must not be.
type AbsorbFunc[K, V any] func(dstKey K, dst *V, srcKey K, src *V)

// AbsorbOwnedFunc folds src into dst. src has already been removed from the map and is owned by the callee.
type AbsorbOwnedFunc[K, V any] func(dstKey K, dst *V, srcKey K, src V)

// Instruction tells Apply to absorb the entry of Source into the entry of Destination
// and to discard Source afterwards.
type Instruction[K any] struct {
	Destination K
	Source      K
}

// Cloner can be implemented by key and value types that reference shared memory
// (pointers, maps, slices). Plan stores Clone() of such keys instead of a plain copy,
// MergeConsecutive compares candidates with Clone() of the chain's first value.
type Cloner[T any] interface {
	Clone() T
}

// cloneKey returns an independent copy of key
func cloneKey[K any](key K) K {
	if c, ok := any(key).(Cloner[K]); ok {
		return c.Clone()
	}
	return key
}

// cloneValue returns a copy of value that absorb can not modify through shared memory
func cloneValue[V any](value V) V {
	if c, ok := any(value).(Cloner[V]); ok {
		return c.Clone()
	}
	return value
}
