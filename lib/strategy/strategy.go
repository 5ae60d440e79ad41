package strategy

import (
	"github.com/ValentinKolb/mapbench/lib/logging"
	"github.com/ValentinKolb/mapbench/lib/merge"
	"github.com/ValentinKolb/mapbench/lib/omap"
	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger(logging.Strategy)

// maxCollectedErrors limits how many callback errors a Binding keeps
const maxCollectedErrors = 10

// Value is a dynamic, JSON-like value
type Value = any

// Entry is an entry of a map with string keys and dynamic values
type Entry = omap.Entry[string, Value]

// PredicateFunc decides whether candidate should be merged into current
type PredicateFunc func(current, candidate Entry) (bool, error)

// AbsorbFunc returns the value of dst after absorbing src
type AbsorbFunc func(dst, src Entry) (Value, error)

// Predicate is a named PredicateFunc
type Predicate struct {
	Name        string
	Description string
	Fn          PredicateFunc
}

// Absorber is a named AbsorbFunc
type Absorber struct {
	Name        string
	Description string
	Fn          AbsorbFunc
}

// --------------------------------------------------------------------------
// Binding
// --------------------------------------------------------------------------

// Binding adapts a Predicate and an Absorber to the callbacks of the merge package.
// A Binding must not be used by concurrent merges.
type Binding struct {
	pred  Predicate
	abs   Absorber
	err   error
	count int
}

// Bind creates a new binding for p and a
func Bind(p Predicate, a Absorber) *Binding {
	return &Binding{pred: p, abs: a}
}

// record stores a callback error
func (b *Binding) record(err error) {
	b.count++
	if b.count <= maxCollectedErrors {
		b.err = errors.CombineErrors(b.err, err)
	}
	plog.Debugf("callback error: %v", err)
}

// Predicate returns the merge predicate. Errors count as "no match".
func (b *Binding) Predicate() merge.Predicate[string, Value] {
	return func(current, candidate Entry) bool {
		ok, err := b.pred.Fn(current, candidate)
		if err != nil {
			b.record(errors.Wrapf(err, "predicate %s(%q, %q)", b.pred.Name, current.Key, candidate.Key))
			return false
		}
		return ok
	}
}

// Absorb returns the absorb callback for merge.MergeConsecutive
func (b *Binding) Absorb() merge.AbsorbFunc[string, Value] {
	return func(dstKey string, dst *Value, srcKey string, src *Value) {
		b.absorb(dstKey, dst, srcKey, *src)
	}
}

// AbsorbOwned returns the absorb callback for merge.Merge and merge.Apply
func (b *Binding) AbsorbOwned() merge.AbsorbOwnedFunc[string, Value] {
	return b.absorb
}

func (b *Binding) absorb(dstKey string, dst *Value, srcKey string, src Value) {
	v, err := b.abs.Fn(Entry{Key: dstKey, Value: *dst}, Entry{Key: srcKey, Value: src})
	if err != nil {
		b.record(errors.Wrapf(err, "absorber %s(%q <- %q)", b.abs.Name, dstKey, srcKey))
		return
	}
	*dst = v
}

// Failures returns the number of failed callbacks
func (b *Binding) Failures() int {
	return b.count
}

// Err returns nil if no callback failed so far. Otherwise it returns the first error,
// further errors are attached as secondary errors (see errors.CombineErrors).
func (b *Binding) Err() error {
	if b.err == nil {
		return nil
	}
	return errors.Wrapf(b.err, "%d callback(s) failed, first error", b.count)
}
