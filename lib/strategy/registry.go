package strategy

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/puzpuzpuz/xsync/v3"
)

// ErrUnknownStrategy is returned if a predicate or absorber is not registered
var ErrUnknownStrategy = errors.New("unknown strategy")

// Registry holds named predicates and absorbers.
//
// Thread-safety: all methods are thread-safe and can be called concurrently.
type Registry struct {
	predicates *xsync.MapOf[string, Predicate]
	absorbers  *xsync.MapOf[string, Absorber]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		predicates: xsync.NewMapOf[string, Predicate](),
		absorbers:  xsync.NewMapOf[string, Absorber](),
	}
}

// DefaultRegistry creates a registry containing all built-in strategies
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range []Predicate{EqualValue, EqualKeyLength, EqualValueLength, Always} {
		r.mustRegisterPredicate(p)
	}
	for _, a := range []Absorber{Sum, Concat, Append, Max, Min, First, Last} {
		r.mustRegisterAbsorber(a)
	}
	return r
}

// --------------------------------------------------------------------------
// Registration
// --------------------------------------------------------------------------

// RegisterPredicate adds p to the registry. Names must be unique.
func (r *Registry) RegisterPredicate(p Predicate) error {
	if p.Name == "" || p.Fn == nil {
		return errors.New("predicate needs a name and a function")
	}
	if _, loaded := r.predicates.LoadOrStore(p.Name, p); loaded {
		return errors.Newf("predicate %q is already registered", p.Name)
	}
	plog.Debugf("registered predicate %s", p.Name)
	return nil
}

// RegisterAbsorber adds a to the registry. Names must be unique.
func (r *Registry) RegisterAbsorber(a Absorber) error {
	if a.Name == "" || a.Fn == nil {
		return errors.New("absorber needs a name and a function")
	}
	if _, loaded := r.absorbers.LoadOrStore(a.Name, a); loaded {
		return errors.Newf("absorber %q is already registered", a.Name)
	}
	plog.Debugf("registered absorber %s", a.Name)
	return nil
}

func (r *Registry) mustRegisterPredicate(p Predicate) {
	if err := r.RegisterPredicate(p); err != nil {
		panic(err)
	}
}

func (r *Registry) mustRegisterAbsorber(a Absorber) {
	if err := r.RegisterAbsorber(a); err != nil {
		panic(err)
	}
}

// --------------------------------------------------------------------------
// Lookup
// --------------------------------------------------------------------------

// Predicate returns the predicate registered under name
func (r *Registry) Predicate(name string) (Predicate, error) {
	p, ok := r.predicates.Load(name)
	if !ok {
		return Predicate{}, errors.Wrapf(ErrUnknownStrategy, "predicate %q", name)
	}
	return p, nil
}

// Absorber returns the absorber registered under name
func (r *Registry) Absorber(name string) (Absorber, error) {
	a, ok := r.absorbers.Load(name)
	if !ok {
		return Absorber{}, errors.Wrapf(ErrUnknownStrategy, "absorber %q", name)
	}
	return a, nil
}

// Predicates returns all registered predicates sorted by name
func (r *Registry) Predicates() []Predicate {
	result := make([]Predicate, 0, r.predicates.Size())
	r.predicates.Range(func(_ string, p Predicate) bool {
		result = append(result, p)
		return true
	})
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Absorbers returns all registered absorbers sorted by name
func (r *Registry) Absorbers() []Absorber {
	result := make([]Absorber, 0, r.absorbers.Size())
	r.absorbers.Range(func(_ string, a Absorber) bool {
		result = append(result, a)
		return true
	})
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
