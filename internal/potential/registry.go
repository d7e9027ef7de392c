package potential

import (
	"fmt"
	"sort"

	"github.com/san-kum/mdforce/internal/dynamo"
)

// Registry maps potential names to constructors.
type Registry struct {
	potentials map[string]func() dynamo.Potential
}

// Default holds the built-in potentials.
var Default = NewRegistry()

func NewRegistry() *Registry {
	r := &Registry{
		potentials: make(map[string]func() dynamo.Potential),
	}

	r.potentials["yukawa"] = func() dynamo.Potential { return Yukawa{} }
	r.potentials["coulomb"] = func() dynamo.Potential { return Coulomb{} }
	r.potentials["lj"] = func() dynamo.Potential { return LennardJones{} }

	return r
}

func (r *Registry) Register(name string, fn func() dynamo.Potential) {
	r.potentials[name] = fn
}

func (r *Registry) Get(name string) (dynamo.Potential, error) {
	fn, ok := r.potentials[name]
	if !ok {
		return nil, fmt.Errorf("unknown potential: %s", name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.potentials))
	for name := range r.potentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
