package registry

import (
	"strings"

	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/project"
)

// Plan is the dependency-ordered, deduplicated sequence of target instances
// to process for a request. Every dependency precedes its dependents; no
// instance appears twice.
type Plan struct {
	instances []*project.Instance
	deps      map[string][]string
}

// Instances returns the plan entries in execution order.
func (p *Plan) Instances() []*project.Instance {
	return p.instances
}

// Len returns the number of plan entries.
func (p *Plan) Len() int {
	return len(p.instances)
}

// Keys returns the instance keys in execution order.
func (p *Plan) Keys() []string {
	keys := make([]string, len(p.instances))
	for i, inst := range p.instances {
		keys[i] = inst.Key()
	}
	return keys
}

// DependencyKeys returns the direct dependency instance keys of the given
// plan entry.
func (p *Plan) DependencyKeys(key string) []string {
	return p.deps[key]
}

// ResolvePlan expands the requested target names into an execution plan for
// the given architecture. The expansion is depth first; each target is
// appended after its transitive dependencies, so the first occurrence already
// sorts before every dependent regardless of which dependent discovered it.
// Cycles and unknown names are fatal, as is a dependency edge to a target
// that supports neither the requested architecture nor the host.
func (r *Registry) ResolvePlan(requested []string, arch domain.Architecture, snap *config.Snapshot, layout project.Layout) (*Plan, error) {
	plan := &Plan{deps: make(map[string][]string)}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int)
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		spec, ok := r.Lookup(name)
		if !ok {
			return unknownTarget(name)
		}

		state[name] = visiting
		path = append(path, name)

		inst, err := r.Instantiate(name, arch, snap, layout)
		if err != nil {
			return err
		}

		depNames := spec.DependencyNames(snap)
		depKeys := make([]string, 0, len(depNames))
		for _, dep := range depNames {
			switch state[dep] {
			case visiting:
				return cycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
			depInst, err := r.Instantiate(dep, arch, snap, layout)
			if err != nil {
				return err
			}
			depKeys = append(depKeys, depInst.Key())
		}

		state[name] = visited
		path = path[:len(path)-1]
		plan.deps[inst.Key()] = depKeys
		plan.instances = append(plan.instances, inst)
		return nil
	}

	for _, name := range requested {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}
	return plan, nil
}

// cycleError constructs the fatal cycle error, naming the full cycle path.
func cycleError(path []string, dep string) error {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}
	cycle := strings.Join(append(append([]string{}, path[start:]...), dep), " -> ")
	return domain.Annotate(domain.ErrCyclicDependency, "cycle", cycle)
}
