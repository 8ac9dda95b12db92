// Package registry maps target names to specs and instances and resolves
// dependency-ordered execution plans.
package registry

import (
	"slices"
	"sync"

	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/project"
	"go.trai.ch/zerr"
)

// Registry holds every registered target class and memoizes instances per
// (name, architecture) pair for the lifetime of a run.
type Registry struct {
	mu        sync.RWMutex
	specs     map[string]*project.Spec
	instances map[string]*project.Instance
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		specs:     make(map[string]*project.Spec),
		instances: make(map[string]*project.Instance),
	}
}

// Register adds a target class. It returns domain.ErrDuplicateTarget if the
// name is already taken.
func (r *Registry) Register(spec *project.Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[spec.Name]; exists {
		return domain.Annotate(domain.ErrDuplicateTarget, "target", spec.Name)
	}
	r.specs[spec.Name] = spec
	return nil
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (*project.Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns every registered target name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetupOptions runs the option declaration pass for every registered class,
// in sorted name order so registration is deterministic. It must run before
// any instance is constructed.
func (r *Registry) SetupOptions(optReg *config.Registry) error {
	for _, name := range r.Names() {
		spec, _ := r.Lookup(name)
		if err := spec.SetupOptions(optReg); err != nil {
			return zerr.With(zerr.Wrap(err, "option setup failed"), "target", name)
		}
	}
	return nil
}

// instanceArch picks the architecture a target builds for within a plan
// requested for arch: the requested architecture when supported, otherwise
// the host for host-only targets (toolchains, emulators). Anything else is a
// fatal resolution error surfaced by Instantiate.
func instanceArch(spec *project.Spec, arch domain.Architecture) domain.Architecture {
	if !spec.Supports(arch) && spec.HostOnly() {
		return domain.ArchNative
	}
	return arch
}

// Instantiate returns the instance for (name, architecture), constructing it
// on first use. Repeated calls within a run return the same instance.
func (r *Registry) Instantiate(name string, arch domain.Architecture, snap *config.Snapshot, layout project.Layout) (*project.Instance, error) {
	spec, ok := r.Lookup(name)
	if !ok {
		return nil, unknownTarget(name)
	}
	arch = instanceArch(spec, arch)

	r.mu.Lock()
	defer r.mu.Unlock()

	key := name + "@" + arch.String()
	if inst, ok := r.instances[key]; ok {
		return inst, nil
	}

	inst, err := project.NewInstance(spec, arch, snap, layout)
	if err != nil {
		return nil, err
	}
	r.instances[key] = inst
	return inst, nil
}

func unknownTarget(name string) error {
	err := domain.Annotate(domain.ErrUnknownTarget, "target", name)
	return zerr.With(err, "hint", "run 'dirigent list' to see all known targets")
}
