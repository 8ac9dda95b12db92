package config

import (
	"slices"
	"strings"
	"sync"

	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/zerr"
)

// Registry is the process-wide store of configurable options, keyed by
// qualified name. It is populated during a single declaration pass that runs
// before any target instance is constructed, so help output and persisted
// config validation can enumerate every option without building instances.
type Registry struct {
	mu      sync.RWMutex
	options map[string]*Option
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		options: make(map[string]*Option),
	}
}

// Register adds an option. Options carry their resolution state, so the
// registry takes ownership of the pointer; callers must not register the same
// Option value twice. It returns the stored handle, or
// domain.ErrDuplicateOption if the (target, name) pair is already registered.
func (r *Registry) Register(opt *Option) (*Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	qualified := opt.QualifiedName()
	if _, exists := r.options[qualified]; exists {
		return nil, domain.Annotate(domain.ErrDuplicateOption, "option", qualified)
	}

	r.options[qualified] = opt
	return opt, nil
}

// Lookup returns the option registered for (target, name).
func (r *Registry) Lookup(target, name string) (*Option, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o := Option{Target: target, Name: name}
	opt, ok := r.options[o.QualifiedName()]
	return opt, ok
}

// All returns every registered option sorted by qualified name, for help
// output and deterministic iteration.
func (r *Registry) All() []*Option {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := make([]*Option, 0, len(r.options))
	for _, opt := range r.options {
		opts = append(opts, opt)
	}
	slices.SortFunc(opts, func(a, b *Option) int {
		return strings.Compare(a.QualifiedName(), b.QualifiedName())
	})
	return opts
}

// ValidateOverrides checks that every key in an override map (persisted file
// or command line) names a registered option.
func (r *Registry) ValidateOverrides(values map[string]string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if _, ok := r.options[k]; !ok {
			err := domain.Annotate(domain.ErrBadOptionValue, "option", k)
			return zerr.With(err, "hint", "run 'dirigent list' to see all known options")
		}
	}
	return nil
}
