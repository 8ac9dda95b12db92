package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultEnvPrefix is the prefix for environment variable overrides.
const DefaultEnvPrefix = "DIRIGENT"

// Snapshot is the immutable view of all override sources for one run.
// Resolution applies, in ascending priority: literal default, computed
// default, persisted file value, environment variable, command line.
type Snapshot struct {
	registry   *Registry
	envPrefix  string
	lookupEnv  func(string) (string, bool)
	fileValues map[string]string
	cliValues  map[string]string
}

// SnapshotOption configures a Snapshot.
type SnapshotOption func(*Snapshot)

// WithFileValues seeds the persisted-file override layer.
func WithFileValues(values map[string]string) SnapshotOption {
	return func(s *Snapshot) { s.fileValues = values }
}

// WithCLIValues seeds the command-line override layer.
func WithCLIValues(values map[string]string) SnapshotOption {
	return func(s *Snapshot) { s.cliValues = values }
}

// WithEnvLookup replaces the environment lookup, used by tests.
func WithEnvLookup(fn func(string) (string, bool)) SnapshotOption {
	return func(s *Snapshot) { s.lookupEnv = fn }
}

// NewSnapshot creates a Snapshot over the given registry.
func NewSnapshot(registry *Registry, opts ...SnapshotOption) *Snapshot {
	s := &Snapshot{
		registry:  registry,
		envPrefix: DefaultEnvPrefix,
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the option's effective value. The first resolution is
// cached on the option; repeated calls return the same value for the lifetime
// of the run.
func (s *Snapshot) Resolve(opt *Option, owner TargetRef) (any, error) {
	opt.mu.Lock()
	if opt.resolved {
		value, err := opt.value, opt.err
		opt.mu.Unlock()
		return value, err
	}
	opt.mu.Unlock()

	// Computed defaults may resolve other options through the snapshot, so
	// the lock cannot be held across resolveValue. A concurrent duplicate
	// resolution is harmless: resolution is deterministic, both produce the
	// same value.
	value, err := s.resolveValue(opt, owner)

	opt.mu.Lock()
	if !opt.resolved {
		opt.resolved = true
		opt.value = value
		opt.err = err
	}
	value, err = opt.value, opt.err
	opt.mu.Unlock()
	return value, err
}

func (s *Snapshot) resolveValue(opt *Option, owner TargetRef) (any, error) {
	if raw, ok := s.cliValues[opt.QualifiedName()]; ok {
		return s.parse(opt, raw, "command line")
	}
	if raw, ok := s.lookupEnv(opt.EnvVar(s.envPrefix)); ok {
		return s.parse(opt, raw, "environment")
	}
	if raw, ok := s.fileValues[opt.QualifiedName()]; ok {
		return s.parse(opt, raw, "config file")
	}
	if opt.Computed != nil {
		value, err := opt.Computed.Compute(s, owner)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "computed default failed"), "option", opt.QualifiedName())
		}
		return s.coerce(opt, value)
	}
	return s.coerce(opt, opt.Default)
}

// parse converts a raw string override into the option's kind.
func (s *Snapshot) parse(opt *Option, raw, source string) (any, error) {
	fail := func(reason string) error {
		err := domain.Annotate(domain.ErrBadOptionValue, "option", opt.QualifiedName())
		err = zerr.With(err, "value", raw)
		err = zerr.With(err, "source", source)
		return zerr.With(err, "reason", reason)
	}

	switch opt.Kind {
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fail("not a boolean")
		}
		return v, nil
	case KindString, KindPath:
		return raw, nil
	case KindList:
		if raw == "" {
			return []string(nil), nil
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	case KindEnum:
		for _, choice := range opt.Choices {
			if raw == choice {
				return raw, nil
			}
		}
		return nil, fail("must be one of: " + strings.Join(opt.Choices, ", "))
	}
	return nil, fail("unknown option kind")
}

// coerce validates that a default (literal or computed) matches the option's
// kind, normalizing nil defaults to the kind's zero value.
func (s *Snapshot) coerce(opt *Option, value any) (any, error) {
	fail := func() error {
		err := domain.Annotate(domain.ErrBadOptionValue, "option", opt.QualifiedName())
		return zerr.With(err, "reason", fmt.Sprintf("default %T does not match kind %s", value, opt.Kind))
	}

	switch opt.Kind {
	case KindBool:
		if value == nil {
			return false, nil
		}
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case KindString, KindPath:
		if value == nil {
			return "", nil
		}
		if v, ok := value.(string); ok {
			return v, nil
		}
	case KindList:
		if value == nil {
			return []string(nil), nil
		}
		if v, ok := value.([]string); ok {
			return v, nil
		}
	case KindEnum:
		if v, ok := value.(string); ok {
			for _, choice := range opt.Choices {
				if v == choice {
					return v, nil
				}
			}
		}
	}
	return nil, fail()
}

// Bool resolves a registered bool option by (target, name).
func (s *Snapshot) Bool(target, name string, owner TargetRef) (bool, error) {
	value, err := s.lookupAndResolve(target, name, owner)
	if err != nil {
		return false, err
	}
	return value.(bool), nil
}

// String resolves a registered string or enum option by (target, name).
func (s *Snapshot) String(target, name string, owner TargetRef) (string, error) {
	value, err := s.lookupAndResolve(target, name, owner)
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Path resolves a registered path option by (target, name).
func (s *Snapshot) Path(target, name string, owner TargetRef) (string, error) {
	return s.String(target, name, owner)
}

// List resolves a registered list option by (target, name).
func (s *Snapshot) List(target, name string, owner TargetRef) ([]string, error) {
	value, err := s.lookupAndResolve(target, name, owner)
	if err != nil {
		return nil, err
	}
	return value.([]string), nil
}

func (s *Snapshot) lookupAndResolve(target, name string, owner TargetRef) (any, error) {
	opt, ok := s.registry.Lookup(target, name)
	if !ok {
		o := Option{Target: target, Name: name}
		return nil, zerr.With(zerr.New("option not registered"), "option", o.QualifiedName())
	}
	return s.Resolve(opt, owner)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}
