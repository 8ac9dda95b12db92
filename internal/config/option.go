// Package config implements the process-wide option registry: typed,
// named configuration values with layered overrides and computed defaults.
package config

import (
	"strings"
	"sync"

	"go.trai.ch/dirigent/internal/core/domain"
)

// Kind is the value type of an option.
type Kind int

const (
	// KindBool is a boolean option.
	KindBool Kind = iota
	// KindString is a free-form string option.
	KindString
	// KindPath is a filesystem path option.
	KindPath
	// KindList is a list-of-strings option; raw overrides are comma separated.
	KindList
	// KindEnum is a string option restricted to a closed set of choices.
	KindEnum
)

// String returns the kind name used in help output and errors.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindPath:
		return "path"
	case KindList:
		return "list"
	case KindEnum:
		return "enum"
	}
	return "unknown"
}

// TargetRef is the identity of the target instance an option belongs to,
// passed to computed defaults so they may derive values from it (for example
// an install path from an install root plus the target's lowercase name).
type TargetRef interface {
	TargetName() string
	TargetArchitecture() domain.Architecture
}

// ComputedDefault derives an option's default from the resolved snapshot and
// the owning target. Compute must be pure: same snapshot, same result.
type ComputedDefault struct {
	// Describe is the human-readable stand-in shown in help output, since the
	// concrete value is only known at resolution time.
	Describe string

	// Compute produces the default value.
	Compute func(snap *Snapshot, owner TargetRef) (any, error)
}

// Option is a single registered configurable value. Its effective value is
// resolved at most once per run and is immutable afterwards.
type Option struct {
	// Target scopes the option to one target class; empty means global.
	Target string

	// Name is the option name within its scope.
	Name string

	Kind Kind
	Help string

	// Default is the literal default, used when no override and no computed
	// default apply.
	Default any

	// Computed, when set, takes precedence over Default.
	Computed *ComputedDefault

	// Choices restricts KindEnum values.
	Choices []string

	mu       sync.Mutex
	resolved bool
	value    any
	err      error
}

// QualifiedName returns "target/name" for target-scoped options and "name"
// for global ones.
func (o *Option) QualifiedName() string {
	if o.Target == "" {
		return o.Name
	}
	return o.Target + "/" + o.Name
}

// EnvVar returns the environment variable consulted for this option, e.g.
// prefix DIRIGENT and option "openssh/baremetal" give DIRIGENT_OPENSSH_BAREMETAL.
func (o *Option) EnvVar(prefix string) string {
	mangle := func(s string) string {
		return strings.ToUpper(strings.ReplaceAll(s, "-", "_"))
	}
	if o.Target == "" {
		return prefix + "_" + mangle(o.Name)
	}
	return prefix + "_" + mangle(o.Target) + "_" + mangle(o.Name)
}

// DefaultDescription is the value shown in help output for this option.
func (o *Option) DefaultDescription() string {
	if o.Computed != nil {
		return o.Computed.Describe
	}
	return formatValue(o.Default)
}
