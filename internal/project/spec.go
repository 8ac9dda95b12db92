// Package project implements the target class model: specifications of
// buildable units, their option contributors, and the build-system and
// cross-compilation strategies composed into target instances.
package project

import (
	"context"

	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
)

// DepsFunc produces a target's dependency names from the resolved
// configuration. It is evaluated lazily so dependencies may branch on
// resolved options.
type DepsFunc func(snap *config.Snapshot) []string

// StaticDeps returns a DepsFunc for a fixed dependency list.
func StaticDeps(names ...string) DepsFunc {
	return func(*config.Snapshot) []string { return names }
}

// OptionContributor declares one class-hierarchy level's options for a target.
// Contributors run exactly once per target during the class registration pass,
// in a fixed order: base, build system, cross policy, then spec-specific.
type OptionContributor func(reg *config.Registry, specName string) error

// NextFunc invokes the default behavior a hook wraps.
type NextFunc func(ctx context.Context) error

// HookFunc selectively overrides one lifecycle phase. Implementations call
// next unless they deliberately replace the default behavior entirely.
type HookFunc func(ctx context.Context, inst *Instance, next NextFunc) error

// Hooks holds per-phase overrides for a target spec. Nil fields keep the
// build system's default behavior.
type Hooks struct {
	Configure HookFunc
	Compile   HookFunc
	Install   HookFunc
	Test      HookFunc
}

// Spec describes one buildable unit. Specs are immutable after registration;
// all per-run state lives on instances.
type Spec struct {
	// Name uniquely identifies the target.
	Name string

	// Repo describes where the sources come from. A zero Repo means the
	// target has no sources of its own (aggregation targets).
	Repo domain.Repository

	// Install selects the install-directory policy.
	Install domain.InstallPolicy

	// InstallPath is the explicit install directory for InstallExplicit.
	InstallPath string

	// Build selects the build-system strategy.
	Build domain.BuildSystemKind

	// Cross marks the target as cross-compiled: instances get a cross
	// policy (target triple, sysroot, per-architecture flag sets) and the
	// cross option contributor runs for the class.
	Cross bool

	// Architectures lists the supported architectures; nil means all known.
	Architectures []domain.Architecture

	// Dependencies produces the dependency target names; nil means none.
	Dependencies DepsFunc

	// Options are spec-specific option contributors, run after the base,
	// build-system and cross contributors.
	Options []OptionContributor

	// Hooks selectively override lifecycle phases.
	Hooks Hooks
}

// Supports reports whether the target can be built for arch.
func (s *Spec) Supports(arch domain.Architecture) bool {
	if s.Architectures == nil {
		return arch.Known()
	}
	for _, a := range s.Architectures {
		if a == arch {
			return true
		}
	}
	return false
}

// HostOnly reports whether the target builds exclusively for the host, such
// as toolchains and emulators.
func (s *Spec) HostOnly() bool {
	return len(s.Architectures) == 1 && s.Architectures[0] == domain.ArchNative
}

// DependencyNames evaluates the dependency function.
func (s *Spec) DependencyNames(snap *config.Snapshot) []string {
	if s.Dependencies == nil {
		return nil
	}
	return s.Dependencies(snap)
}

// SetupOptions runs every option contributor for the spec, cooperatively:
// base level first, then the build-system level, then the cross level, then
// the spec's own contributors. Each level's declarations are preserved; a
// duplicate (target, name) pair at any level is a configuration error.
func (s *Spec) SetupOptions(reg *config.Registry) error {
	contributors := []OptionContributor{baseOptions(s)}
	if c := buildSystemOptions(s.Build); c != nil {
		contributors = append(contributors, c)
	}
	if s.Cross {
		contributors = append(contributors, crossOptions())
	}
	contributors = append(contributors, s.Options...)

	for _, contribute := range contributors {
		if err := contribute(reg, s.Name); err != nil {
			return err
		}
	}
	return nil
}
