// Package domain contains the core domain models for the target dependency
// graph and build lifecycle.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// InstallPolicy selects where a target's install phase places its artifacts.
type InstallPolicy int

const (
	// InstallNone skips the install phase entirely.
	InstallNone InstallPolicy = iota
	// InstallSDK installs into the shared SDK root.
	InstallSDK
	// InstallRootfs installs into the shared root filesystem image tree.
	// Installs into the rootfs are additive only; the tree accumulates
	// contributions from multiple targets and is never truncated.
	InstallRootfs
	// InstallBuildDir installs into the target's own build directory.
	InstallBuildDir
	// InstallExplicit installs into a path given by the target spec.
	InstallExplicit
)

// String returns the policy name used in logs and errors.
func (p InstallPolicy) String() string {
	switch p {
	case InstallNone:
		return "none"
	case InstallSDK:
		return "sdk"
	case InstallRootfs:
		return "rootfs"
	case InstallBuildDir:
		return "build-dir"
	case InstallExplicit:
		return "explicit"
	}
	return "unknown"
}

// BuildSystemKind identifies how a target's configure/build/install hooks are
// actually invoked.
type BuildSystemKind int

const (
	// BuildNone is for aggregation targets with no build step of their own.
	BuildNone BuildSystemKind = iota
	// BuildMake drives a plain Makefile.
	BuildMake
	// BuildCMake configures with a generated toolchain file, then cmake.
	BuildCMake
	// BuildMeson configures with a generated cross file, then meson.
	BuildMeson
	// BuildAutotools assembles CC/CXX/FLAGS env, then runs ./configure.
	BuildAutotools
)

// String returns the build-system name used in logs and errors.
func (k BuildSystemKind) String() string {
	switch k {
	case BuildNone:
		return "none"
	case BuildMake:
		return "make"
	case BuildCMake:
		return "cmake"
	case BuildMeson:
		return "meson"
	case BuildAutotools:
		return "autotools"
	}
	return "unknown"
}

// Repository describes where a target's sources come from.
type Repository struct {
	// URL is the current canonical remote URL.
	URL string

	// Branch is the branch to track when no revision is pinned.
	Branch string

	// Revision optionally pins an exact revision; it takes precedence over
	// Branch during checkout reconciliation.
	Revision string

	// LegacyURLs lists historical remote URLs that are treated as equivalent
	// to URL, so a clone pointed at a renamed remote is migrated instead of
	// being reported as diverged.
	LegacyURLs []string

	// TrackedSubdirs are subdirectories whose local modifications are worth
	// warning about before an update touches the working copy. Empty means
	// the whole tree.
	TrackedSubdirs []string
}

// IsLegacyURL reports whether url is a known historical remote for this
// repository.
func (r Repository) IsLegacyURL(url string) bool {
	for _, legacy := range r.LegacyURLs {
		if legacy == url {
			return true
		}
	}
	return false
}

// Phase is one stage of a target's lifecycle.
type Phase int

const (
	// PhaseCheckout clones or updates the source working copy.
	PhaseCheckout Phase = iota
	// PhaseConfigure prepares the build directory for compilation.
	PhaseConfigure
	// PhaseBuild compiles the target.
	PhaseBuild
	// PhaseInstall places artifacts into the resolved install directory.
	PhaseInstall
	// PhaseTest runs the target's test suite.
	PhaseTest
)

// AllPhases lists the lifecycle phases in execution order.
var AllPhases = []Phase{PhaseCheckout, PhaseConfigure, PhaseBuild, PhaseInstall, PhaseTest}

// String returns the phase name used in markers, logs and errors.
func (p Phase) String() string {
	switch p {
	case PhaseCheckout:
		return "checkout"
	case PhaseConfigure:
		return "configure"
	case PhaseBuild:
		return "build"
	case PhaseInstall:
		return "install"
	case PhaseTest:
		return "test"
	}
	return "unknown"
}

// ParsePhase converts a phase name into a Phase.
func ParsePhase(s string) (Phase, error) {
	for _, p := range AllPhases {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, zerr.With(zerr.New("unknown phase"), "phase", s)
}

// PhaseSet is a set of lifecycle phases requested for a run.
type PhaseSet uint8

// NewPhaseSet builds a set from the given phases.
func NewPhaseSet(phases ...Phase) PhaseSet {
	var s PhaseSet
	for _, p := range phases {
		s |= 1 << uint(p)
	}
	return s
}

// DefaultPhases covers a standard build: everything except tests.
func DefaultPhases() PhaseSet {
	return NewPhaseSet(PhaseCheckout, PhaseConfigure, PhaseBuild, PhaseInstall)
}

// Has reports whether p is in the set.
func (s PhaseSet) Has(p Phase) bool {
	return s&(1<<uint(p)) != 0
}

// With returns a copy of the set including p.
func (s PhaseSet) With(p Phase) PhaseSet {
	return s | 1<<uint(p)
}

// Without returns a copy of the set excluding p.
func (s PhaseSet) Without(p Phase) PhaseSet {
	return s &^ (1 << uint(p))
}

// String returns the comma-separated phase names in execution order.
func (s PhaseSet) String() string {
	var names []string
	for _, p := range AllPhases {
		if s.Has(p) {
			names = append(names, p.String())
		}
	}
	return strings.Join(names, ",")
}
