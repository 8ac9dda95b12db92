package domain

import "go.trai.ch/zerr"

var (
	// ErrDuplicateOption is returned when an option is registered twice for the
	// same (target, name) pair.
	ErrDuplicateOption = zerr.New("option already registered")

	// ErrBadOptionValue is returned when an override cannot be parsed as the
	// option's declared kind, or is not one of the declared choices.
	ErrBadOptionValue = zerr.New("bad option value")

	// ErrDuplicateTarget is returned when a target class is registered twice
	// under the same name.
	ErrDuplicateTarget = zerr.New("target already registered")

	// ErrUnknownTarget is returned when a requested or depended-upon target
	// name is not registered.
	ErrUnknownTarget = zerr.New("unknown target")

	// ErrCyclicDependency is returned when plan resolution detects a dependency
	// cycle. The error metadata names the cycle.
	ErrCyclicDependency = zerr.New("cyclic dependency")

	// ErrUnsupportedArchitecture is returned when a target (or one of its
	// dependencies) does not support the requested architecture.
	ErrUnsupportedArchitecture = zerr.New("unsupported architecture")

	// ErrMissingTool is returned when a required external tool cannot be found.
	ErrMissingTool = zerr.New("required tool not found")

	// ErrPhaseFailed is returned when an external tool invocation for a
	// lifecycle phase exits non-zero.
	ErrPhaseFailed = zerr.New("phase failed")

	// ErrLocalChanges is returned when a working copy has local modifications
	// that conflict with a required revision.
	ErrLocalChanges = zerr.New("working copy has local changes")

	// ErrRemoteDiverged is returned when a working copy points at a remote URL
	// that is neither the current nor a known legacy URL for the target.
	ErrRemoteDiverged = zerr.New("working copy remote does not match")

	// ErrNoTargetsSpecified is returned when a build is requested without any
	// target names.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrBuildFailed is a marker error indicating the run finished with at
	// least one failed target; per-target context is reported separately.
	ErrBuildFailed = zerr.New("build failed")
)

// Annotate attaches a key-value pair to a sentinel error. zerr.With applied
// to a bare sentinel returns a detached copy that errors.Is no longer
// matches, so the sentinel is wrapped first and the metadata attached to the
// wrapper; further zerr.With calls on the result keep the chain intact.
func Annotate(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}
