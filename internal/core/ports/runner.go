// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Invocation describes one external build-tool invocation: a configure
// script, make, cmake, meson or similar.
type Invocation struct {
	// Executable is the tool to run, either an absolute path or a name
	// resolved against the invocation environment's PATH.
	Executable string

	// Args are the tool arguments, without the executable itself.
	Args []string

	// Dir is the working directory for the invocation.
	Dir string

	// Env holds extra environment variables as "KEY=VALUE" entries, merged
	// over the process environment.
	Env []string

	// Stdout and Stderr receive the tool's output streams. Nil writers fall
	// back to the runner's logger.
	Stdout io.Writer
	Stderr io.Writer
}

// ToolRunner executes external build tools. A non-zero exit status is always
// an error for the calling phase.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type ToolRunner interface {
	// Invoke runs the tool described by inv and waits for it to finish.
	Invoke(ctx context.Context, inv Invocation) error

	// LookPath resolves a tool name to an absolute path, reporting
	// domain.ErrMissingTool when the tool is not installed.
	LookPath(name string) (string, error)
}
