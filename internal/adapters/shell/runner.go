// Package shell provides the external build-tool runner adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ToolRunner = (*Runner)(nil)

// Runner implements ports.ToolRunner using os/exec. A non-zero exit status is
// always an error; output streams go to the invocation's writers, falling
// back to the logger.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Invoke runs the tool and waits for it to finish.
func (r *Runner) Invoke(ctx context.Context, inv ports.Invocation) error {
	executable := inv.Executable
	if !filepath.IsAbs(executable) {
		resolved, err := r.LookPath(executable)
		if err != nil {
			return err
		}
		executable = resolved
	}

	cmd := exec.CommandContext(ctx, executable, inv.Args...) //nolint:gosec // invocations come from target specs
	cmd.Dir = inv.Dir
	// Later entries win on duplicate keys, so invocation overrides apply
	// over the inherited process environment.
	cmd.Env = append(os.Environ(), inv.Env...)
	cmd.Stdout = r.writerOrLog(inv.Stdout, false)
	cmd.Stderr = r.writerOrLog(inv.Stderr, true)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "command", inv.Executable)
		return zerr.With(wrapped, "exit_code", exitCode)
	}
	return nil
}

// LookPath resolves a tool name against PATH.
func (r *Runner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", domain.Annotate(domain.ErrMissingTool, "tool", name)
	}
	return path, nil
}

func (r *Runner) writerOrLog(w io.Writer, isErr bool) io.Writer {
	if w != nil {
		return w
	}
	return &logWriter{logger: r.logger, isErr: isErr}
}

// logWriter forwards tool output to the logger line by line.
type logWriter struct {
	logger ports.Logger
	isErr  bool
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	for _, line := range lines {
		if w.isErr {
			w.logger.Warn(line)
		} else {
			w.logger.Info(line)
		}
	}
	return len(p), nil
}
