package shell_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dirigent/internal/adapters/shell"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/core/ports"
)

type captureLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *captureLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *captureLogger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *captureLogger) Error(error) {}

func TestInvokeCapturesOutput(t *testing.T) {
	runner := shell.NewRunner(&captureLogger{})

	var stdout bytes.Buffer
	err := runner.Invoke(context.Background(), ports.Invocation{
		Executable: "sh",
		Args:       []string{"-c", "echo hello"},
		Stdout:     &stdout,
	})
	require.NoError(t, err)
	require.Equal(t, "hello\n", stdout.String())
}

func TestInvokeReportsNonZeroExit(t *testing.T) {
	runner := shell.NewRunner(&captureLogger{})

	err := runner.Invoke(context.Background(), ports.Invocation{
		Executable: "sh",
		Args:       []string{"-c", "exit 3"},
	})
	require.Error(t, err)
}

func TestInvokeMergesEnvironment(t *testing.T) {
	runner := shell.NewRunner(&captureLogger{})

	var stdout bytes.Buffer
	err := runner.Invoke(context.Background(), ports.Invocation{
		Executable: "sh",
		Args:       []string{"-c", "printf %s \"$GREETING\""},
		Env:        []string{"GREETING=bonjour"},
		Stdout:     &stdout,
	})
	require.NoError(t, err)
	require.Equal(t, "bonjour", stdout.String())
}

func TestInvokeFallsBackToLogger(t *testing.T) {
	logger := &captureLogger{}
	runner := shell.NewRunner(logger)

	err := runner.Invoke(context.Background(), ports.Invocation{
		Executable: "sh",
		Args:       []string{"-c", "echo out; echo err >&2"},
	})
	require.NoError(t, err)
	require.Contains(t, logger.infos, "out")
	require.Contains(t, logger.warns, "err")
}

func TestLookPathMissingTool(t *testing.T) {
	runner := shell.NewRunner(&captureLogger{})

	_, err := runner.LookPath("definitely-not-installed-anywhere")
	require.ErrorIs(t, err, domain.ErrMissingTool)
}
