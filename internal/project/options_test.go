package project_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/project"
)

func TestResolveLayoutDefaults(t *testing.T) {
	reg := config.NewRegistry()
	require.NoError(t, project.RegisterGlobalOptions(reg))

	snap := config.NewSnapshot(reg,
		config.WithEnvLookup(func(string) (string, bool) { return "", false }),
	)
	layout, err := project.ResolveLayout(snap)
	require.NoError(t, err)

	require.Equal(t, "sources", layout.SourceRoot)
	require.Equal(t, "build", layout.BuildRoot)
	require.Equal(t, "sdk", layout.SDKRoot)
	require.Equal(t, "rootfs", layout.RootfsRoot)
	require.Equal(t, runtime.NumCPU(), layout.Jobs)
}

func TestResolveLayoutRejectsBadJobs(t *testing.T) {
	for _, bad := range []string{"many", "0", "-2"} {
		t.Run(bad, func(t *testing.T) {
			reg := config.NewRegistry()
			require.NoError(t, project.RegisterGlobalOptions(reg))

			snap := config.NewSnapshot(reg,
				config.WithEnvLookup(func(string) (string, bool) { return "", false }),
				config.WithCLIValues(map[string]string{"jobs": bad}),
			)
			_, err := project.ResolveLayout(snap)
			require.ErrorIs(t, err, domain.ErrBadOptionValue)
		})
	}
}

func TestGlobalOptionsRegisterOnce(t *testing.T) {
	reg := config.NewRegistry()
	require.NoError(t, project.RegisterGlobalOptions(reg))
	require.ErrorIs(t, project.RegisterGlobalOptions(reg), domain.ErrDuplicateOption)
}
