package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/project"
)

func stampInstance(t *testing.T, overrides map[string]string) *project.Instance {
	t.Helper()
	spec := &project.Spec{
		Name:    "sysroot",
		Repo:    domain.Repository{URL: "https://example.com/world.git", Branch: "main"},
		Install: domain.InstallSDK,
		Build:   domain.BuildMake,
		Cross:   true,
	}
	reg := config.NewRegistry()
	require.NoError(t, project.RegisterGlobalOptions(reg))
	require.NoError(t, spec.SetupOptions(reg))

	values := map[string]string{"jobs": "2"}
	for k, v := range overrides {
		values[k] = v
	}
	snap := config.NewSnapshot(reg,
		config.WithEnvLookup(func(string) (string, bool) { return "", false }),
		config.WithCLIValues(values),
	)
	layout, err := project.ResolveLayout(snap)
	require.NoError(t, err)

	inst, err := project.NewInstance(spec, domain.ArchAArch64, snap, layout)
	require.NoError(t, err)
	return inst
}

func TestStampHashIsDeterministic(t *testing.T) {
	a := stampInstance(t, nil)
	b := stampInstance(t, nil)
	require.Equal(t, stampHash(a, domain.PhaseBuild), stampHash(b, domain.PhaseBuild))
}

func TestStampHashSeparatesPhases(t *testing.T) {
	inst := stampInstance(t, nil)
	require.NotEqual(t, stampHash(inst, domain.PhaseConfigure), stampHash(inst, domain.PhaseBuild))
}

func TestStampHashTracksInputs(t *testing.T) {
	plain := stampInstance(t, nil)
	tuned := stampInstance(t, map[string]string{"sysroot/extra-cflags": "-mcpu=neoverse-n1"})
	require.NotEqual(t, stampHash(plain, domain.PhaseBuild), stampHash(tuned, domain.PhaseBuild))
}
