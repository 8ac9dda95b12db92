package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dirigent/internal/catalog"
	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/project"
	"go.trai.ch/dirigent/internal/registry"
)

func registered(t *testing.T) (*registry.Registry, *config.Registry) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, catalog.Register(reg))

	optReg := config.NewRegistry()
	require.NoError(t, project.RegisterGlobalOptions(optReg))
	require.NoError(t, reg.SetupOptions(optReg))
	return reg, optReg
}

func TestRegisterDeclaresEveryBuiltin(t *testing.T) {
	reg, _ := registered(t)
	require.Equal(t, []string{
		"disk-image", "freestanding-sysroot", "llvm", "openssh", "qemu", "sysroot", "wayland",
	}, reg.Names())
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := registry.New()
	require.NoError(t, catalog.Register(reg))
	require.ErrorIs(t, catalog.Register(reg), domain.ErrDuplicateTarget)
}

func TestToolchainTargetsAreHostOnly(t *testing.T) {
	reg, _ := registered(t)
	for _, name := range []string{"llvm", "qemu"} {
		spec, ok := reg.Lookup(name)
		require.True(t, ok)
		require.True(t, spec.HostOnly(), name)
	}
}

func TestOpensshDependenciesBranchOnBaremetal(t *testing.T) {
	newSnap := func(overrides map[string]string) *config.Snapshot {
		_, optReg := registered(t)
		return config.NewSnapshot(optReg,
			config.WithEnvLookup(func(string) (string, bool) { return "", false }),
			config.WithCLIValues(overrides),
		)
	}

	reg, _ := registered(t)
	spec, ok := reg.Lookup("openssh")
	require.True(t, ok)

	require.Equal(t, []string{"sysroot"}, spec.DependencyNames(newSnap(nil)))
	require.Equal(t, []string{"freestanding-sysroot"},
		spec.DependencyNames(newSnap(map[string]string{"openssh/baremetal": "true"})))
}

func TestQemuCarriesLegacyRemotes(t *testing.T) {
	reg, _ := registered(t)
	spec, ok := reg.Lookup("qemu")
	require.True(t, ok)
	require.True(t, spec.Repo.IsLegacyURL("https://git.qemu.org/git/qemu.git"))
}

func TestDiskImageAggregatesRootfsContributors(t *testing.T) {
	reg, _ := registered(t)
	spec, ok := reg.Lookup("disk-image")
	require.True(t, ok)
	require.Equal(t, domain.BuildNone, spec.Build)
	require.Equal(t, domain.InstallNone, spec.Install)
	require.Empty(t, spec.Repo.URL)

	snap := config.NewSnapshot(config.NewRegistry(),
		config.WithEnvLookup(func(string) (string, bool) { return "", false }),
	)
	require.Equal(t, []string{"openssh", "wayland"}, spec.DependencyNames(snap))
}
