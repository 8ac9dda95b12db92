package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/project"
	"go.trai.ch/dirigent/internal/registry"
)

// newRegistry registers the given specs and resolves a snapshot and layout
// covering them.
func newRegistry(t *testing.T, overrides map[string]string, specs ...*project.Spec) (*registry.Registry, *config.Snapshot, project.Layout) {
	t.Helper()

	reg := registry.New()
	for _, spec := range specs {
		require.NoError(t, reg.Register(spec))
	}

	optReg := config.NewRegistry()
	require.NoError(t, project.RegisterGlobalOptions(optReg))
	require.NoError(t, reg.SetupOptions(optReg))

	values := map[string]string{"jobs": "2"}
	for k, v := range overrides {
		values[k] = v
	}
	snap := config.NewSnapshot(optReg,
		config.WithEnvLookup(func(string) (string, bool) { return "", false }),
		config.WithCLIValues(values),
	)
	layout, err := project.ResolveLayout(snap)
	require.NoError(t, err)
	return reg, snap, layout
}

func TestRegisterRejectsDuplicateTargets(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(&project.Spec{Name: "llvm"}))

	err := reg.Register(&project.Spec{Name: "llvm"})
	require.ErrorIs(t, err, domain.ErrDuplicateTarget)
}

func TestNamesAreSorted(t *testing.T) {
	reg := registry.New()
	for _, name := range []string{"wayland", "llvm", "openssh"} {
		require.NoError(t, reg.Register(&project.Spec{Name: name}))
	}
	require.Equal(t, []string{"llvm", "openssh", "wayland"}, reg.Names())
}

func TestInstantiateIsMemoized(t *testing.T) {
	spec := &project.Spec{Name: "sysroot", Install: domain.InstallSDK, Build: domain.BuildMake, Cross: true}
	reg, snap, layout := newRegistry(t, nil, spec)

	first, err := reg.Instantiate("sysroot", domain.ArchAArch64, snap, layout)
	require.NoError(t, err)
	second, err := reg.Instantiate("sysroot", domain.ArchAArch64, snap, layout)
	require.NoError(t, err)
	require.Same(t, first, second)

	other, err := reg.Instantiate("sysroot", domain.ArchNative, snap, layout)
	require.NoError(t, err)
	require.NotSame(t, first, other)
}

func TestInstantiateUnknownTarget(t *testing.T) {
	reg, snap, layout := newRegistry(t, nil)
	_, err := reg.Instantiate("nope", domain.ArchNative, snap, layout)
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
}

func TestHostOnlyTargetsFallBackToNative(t *testing.T) {
	spec := &project.Spec{
		Name:          "qemu",
		Install:       domain.InstallSDK,
		Build:         domain.BuildAutotools,
		Architectures: []domain.Architecture{domain.ArchNative},
	}
	reg, snap, layout := newRegistry(t, nil, spec)

	// A host-only target requested within a cross plan builds for the host.
	inst, err := reg.Instantiate("qemu", domain.ArchRISCV64, snap, layout)
	require.NoError(t, err)
	require.Equal(t, "qemu@native", inst.Key())
}

func TestNonHostOnlyUnsupportedArchIsFatal(t *testing.T) {
	spec := &project.Spec{
		Name:          "blob",
		Build:         domain.BuildMake,
		Architectures: []domain.Architecture{domain.ArchAArch64},
	}
	reg, snap, layout := newRegistry(t, nil, spec)

	_, err := reg.Instantiate("blob", domain.ArchRISCV64, snap, layout)
	require.ErrorIs(t, err, domain.ErrUnsupportedArchitecture)
}
