package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/project"
)

// buildSpec is a minimal spec with static dependencies for plan tests.
func buildSpec(name string, deps ...string) *project.Spec {
	return &project.Spec{
		Name:         name,
		Install:      domain.InstallSDK,
		Build:        domain.BuildMake,
		Dependencies: project.StaticDeps(deps...),
	}
}

func TestResolvePlanOrdersDependenciesFirst(t *testing.T) {
	reg, snap, layout := newRegistry(t, nil,
		buildSpec("a"),
		buildSpec("b", "a"),
		buildSpec("c", "b"),
	)

	plan, err := reg.ResolvePlan([]string{"c"}, domain.ArchNative, snap, layout)
	require.NoError(t, err)
	require.Equal(t, []string{"a@native", "b@native", "c@native"}, plan.Keys())
	require.Equal(t, []string{"b@native"}, plan.DependencyKeys("c@native"))
	require.Empty(t, plan.DependencyKeys("a@native"))
}

func TestResolvePlanDeduplicatesDiamond(t *testing.T) {
	reg, snap, layout := newRegistry(t, nil,
		buildSpec("base"),
		buildSpec("left", "base"),
		buildSpec("right", "base"),
		buildSpec("top", "left", "right"),
	)

	plan, err := reg.ResolvePlan([]string{"top"}, domain.ArchNative, snap, layout)
	require.NoError(t, err)
	require.Equal(t, 4, plan.Len())
	require.Equal(t, []string{"base@native", "left@native", "right@native", "top@native"}, plan.Keys())
}

func TestResolvePlanMultipleRequests(t *testing.T) {
	reg, snap, layout := newRegistry(t, nil,
		buildSpec("a"),
		buildSpec("b", "a"),
		buildSpec("c", "a"),
	)

	plan, err := reg.ResolvePlan([]string{"b", "c"}, domain.ArchNative, snap, layout)
	require.NoError(t, err)
	require.Equal(t, []string{"a@native", "b@native", "c@native"}, plan.Keys())
}

func TestResolvePlanDetectsCycles(t *testing.T) {
	reg, snap, layout := newRegistry(t, nil,
		buildSpec("x", "y"),
		buildSpec("y", "x"),
	)

	_, err := reg.ResolvePlan([]string{"x"}, domain.ArchNative, snap, layout)
	require.ErrorIs(t, err, domain.ErrCyclicDependency)
	require.Contains(t, err.Error(), "x")
	require.Contains(t, err.Error(), "y")
}

func TestResolvePlanUnknownDependency(t *testing.T) {
	reg, snap, layout := newRegistry(t, nil, buildSpec("a", "ghost"))

	_, err := reg.ResolvePlan([]string{"a"}, domain.ArchNative, snap, layout)
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
}

func TestResolvePlanMixesCrossAndHostOnly(t *testing.T) {
	toolchain := &project.Spec{
		Name:          "llvm",
		Install:       domain.InstallSDK,
		Build:         domain.BuildCMake,
		Architectures: []domain.Architecture{domain.ArchNative},
	}
	world := &project.Spec{
		Name:         "sysroot",
		Install:      domain.InstallSDK,
		Build:        domain.BuildMake,
		Cross:        true,
		Dependencies: project.StaticDeps("llvm"),
	}
	reg, snap, layout := newRegistry(t, nil, toolchain, world)

	plan, err := reg.ResolvePlan([]string{"sysroot"}, domain.ArchAArch64, snap, layout)
	require.NoError(t, err)
	require.Equal(t, []string{"llvm@native", "sysroot@aarch64"}, plan.Keys())
	require.Equal(t, []string{"llvm@native"}, plan.DependencyKeys("sysroot@aarch64"))
}

func TestResolvePlanDependenciesBranchOnOptions(t *testing.T) {
	full := buildSpec("sysroot")
	minimal := buildSpec("freestanding-sysroot")
	app := &project.Spec{
		Name:    "openssh",
		Install: domain.InstallRootfs,
		Build:   domain.BuildAutotools,
		Cross:   true,
		Dependencies: func(snap *config.Snapshot) []string {
			baremetal, err := snap.Bool("openssh", "baremetal", nil)
			if err == nil && baremetal {
				return []string{"freestanding-sysroot"}
			}
			return []string{"sysroot"}
		},
		Options: []project.OptionContributor{
			func(reg *config.Registry, specName string) error {
				_, err := reg.Register(&config.Option{
					Target: specName, Name: "baremetal", Kind: config.KindBool, Default: false,
				})
				return err
			},
		},
	}

	reg, snap, layout := newRegistry(t,
		map[string]string{"openssh/baremetal": "true"},
		full, minimal, app,
	)

	plan, err := reg.ResolvePlan([]string{"openssh"}, domain.ArchAArch64, snap, layout)
	require.NoError(t, err)
	require.Equal(t, []string{"freestanding-sysroot@aarch64", "openssh@aarch64"}, plan.Keys())
}
