package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dirigent/internal/core/domain"
)

func TestPhaseSet(t *testing.T) {
	s := domain.DefaultPhases()
	require.True(t, s.Has(domain.PhaseCheckout))
	require.True(t, s.Has(domain.PhaseConfigure))
	require.True(t, s.Has(domain.PhaseBuild))
	require.True(t, s.Has(domain.PhaseInstall))
	require.False(t, s.Has(domain.PhaseTest))

	s = s.With(domain.PhaseTest)
	require.True(t, s.Has(domain.PhaseTest))

	s = s.Without(domain.PhaseCheckout)
	require.False(t, s.Has(domain.PhaseCheckout))

	require.Equal(t, "configure,build,install,test", s.String())
}

func TestParsePhase(t *testing.T) {
	p, err := domain.ParsePhase("install")
	require.NoError(t, err)
	require.Equal(t, domain.PhaseInstall, p)

	_, err = domain.ParsePhase("deploy")
	require.Error(t, err)
}

func TestRepositoryIsLegacyURL(t *testing.T) {
	repo := domain.Repository{
		URL:        "https://github.com/qemu/qemu.git",
		LegacyURLs: []string{"https://git.qemu.org/git/qemu.git"},
	}
	require.True(t, repo.IsLegacyURL("https://git.qemu.org/git/qemu.git"))
	require.False(t, repo.IsLegacyURL("https://github.com/qemu/qemu.git"))
	require.False(t, repo.IsLegacyURL("https://example.com/qemu.git"))
}

func TestMarkerKey(t *testing.T) {
	require.Equal(t, "openssh@aarch64/build",
		domain.MarkerKey("openssh", domain.ArchAArch64, domain.PhaseBuild))

	m := domain.PhaseMarker{Target: "openssh", Architecture: "aarch64", Phase: "build"}
	require.Equal(t, "openssh@aarch64/build", m.Key())
}

func TestArchitectureInfo(t *testing.T) {
	require.True(t, domain.ArchNative.IsNative())
	require.True(t, domain.ArchAArch64.Known())
	require.False(t, domain.Architecture("sparc").Known())

	info := domain.ArchAArch64.Info()
	require.Equal(t, "aarch64-unknown-linux-gnu", info.Triple)
	require.Equal(t, "sysroot-aarch64", info.SysrootSubdir)
	require.Empty(t, domain.ArchNative.Info().Triple)
}
