package project

import (
	"path/filepath"

	"go.trai.ch/dirigent/internal/config"
)

// CrossPolicy is the cross-compilation side of a target instance: the target
// triple, the sysroot presented to the compiler, and the composed flag lists.
// It is built fresh per instance from resolved options; nothing here is
// shared between instances.
type CrossPolicy struct {
	Triple  string
	Sysroot string

	CC  string
	CXX string

	CFlags   []string
	CXXFlags []string
	ASMFlags []string
	LDFlags  []string
}

// resolveCrossPolicy composes the policy for one instance from its
// architecture, the SDK layout and the cross option level.
func resolveCrossPolicy(snap *config.Snapshot, owner config.TargetRef, layout Layout) (*CrossPolicy, error) {
	arch := owner.TargetArchitecture()
	info := arch.Info()
	name := owner.TargetName()

	optFlags, err := snap.List(name, OptOptimizationFlags, owner)
	if err != nil {
		return nil, err
	}
	debugInfo, err := snap.Bool(name, OptDebugInfo, owner)
	if err != nil {
		return nil, err
	}
	linker, err := snap.String(name, OptLinker, owner)
	if err != nil {
		return nil, err
	}
	extraCFlags, err := snap.List(name, OptExtraCFlags, owner)
	if err != nil {
		return nil, err
	}
	extraLDFlags, err := snap.List(name, OptExtraLDFlags, owner)
	if err != nil {
		return nil, err
	}

	p := &CrossPolicy{
		Triple:  info.Triple,
		Sysroot: filepath.Join(layout.SDKRoot, info.SysrootSubdir),
		CC:      filepath.Join(layout.SDKRoot, "bin", "clang"),
		CXX:     filepath.Join(layout.SDKRoot, "bin", "clang++"),
	}

	common := []string{"--target=" + p.Triple, "--sysroot=" + p.Sysroot, "-pipe"}
	if debugInfo {
		common = append(common, "-g")
	}
	common = append(common, optFlags...)

	p.CFlags = append(append([]string{}, common...), extraCFlags...)
	p.CXXFlags = append(append([]string{}, common...), extraCFlags...)
	p.ASMFlags = []string{"--target=" + p.Triple, "--sysroot=" + p.Sysroot}
	p.LDFlags = append([]string{
		"--target=" + p.Triple,
		"--sysroot=" + p.Sysroot,
		"-fuse-ld=" + linker,
	}, extraLDFlags...)

	return p, nil
}

// HostPolicy returns the flag composition for a native build: no triple, no
// sysroot, compilers resolved from PATH by the build tool.
func hostPolicy(snap *config.Snapshot, owner config.TargetRef, cross bool) (*CrossPolicy, error) {
	if !cross {
		return nil, nil
	}
	// A cross-capable target built for the host still honours its flag
	// options, just without the triple and sysroot.
	name := owner.TargetName()
	optFlags, err := snap.List(name, OptOptimizationFlags, owner)
	if err != nil {
		return nil, err
	}
	debugInfo, err := snap.Bool(name, OptDebugInfo, owner)
	if err != nil {
		return nil, err
	}
	extraCFlags, err := snap.List(name, OptExtraCFlags, owner)
	if err != nil {
		return nil, err
	}
	extraLDFlags, err := snap.List(name, OptExtraLDFlags, owner)
	if err != nil {
		return nil, err
	}

	var common []string
	if debugInfo {
		common = append(common, "-g")
	}
	common = append(common, optFlags...)

	return &CrossPolicy{
		CFlags:   append(append([]string{}, common...), extraCFlags...),
		CXXFlags: append(append([]string{}, common...), extraCFlags...),
		LDFlags:  append([]string{}, extraLDFlags...),
	}, nil
}

// MachineSystem returns the meson/cmake system name for the target. Only
// Linux-style targets are modelled.
func (p *CrossPolicy) MachineSystem() string {
	return "linux"
}

// CPUFamily returns the first component of the triple, the CPU family name
// used in meson cross files and cmake toolchain files.
func (p *CrossPolicy) CPUFamily() string {
	for i := range len(p.Triple) {
		if p.Triple[i] == '-' {
			return p.Triple[:i]
		}
	}
	return p.Triple
}
