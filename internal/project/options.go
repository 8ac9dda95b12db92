package project

import (
	"path/filepath"
	"runtime"
	"strconv"

	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/zerr"
)

// Global layout option names.
const (
	OptSourceRoot = "source-root"
	OptBuildRoot  = "build-root"
	OptSDKRoot    = "sdk-root"
	OptRootfsRoot = "rootfs-root"
	OptJobs       = "jobs"
)

// RegisterGlobalOptions declares the layout options every target's directory
// resolution depends on. It runs once, before any class registration.
func RegisterGlobalOptions(reg *config.Registry) error {
	opts := []*config.Option{
		{Name: OptSourceRoot, Kind: config.KindPath, Default: "sources",
			Help: "Directory that holds all source checkouts"},
		{Name: OptBuildRoot, Kind: config.KindPath, Default: "build",
			Help: "Directory that holds all build trees"},
		{Name: OptSDKRoot, Kind: config.KindPath, Default: "sdk",
			Help: "Install root for host tools and sysroots"},
		{Name: OptRootfsRoot, Kind: config.KindPath, Default: "rootfs",
			Help: "Shared root filesystem image tree; installs here are additive"},
		{Name: OptJobs, Kind: config.KindString, Computed: &config.ComputedDefault{
			Describe: "number of CPUs",
			Compute: func(*config.Snapshot, config.TargetRef) (any, error) {
				return strconv.Itoa(runtime.NumCPU()), nil
			},
		}, Help: "Job count passed to the invoked build tool"},
	}
	for _, opt := range opts {
		if _, err := reg.Register(opt); err != nil {
			return err
		}
	}
	return nil
}

// Layout holds the resolved global directories and the build job count.
type Layout struct {
	SourceRoot string
	BuildRoot  string
	SDKRoot    string
	RootfsRoot string
	Jobs       int
}

// ResolveLayout resolves the global layout options from the snapshot.
func ResolveLayout(snap *config.Snapshot) (Layout, error) {
	var layout Layout
	var err error

	if layout.SourceRoot, err = snap.Path("", OptSourceRoot, nil); err != nil {
		return Layout{}, err
	}
	if layout.BuildRoot, err = snap.Path("", OptBuildRoot, nil); err != nil {
		return Layout{}, err
	}
	if layout.SDKRoot, err = snap.Path("", OptSDKRoot, nil); err != nil {
		return Layout{}, err
	}
	if layout.RootfsRoot, err = snap.Path("", OptRootfsRoot, nil); err != nil {
		return Layout{}, err
	}

	raw, err := snap.String("", OptJobs, nil)
	if err != nil {
		return Layout{}, err
	}
	layout.Jobs, err = strconv.Atoi(raw)
	if err != nil || layout.Jobs < 1 {
		e := domain.Annotate(domain.ErrBadOptionValue, "option", OptJobs)
		return Layout{}, zerr.With(e, "value", raw)
	}
	return layout, nil
}

// Per-target option names shared across class levels.
const (
	OptInstallDirectory  = "install-directory"
	OptCMakeOptions      = "cmake-options"
	OptCMakeBuildType    = "build-type"
	OptMesonOptions      = "meson-options"
	OptConfigureOptions  = "configure-options"
	OptMakeArgs          = "make-args"
	OptOptimizationFlags = "optimization-flags"
	OptDebugInfo         = "debug-info"
	OptLinker            = "linker"
	OptExtraCFlags       = "extra-cflags"
	OptExtraLDFlags      = "extra-ldflags"
)

// baseOptions declares the options every target has, regardless of build
// system: currently the install directory, whose default is computed from the
// install policy, the layout roots and the owning instance's identity.
func baseOptions(spec *Spec) OptionContributor {
	return func(reg *config.Registry, specName string) error {
		_, err := reg.Register(&config.Option{
			Target: specName,
			Name:   OptInstallDirectory,
			Kind:   config.KindPath,
			Computed: &config.ComputedDefault{
				Describe: installDirDescription(spec),
				Compute: func(snap *config.Snapshot, owner config.TargetRef) (any, error) {
					return computeInstallDir(spec, snap, owner)
				},
			},
			Help: "Where the install phase places this target's artifacts",
		})
		return err
	}
}

func installDirDescription(spec *Spec) string {
	switch spec.Install {
	case domain.InstallSDK:
		return "$SDK_ROOT (or the architecture sysroot for cross builds)"
	case domain.InstallRootfs:
		return "$ROOTFS_ROOT/opt/<architecture>/<name>"
	case domain.InstallBuildDir:
		return "<build directory>/install"
	case domain.InstallExplicit:
		return spec.InstallPath
	}
	return "not installed"
}

// computeInstallDir derives the default install directory from the policy.
// It reads other resolved options (the layout roots) through the snapshot, so
// overriding a root is reflected here.
func computeInstallDir(spec *Spec, snap *config.Snapshot, owner config.TargetRef) (any, error) {
	switch spec.Install {
	case domain.InstallNone:
		return "", nil
	case domain.InstallExplicit:
		return spec.InstallPath, nil
	case domain.InstallBuildDir:
		buildRoot, err := snap.Path("", OptBuildRoot, nil)
		if err != nil {
			return nil, err
		}
		return filepath.Join(buildRoot, buildDirName(owner.TargetName(), owner.TargetArchitecture()), "install"), nil
	case domain.InstallSDK:
		sdkRoot, err := snap.Path("", OptSDKRoot, nil)
		if err != nil {
			return nil, err
		}
		arch := owner.TargetArchitecture()
		if arch.IsNative() {
			return sdkRoot, nil
		}
		return filepath.Join(sdkRoot, arch.Info().SysrootSubdir), nil
	case domain.InstallRootfs:
		rootfsRoot, err := snap.Path("", OptRootfsRoot, nil)
		if err != nil {
			return nil, err
		}
		return filepath.Join(rootfsRoot, "opt", owner.TargetArchitecture().String(), owner.TargetName()), nil
	}
	return nil, zerr.With(zerr.New("unknown install policy"), "target", spec.Name)
}

// buildSystemOptions declares the build-system level's options. None-kind
// targets contribute nothing. The option set is constructed fresh per target
// so registered options never share state between classes.
func buildSystemOptions(kind domain.BuildSystemKind) OptionContributor {
	if kind == domain.BuildNone {
		return nil
	}
	return func(reg *config.Registry, specName string) error {
		return registerScoped(reg, specName, buildSystemOptionSet(kind))
	}
}

func buildSystemOptionSet(kind domain.BuildSystemKind) []*config.Option {
	switch kind {
	case domain.BuildCMake:
		return []*config.Option{
			{Name: OptCMakeOptions, Kind: config.KindList,
				Help: "Extra -D options passed to the cmake configure step"},
			{Name: OptCMakeBuildType, Kind: config.KindEnum, Default: "RelWithDebInfo",
				Choices: []string{"Debug", "Release", "RelWithDebInfo", "MinSizeRel"},
				Help:    "CMAKE_BUILD_TYPE for the configure step"},
		}
	case domain.BuildMeson:
		return []*config.Option{
			{Name: OptMesonOptions, Kind: config.KindList,
				Help: "Extra options passed to meson setup"},
		}
	case domain.BuildAutotools:
		return []*config.Option{
			{Name: OptConfigureOptions, Kind: config.KindList,
				Help: "Extra arguments passed to the configure script"},
		}
	case domain.BuildMake:
		return []*config.Option{
			{Name: OptMakeArgs, Kind: config.KindList,
				Help: "Extra arguments passed to make"},
		}
	}
	return nil
}

// crossOptions declares the cross-compilation level's options.
func crossOptions() OptionContributor {
	return func(reg *config.Registry, specName string) error {
		return registerScoped(reg, specName, []*config.Option{
			{Name: OptOptimizationFlags, Kind: config.KindList, Default: []string{"-O2"},
				Help: "Optimization flags added to the composed compiler flags"},
			{Name: OptDebugInfo, Kind: config.KindBool, Default: true,
				Help: "Compile with debug info"},
			{Name: OptLinker, Kind: config.KindEnum, Default: "lld", Choices: []string{"lld", "bfd"},
				Help: "Linker selected via -fuse-ld for cross builds"},
			{Name: OptExtraCFlags, Kind: config.KindList,
				Help: "Additional compiler flags appended last"},
			{Name: OptExtraLDFlags, Kind: config.KindList,
				Help: "Additional linker flags appended last"},
		})
	}
}

func registerScoped(reg *config.Registry, specName string, opts []*config.Option) error {
	for _, opt := range opts {
		opt.Target = specName
		if _, err := reg.Register(opt); err != nil {
			return err
		}
	}
	return nil
}
