package project

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/zerr"
)

// Instance is a target spec bound to a concrete architecture and a resolved
// configuration: directories, flags and the composed build-system strategy.
// Instances are created once per (target, architecture) pair by the target
// registry and mutate only their own state during lifecycle phases.
type Instance struct {
	spec   *Spec
	arch   domain.Architecture
	snap   *config.Snapshot
	layout Layout

	sourceDir     string
	buildDir      string
	installDir    string
	destDir       string
	installPrefix string

	cross    *CrossPolicy
	buildsys buildSystem

	// runner and out are set for the duration of a lifecycle phase so hooks
	// can invoke tools and attach output. Phases run sequentially per
	// instance.
	runner ports.ToolRunner
	out    ports.Vertex
}

// buildDirName is the conventional per-instance build directory name.
func buildDirName(name string, arch domain.Architecture) string {
	return fmt.Sprintf("%s-%s-build", name, arch)
}

// NewInstance binds spec to arch and resolves every directory and flag list
// the lifecycle phases need. It fails when the spec does not support arch.
func NewInstance(spec *Spec, arch domain.Architecture, snap *config.Snapshot, layout Layout) (*Instance, error) {
	if !spec.Supports(arch) {
		err := domain.Annotate(domain.ErrUnsupportedArchitecture, "target", spec.Name)
		return nil, zerr.With(err, "architecture", arch.String())
	}

	inst := &Instance{
		spec:   spec,
		arch:   arch,
		snap:   snap,
		layout: layout,
	}
	inst.sourceDir = filepath.Join(layout.SourceRoot, spec.Name)
	inst.buildDir = filepath.Join(layout.BuildRoot, buildDirName(spec.Name, arch))

	installDir, err := snap.Path(spec.Name, OptInstallDirectory, inst)
	if err != nil {
		return nil, err
	}
	inst.installDir = installDir
	if spec.Install == domain.InstallRootfs {
		// Rootfs installs go through DESTDIR so the shared tree only ever
		// receives additive writes under the instance's own prefix.
		inst.destDir = layout.RootfsRoot
		inst.installPrefix = "/" + filepath.ToSlash(filepath.Join("opt", arch.String(), spec.Name))
	} else {
		inst.installPrefix = installDir
	}

	if spec.Cross && !arch.IsNative() {
		inst.cross, err = resolveCrossPolicy(snap, inst, layout)
	} else {
		inst.cross, err = hostPolicy(snap, inst, spec.Cross)
	}
	if err != nil {
		return nil, err
	}

	inst.buildsys, err = newBuildSystem(spec.Build)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// TargetName implements config.TargetRef.
func (i *Instance) TargetName() string { return i.spec.Name }

// TargetArchitecture implements config.TargetRef.
func (i *Instance) TargetArchitecture() domain.Architecture { return i.arch }

// Key identifies the instance within a run, e.g. "openssh@aarch64".
func (i *Instance) Key() string {
	return i.spec.Name + "@" + i.arch.String()
}

// Spec returns the underlying target specification.
func (i *Instance) Spec() *Spec { return i.spec }

// SourceDir is the resolved source checkout directory.
func (i *Instance) SourceDir() string { return i.sourceDir }

// BuildDir is the resolved out-of-tree build directory.
func (i *Instance) BuildDir() string { return i.buildDir }

// InstallDir is the resolved absolute install directory, empty for
// InstallNone targets.
func (i *Instance) InstallDir() string { return i.installDir }

// DestDir is the staging root for rootfs-style installs, empty otherwise.
func (i *Instance) DestDir() string { return i.destDir }

// InstallPrefix is the prefix the build system configures; for rootfs
// installs it is relative to DestDir.
func (i *Instance) InstallPrefix() string { return i.installPrefix }

// Cross returns the instance's cross policy, nil for plain host targets.
func (i *Instance) Cross() *CrossPolicy { return i.cross }

// Jobs is the job count threaded through to the invoked build tool.
func (i *Instance) Jobs() int { return i.layout.Jobs }

// Snapshot returns the resolved configuration view.
func (i *Instance) Snapshot() *config.Snapshot { return i.snap }

// Runner returns the tool runner of the phase currently executing. It is only
// valid inside lifecycle hooks.
func (i *Instance) Runner() ports.ToolRunner { return i.runner }

// Output returns the telemetry vertex of the phase currently executing. It is
// only valid inside lifecycle hooks.
func (i *Instance) Output() ports.Vertex { return i.out }

// CompileEnv returns CC/CXX/FLAGS environment entries for build systems that
// consume toolchain settings from the environment (Autotools, Make).
func (i *Instance) CompileEnv() []string {
	if i.cross == nil {
		return nil
	}
	var env []string
	if i.cross.CC != "" {
		env = append(env, "CC="+i.cross.CC, "CXX="+i.cross.CXX)
	}
	if len(i.cross.CFlags) > 0 {
		env = append(env, "CFLAGS="+strings.Join(i.cross.CFlags, " "))
		env = append(env, "CXXFLAGS="+strings.Join(i.cross.CXXFlags, " "))
	}
	if len(i.cross.LDFlags) > 0 {
		env = append(env, "LDFLAGS="+strings.Join(i.cross.LDFlags, " "))
	}
	if len(i.cross.ASMFlags) > 0 {
		env = append(env, "ASFLAGS="+strings.Join(i.cross.ASMFlags, " "))
	}
	return env
}

// Configure runs the configure phase: the spec hook when present, wrapping
// the build-system default.
func (i *Instance) Configure(ctx context.Context, runner ports.ToolRunner, out ports.Vertex) error {
	return i.runPhase(ctx, runner, out, i.spec.Hooks.Configure, func(ctx context.Context) error {
		return i.buildsys.Configure(ctx, i, runner, out)
	})
}

// Compile runs the build phase.
func (i *Instance) Compile(ctx context.Context, runner ports.ToolRunner, out ports.Vertex) error {
	return i.runPhase(ctx, runner, out, i.spec.Hooks.Compile, func(ctx context.Context) error {
		return i.buildsys.Compile(ctx, i, runner, out)
	})
}

// Install runs the install phase. Installs never truncate shared trees; the
// strategies only add files under the instance's prefix.
func (i *Instance) Install(ctx context.Context, runner ports.ToolRunner, out ports.Vertex) error {
	if i.spec.Install == domain.InstallNone {
		return nil
	}
	return i.runPhase(ctx, runner, out, i.spec.Hooks.Install, func(ctx context.Context) error {
		return i.buildsys.Install(ctx, i, runner, out)
	})
}

// RunTests runs the optional test phase.
func (i *Instance) RunTests(ctx context.Context, runner ports.ToolRunner, out ports.Vertex) error {
	return i.runPhase(ctx, runner, out, i.spec.Hooks.Test, func(ctx context.Context) error {
		return i.buildsys.Test(ctx, i, runner, out)
	})
}

func (i *Instance) runPhase(ctx context.Context, runner ports.ToolRunner, out ports.Vertex, hook HookFunc, next NextFunc) error {
	i.runner, i.out = runner, out
	defer func() { i.runner, i.out = nil, nil }()
	if hook != nil {
		return hook(ctx, i, next)
	}
	return next(ctx)
}

// StampInputs returns the deterministic identity strings hashed into this
// instance's completion-marker stamps. Anything that should invalidate prior
// phase results on change belongs here.
func (i *Instance) StampInputs() []string {
	inputs := []string{
		i.spec.Name,
		i.arch.String(),
		i.spec.Build.String(),
		i.spec.Repo.URL,
		i.spec.Repo.Branch,
		i.spec.Repo.Revision,
		i.sourceDir,
		i.buildDir,
		i.installDir,
		i.installPrefix,
		i.destDir,
	}
	if i.cross != nil {
		inputs = append(inputs, i.cross.Triple, i.cross.Sysroot, i.cross.CC)
		inputs = append(inputs, i.cross.CFlags...)
		inputs = append(inputs, i.cross.LDFlags...)
	}
	return inputs
}
