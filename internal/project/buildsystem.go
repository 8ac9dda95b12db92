package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/zerr"
)

// buildSystem is the strategy actually invoking configure/compile/install for
// one build-system kind. Exactly one strategy is composed into each instance.
type buildSystem interface {
	Kind() domain.BuildSystemKind
	Configure(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error
	Compile(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error
	Install(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error
	Test(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error
}

func newBuildSystem(kind domain.BuildSystemKind) (buildSystem, error) {
	switch kind {
	case domain.BuildNone:
		return noneBuild{}, nil
	case domain.BuildMake:
		return makeBuild{}, nil
	case domain.BuildCMake:
		return cmakeBuild{}, nil
	case domain.BuildMeson:
		return mesonBuild{}, nil
	case domain.BuildAutotools:
		return autotoolsBuild{}, nil
	}
	return nil, zerr.With(zerr.New("unknown build system"), "kind", int(kind))
}

// invoke wires an invocation's output to the phase vertex and runs it.
func invoke(ctx context.Context, runner ports.ToolRunner, out ports.Vertex, inv ports.Invocation) error {
	if out != nil {
		inv.Stdout = out.Stdout()
		inv.Stderr = out.Stderr()
	}
	return runner.Invoke(ctx, inv)
}

// requireTool resolves a build tool, attaching an install hint on failure.
func requireTool(runner ports.ToolRunner, name string) (string, error) {
	path, err := runner.LookPath(name)
	if err != nil {
		return "", zerr.With(domain.Annotate(err, "tool", name), "hint", "install "+name+" and re-run")
	}
	return path, nil
}

// noneBuild is for aggregation targets: every phase is a no-op.
type noneBuild struct{}

func (noneBuild) Kind() domain.BuildSystemKind { return domain.BuildNone }
func (noneBuild) Configure(context.Context, *Instance, ports.ToolRunner, ports.Vertex) error {
	return nil
}
func (noneBuild) Compile(context.Context, *Instance, ports.ToolRunner, ports.Vertex) error {
	return nil
}
func (noneBuild) Install(context.Context, *Instance, ports.ToolRunner, ports.Vertex) error {
	return nil
}
func (noneBuild) Test(context.Context, *Instance, ports.ToolRunner, ports.Vertex) error {
	return nil
}

// makeBuild drives a plain Makefile in the source tree. Toolchain settings
// are passed through the environment.
type makeBuild struct{}

func (makeBuild) Kind() domain.BuildSystemKind { return domain.BuildMake }

func (makeBuild) Configure(context.Context, *Instance, ports.ToolRunner, ports.Vertex) error {
	// Plain make has no configure step.
	return nil
}

func (makeBuild) Compile(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	makeTool, err := requireTool(runner, "make")
	if err != nil {
		return err
	}
	extra, err := inst.Snapshot().List(inst.TargetName(), OptMakeArgs, inst)
	if err != nil {
		return err
	}
	args := append([]string{"-C", inst.SourceDir(), "-j" + strconv.Itoa(inst.Jobs())}, extra...)
	return invoke(ctx, runner, out, ports.Invocation{
		Executable: makeTool,
		Args:       args,
		Env:        inst.CompileEnv(),
	})
}

func (makeBuild) Install(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	makeTool, err := requireTool(runner, "make")
	if err != nil {
		return err
	}
	args := []string{"-C", inst.SourceDir(), "install", "PREFIX=" + inst.InstallPrefix()}
	if inst.DestDir() != "" {
		args = append(args, "DESTDIR="+inst.DestDir())
	}
	return invoke(ctx, runner, out, ports.Invocation{
		Executable: makeTool,
		Args:       args,
		Env:        inst.CompileEnv(),
	})
}

func (makeBuild) Test(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	makeTool, err := requireTool(runner, "make")
	if err != nil {
		return err
	}
	return invoke(ctx, runner, out, ports.Invocation{
		Executable: makeTool,
		Args:       []string{"-C", inst.SourceDir(), "check"},
		Env:        inst.CompileEnv(),
	})
}

// cmakeBuild configures with a generated toolchain file for cross builds,
// then drives cmake's build and install steps.
type cmakeBuild struct{}

func (cmakeBuild) Kind() domain.BuildSystemKind { return domain.BuildCMake }

func (cmakeBuild) Configure(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	cmake, err := requireTool(runner, "cmake")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(inst.BuildDir(), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create build directory")
	}

	snap := inst.Snapshot()
	buildType, err := snap.String(inst.TargetName(), OptCMakeBuildType, inst)
	if err != nil {
		return err
	}
	extra, err := snap.List(inst.TargetName(), OptCMakeOptions, inst)
	if err != nil {
		return err
	}

	args := []string{
		"-S", inst.SourceDir(),
		"-B", inst.BuildDir(),
		"-DCMAKE_BUILD_TYPE=" + buildType,
		"-DCMAKE_INSTALL_PREFIX=" + inst.InstallPrefix(),
	}
	if cross := inst.Cross(); cross != nil && cross.Triple != "" {
		toolchainFile := filepath.Join(inst.BuildDir(), "toolchain.cmake")
		if err := writeCMakeToolchainFile(toolchainFile, cross); err != nil {
			return err
		}
		args = append(args, "-DCMAKE_TOOLCHAIN_FILE="+toolchainFile)
	}
	args = append(args, extra...)

	return invoke(ctx, runner, out, ports.Invocation{Executable: cmake, Args: args})
}

func (cmakeBuild) Compile(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	cmake, err := requireTool(runner, "cmake")
	if err != nil {
		return err
	}
	return invoke(ctx, runner, out, ports.Invocation{
		Executable: cmake,
		Args:       []string{"--build", inst.BuildDir(), "--parallel", strconv.Itoa(inst.Jobs())},
	})
}

func (cmakeBuild) Install(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	cmake, err := requireTool(runner, "cmake")
	if err != nil {
		return err
	}
	inv := ports.Invocation{
		Executable: cmake,
		Args:       []string{"--install", inst.BuildDir()},
	}
	if inst.DestDir() != "" {
		inv.Env = []string{"DESTDIR=" + inst.DestDir()}
	}
	return invoke(ctx, runner, out, inv)
}

func (cmakeBuild) Test(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	ctest, err := requireTool(runner, "ctest")
	if err != nil {
		return err
	}
	return invoke(ctx, runner, out, ports.Invocation{
		Executable: ctest,
		Args:       []string{"--test-dir", inst.BuildDir(), "--output-on-failure"},
	})
}

// writeCMakeToolchainFile renders the cross toolchain file consumed by the
// configure step.
func writeCMakeToolchainFile(path string, cross *CrossPolicy) error {
	var b strings.Builder
	fmt.Fprintf(&b, "set(CMAKE_SYSTEM_NAME Linux)\n")
	fmt.Fprintf(&b, "set(CMAKE_SYSTEM_PROCESSOR %s)\n", cross.CPUFamily())
	fmt.Fprintf(&b, "set(CMAKE_C_COMPILER %q)\n", cross.CC)
	fmt.Fprintf(&b, "set(CMAKE_CXX_COMPILER %q)\n", cross.CXX)
	fmt.Fprintf(&b, "set(CMAKE_C_COMPILER_TARGET %s)\n", cross.Triple)
	fmt.Fprintf(&b, "set(CMAKE_CXX_COMPILER_TARGET %s)\n", cross.Triple)
	fmt.Fprintf(&b, "set(CMAKE_SYSROOT %q)\n", cross.Sysroot)
	fmt.Fprintf(&b, "set(CMAKE_C_FLAGS_INIT %q)\n", strings.Join(cross.CFlags, " "))
	fmt.Fprintf(&b, "set(CMAKE_CXX_FLAGS_INIT %q)\n", strings.Join(cross.CXXFlags, " "))
	fmt.Fprintf(&b, "set(CMAKE_EXE_LINKER_FLAGS_INIT %q)\n", strings.Join(cross.LDFlags, " "))
	fmt.Fprintf(&b, "set(CMAKE_FIND_ROOT_PATH_MODE_PROGRAM NEVER)\n")
	fmt.Fprintf(&b, "set(CMAKE_FIND_ROOT_PATH_MODE_LIBRARY ONLY)\n")
	fmt.Fprintf(&b, "set(CMAKE_FIND_ROOT_PATH_MODE_INCLUDE ONLY)\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil { //nolint:gosec // toolchain file is not sensitive
		return zerr.With(zerr.Wrap(err, "failed to write toolchain file"), "path", path)
	}
	return nil
}

// mesonBuild configures with a generated cross file for cross builds, then
// drives meson's compile and install steps.
type mesonBuild struct{}

func (mesonBuild) Kind() domain.BuildSystemKind { return domain.BuildMeson }

func (mesonBuild) Configure(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	meson, err := requireTool(runner, "meson")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(inst.BuildDir(), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create build directory")
	}

	extra, err := inst.Snapshot().List(inst.TargetName(), OptMesonOptions, inst)
	if err != nil {
		return err
	}

	args := []string{"setup", inst.BuildDir(), inst.SourceDir(), "--prefix", inst.InstallPrefix()}
	if cross := inst.Cross(); cross != nil && cross.Triple != "" {
		crossFile := filepath.Join(inst.BuildDir(), "cross-file.ini")
		if err := writeMesonCrossFile(crossFile, cross); err != nil {
			return err
		}
		args = append(args, "--cross-file", crossFile)
	}
	args = append(args, extra...)

	return invoke(ctx, runner, out, ports.Invocation{Executable: meson, Args: args})
}

func (mesonBuild) Compile(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	meson, err := requireTool(runner, "meson")
	if err != nil {
		return err
	}
	return invoke(ctx, runner, out, ports.Invocation{
		Executable: meson,
		Args:       []string{"compile", "-C", inst.BuildDir(), "-j", strconv.Itoa(inst.Jobs())},
	})
}

func (mesonBuild) Install(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	meson, err := requireTool(runner, "meson")
	if err != nil {
		return err
	}
	args := []string{"install", "-C", inst.BuildDir()}
	if inst.DestDir() != "" {
		args = append(args, "--destdir", inst.DestDir())
	}
	return invoke(ctx, runner, out, ports.Invocation{Executable: meson, Args: args})
}

func (mesonBuild) Test(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	meson, err := requireTool(runner, "meson")
	if err != nil {
		return err
	}
	return invoke(ctx, runner, out, ports.Invocation{
		Executable: meson,
		Args:       []string{"test", "-C", inst.BuildDir()},
	})
}

// writeMesonCrossFile renders the cross file consumed by meson setup.
func writeMesonCrossFile(path string, cross *CrossPolicy) error {
	var b strings.Builder
	b.WriteString("[binaries]\n")
	fmt.Fprintf(&b, "c = %q\n", cross.CC)
	fmt.Fprintf(&b, "cpp = %q\n", cross.CXX)
	b.WriteString("\n[host_machine]\n")
	fmt.Fprintf(&b, "system = %q\n", cross.MachineSystem())
	fmt.Fprintf(&b, "cpu_family = %q\n", cross.CPUFamily())
	fmt.Fprintf(&b, "cpu = %q\n", cross.CPUFamily())
	b.WriteString("endian = 'little'\n")
	b.WriteString("\n[properties]\n")
	fmt.Fprintf(&b, "sys_root = %q\n", cross.Sysroot)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil { //nolint:gosec // cross file is not sensitive
		return zerr.With(zerr.Wrap(err, "failed to write cross file"), "path", path)
	}
	return nil
}

// autotoolsBuild assembles CC/CXX/FLAGS from the composed flag lists, then
// runs the configure script out of tree and drives make.
type autotoolsBuild struct{}

func (autotoolsBuild) Kind() domain.BuildSystemKind { return domain.BuildAutotools }

func (autotoolsBuild) Configure(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	if err := os.MkdirAll(inst.BuildDir(), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create build directory")
	}

	extra, err := inst.Snapshot().List(inst.TargetName(), OptConfigureOptions, inst)
	if err != nil {
		return err
	}

	script := filepath.Join(inst.SourceDir(), "configure")
	args := []string{"--prefix=" + inst.InstallPrefix()}
	if cross := inst.Cross(); cross != nil && cross.Triple != "" {
		args = append(args, "--host="+cross.Triple)
	}
	args = append(args, extra...)

	return invoke(ctx, runner, out, ports.Invocation{
		Executable: script,
		Args:       args,
		Dir:        inst.BuildDir(),
		Env:        inst.CompileEnv(),
	})
}

func (autotoolsBuild) Compile(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	makeTool, err := requireTool(runner, "make")
	if err != nil {
		return err
	}
	return invoke(ctx, runner, out, ports.Invocation{
		Executable: makeTool,
		Args:       []string{"-C", inst.BuildDir(), "-j" + strconv.Itoa(inst.Jobs())},
	})
}

func (autotoolsBuild) Install(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	makeTool, err := requireTool(runner, "make")
	if err != nil {
		return err
	}
	args := []string{"-C", inst.BuildDir(), "install"}
	if inst.DestDir() != "" {
		args = append(args, "DESTDIR="+inst.DestDir())
	}
	return invoke(ctx, runner, out, ports.Invocation{Executable: makeTool, Args: args})
}

func (autotoolsBuild) Test(ctx context.Context, inst *Instance, runner ports.ToolRunner, out ports.Vertex) error {
	makeTool, err := requireTool(runner, "make")
	if err != nil {
		return err
	}
	return invoke(ctx, runner, out, ports.Invocation{
		Executable: makeTool,
		Args:       []string{"-C", inst.BuildDir(), "check"},
	})
}
