// Package catalog declares the built-in target specifications.
package catalog

import (
	"context"
	"path/filepath"

	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/dirigent/internal/project"
	"go.trai.ch/dirigent/internal/registry"
)

// Register adds every built-in target to the registry.
func Register(reg *registry.Registry) error {
	specs := []*project.Spec{
		llvm(),
		qemu(),
		sysroot(),
		freestandingSysroot(),
		openssh(),
		wayland(),
		diskImage(),
	}
	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// llvm is the host toolchain every cross build depends on. It installs the
// compilers into the SDK root.
func llvm() *project.Spec {
	return &project.Spec{
		Name: "llvm",
		Repo: domain.Repository{
			URL:    "https://github.com/llvm/llvm-project.git",
			Branch: "main",
		},
		Install:       domain.InstallSDK,
		Build:         domain.BuildCMake,
		Architectures: []domain.Architecture{domain.ArchNative},
	}
}

// qemu is the emulator used to run built images. Host-only, autotools-style
// configure script.
func qemu() *project.Spec {
	return &project.Spec{
		Name: "qemu",
		Repo: domain.Repository{
			URL:    "https://github.com/qemu/qemu.git",
			Branch: "master",
			LegacyURLs: []string{
				"https://git.qemu.org/git/qemu.git",
				"git://git.qemu-project.org/qemu.git",
			},
		},
		Install:       domain.InstallSDK,
		Build:         domain.BuildAutotools,
		Architectures: []domain.Architecture{domain.ArchNative},
	}
}

// sysroot populates the full OS sysroot for a cross architecture.
func sysroot() *project.Spec {
	return &project.Spec{
		Name: "sysroot",
		Repo: domain.Repository{
			URL:            "https://github.com/dirigent-os/world.git",
			Branch:         "main",
			TrackedSubdirs: []string{"lib", "include"},
		},
		Install:      domain.InstallSDK,
		Build:        domain.BuildMake,
		Cross:        true,
		Dependencies: project.StaticDeps("llvm"),
	}
}

// freestandingSysroot is the minimal headers-and-runtime sysroot for
// baremetal builds.
func freestandingSysroot() *project.Spec {
	return &project.Spec{
		Name: "freestanding-sysroot",
		Repo: domain.Repository{
			URL:    "https://github.com/dirigent-os/freestanding.git",
			Branch: "main",
		},
		Install:      domain.InstallSDK,
		Build:        domain.BuildMake,
		Cross:        true,
		Dependencies: project.StaticDeps("llvm"),
	}
}

// openssh is a cross-compiled rootfs service. Its dependency set branches on
// the resolved baremetal option, and its configure hook regenerates the
// configure script before the autotools default runs.
func openssh() *project.Spec {
	const name = "openssh"
	return &project.Spec{
		Name: name,
		Repo: domain.Repository{
			URL:    "https://github.com/openssh/openssh-portable.git",
			Branch: "master",
		},
		Install: domain.InstallRootfs,
		Build:   domain.BuildAutotools,
		Cross:   true,
		Dependencies: func(snap *config.Snapshot) []string {
			baremetal, err := snap.Bool(name, "baremetal", nil)
			if err == nil && baremetal {
				return []string{"freestanding-sysroot"}
			}
			return []string{"sysroot"}
		},
		Options: []project.OptionContributor{
			func(reg *config.Registry, specName string) error {
				_, err := reg.Register(&config.Option{
					Target:  specName,
					Name:    "baremetal",
					Kind:    config.KindBool,
					Default: false,
					Help:    "Build against the freestanding sysroot instead of the full one",
				})
				return err
			},
		},
		Hooks: project.Hooks{
			Configure: regenerateConfigure,
		},
	}
}

// regenerateConfigure runs autoreconf in the source tree, then the default
// autotools configure step.
func regenerateConfigure(ctx context.Context, inst *project.Instance, next project.NextFunc) error {
	runner, out := inst.Runner(), inst.Output()
	autoreconf, err := runner.LookPath("autoreconf")
	if err != nil {
		return err
	}
	if err := runner.Invoke(ctx, ports.Invocation{
		Executable: autoreconf,
		Args:       []string{"--install"},
		Dir:        filepath.Clean(inst.SourceDir()),
		Stdout:     out.Stdout(),
		Stderr:     out.Stderr(),
	}); err != nil {
		return err
	}
	return next(ctx)
}

// wayland is a cross-compiled meson library installed into the rootfs.
func wayland() *project.Spec {
	return &project.Spec{
		Name: "wayland",
		Repo: domain.Repository{
			URL:    "https://gitlab.freedesktop.org/wayland/wayland.git",
			Branch: "main",
			LegacyURLs: []string{
				"https://github.com/wayland-project/wayland.git",
			},
		},
		Install:      domain.InstallRootfs,
		Build:        domain.BuildMeson,
		Cross:        true,
		Dependencies: project.StaticDeps("sysroot"),
	}
}

// diskImage aggregates the rootfs contributors; it has no sources or build
// steps of its own.
func diskImage() *project.Spec {
	return &project.Spec{
		Name:         "disk-image",
		Install:      domain.InstallNone,
		Build:        domain.BuildNone,
		Cross:        true,
		Dependencies: project.StaticDeps("openssh", "wayland"),
	}
}
