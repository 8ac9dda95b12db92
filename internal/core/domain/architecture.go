package domain

// Architecture identifies a cross-compilation destination. The zero-value
// semantics are avoided; ArchNative is the explicit "build for the host"
// architecture.
type Architecture string

const (
	// ArchNative builds for the host itself, without a cross toolchain.
	ArchNative Architecture = "native"
	// ArchAArch64 is the 64-bit ARM cross target.
	ArchAArch64 Architecture = "aarch64"
	// ArchRISCV64 is the 64-bit RISC-V cross target.
	ArchRISCV64 Architecture = "riscv64"
)

// AllArchitectures lists every architecture known to the tool, in the order
// they are presented to users.
var AllArchitectures = []Architecture{ArchNative, ArchAArch64, ArchRISCV64}

// ArchInfo describes the compilation properties of an architecture.
type ArchInfo struct {
	// Triple is the target triple passed to cross compilers. Empty for the
	// native architecture, where the compiler default applies.
	Triple string

	// SysrootSubdir is the subdirectory under the SDK root that holds this
	// architecture's sysroot.
	SysrootSubdir string

	// PointerSize is sizeof(void*) on the target, in bytes.
	PointerSize int
}

var archInfos = map[Architecture]ArchInfo{
	ArchNative:  {PointerSize: 8},
	ArchAArch64: {Triple: "aarch64-unknown-linux-gnu", SysrootSubdir: "sysroot-aarch64", PointerSize: 8},
	ArchRISCV64: {Triple: "riscv64-unknown-linux-gnu", SysrootSubdir: "sysroot-riscv64", PointerSize: 8},
}

// Known reports whether a is a recognized architecture name.
func (a Architecture) Known() bool {
	_, ok := archInfos[a]
	return ok
}

// IsNative reports whether a is the host architecture.
func (a Architecture) IsNative() bool {
	return a == ArchNative
}

// Info returns the compilation properties for a. It returns the zero ArchInfo
// for unknown architectures; callers validate with Known first.
func (a Architecture) Info() ArchInfo {
	return archInfos[a]
}

// String returns the architecture name.
func (a Architecture) String() string {
	return string(a)
}
