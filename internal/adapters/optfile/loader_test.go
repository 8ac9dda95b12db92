package optfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dirigent/internal/adapters/optfile"
)

func TestLoadMissingFileYieldsEmptyMap(t *testing.T) {
	loader := optfile.NewLoader()
	values, err := loader.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NotNil(t, values)
	require.Empty(t, values)
}

func TestLoadFlattensScalarsAndSequences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirigent.yaml")
	content := `
sdk-root: /opt/sdk
jobs: 8
openssh/baremetal: true
wayland/meson-options: [-Ddocumentation=false, -Dtests=false]
llvm/install-directory:
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	values, err := optfile.NewLoader().Load(path)
	require.NoError(t, err)

	require.Equal(t, "/opt/sdk", values["sdk-root"])
	require.Equal(t, "8", values["jobs"])
	require.Equal(t, "true", values["openssh/baremetal"])
	require.Equal(t, "-Ddocumentation=false,-Dtests=false", values["wayland/meson-options"])
	require.Equal(t, "", values["llvm/install-directory"])
}

func TestLoadFlattensNestedMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirigent.yaml")
	content := `
openssh:
  baremetal: true
  configure-options: [--with-pam]
wayland:
  meson-options:
    documentation: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	values, err := optfile.NewLoader().Load(path)
	require.NoError(t, err)

	require.Equal(t, "true", values["openssh/baremetal"])
	require.Equal(t, "--with-pam", values["openssh/configure-options"])
	require.Equal(t, "false", values["wayland/meson-options/documentation"])
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirigent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sdk-root: [unclosed"), 0o644))

	_, err := optfile.NewLoader().Load(path)
	require.Error(t, err)
}
