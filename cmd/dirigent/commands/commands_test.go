package commands_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dirigent/cmd/dirigent/commands"
	"go.trai.ch/dirigent/internal/app"
)

// fakeApp records the calls the CLI makes.
type fakeApp struct {
	runTargets   []string
	runOpts      app.RunOptions
	runCalled    bool
	cleanTargets []string
	cleanOpts    app.CleanOptions
	listCalled   bool
}

func (f *fakeApp) Run(_ context.Context, targetNames []string, opts app.RunOptions) error {
	f.runCalled = true
	f.runTargets = targetNames
	f.runOpts = opts
	return nil
}

func (f *fakeApp) List(string) ([]app.TargetInfo, []app.OptionInfo, error) {
	f.listCalled = true
	targets := []app.TargetInfo{
		{Name: "llvm", BuildSystem: "cmake", Install: "sdk"},
		{Name: "openssh", BuildSystem: "autotools", Install: "rootfs", Cross: true},
	}
	options := []app.OptionInfo{
		{Name: "jobs", Kind: "string", Help: "Job count", Default: "number of CPUs"},
	}
	return targets, options, nil
}

func (f *fakeApp) Clean(_ context.Context, targetNames []string, opts app.CleanOptions) error {
	f.cleanTargets = targetNames
	f.cleanOpts = opts
	return nil
}

func execute(t *testing.T, fake *fakeApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(fake)
	cli.SetArgs(args)
	var out, errOut bytes.Buffer
	cli.SetOutput(&out, &errOut)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestBuildCommandForwardsFlags(t *testing.T) {
	fake := &fakeApp{}
	_, err := execute(t, fake,
		"build", "openssh", "disk-image",
		"--arch", "aarch64",
		"--set", "openssh/baremetal=true",
		"--set", "jobs=8",
		"--force", "--keep-going", "--test", "--skip-update",
	)
	require.NoError(t, err)

	require.True(t, fake.runCalled)
	require.Equal(t, []string{"openssh", "disk-image"}, fake.runTargets)
	require.Equal(t, "aarch64", fake.runOpts.Architecture)
	require.Equal(t, map[string]string{
		"openssh/baremetal": "true",
		"jobs":              "8",
	}, fake.runOpts.Overrides)
	require.True(t, fake.runOpts.Force)
	require.True(t, fake.runOpts.KeepGoing)
	require.True(t, fake.runOpts.WithTests)
	require.True(t, fake.runOpts.SkipUpdate)
}

func TestBuildCommandWithoutTargetsShowsHelp(t *testing.T) {
	fake := &fakeApp{}
	out, err := execute(t, fake, "build")
	require.NoError(t, err)
	require.False(t, fake.runCalled)
	require.Contains(t, out, "Usage:")
}

func TestBuildCommandRejectsMalformedSet(t *testing.T) {
	fake := &fakeApp{}
	_, err := execute(t, fake, "build", "llvm", "--set", "no-equals-sign")
	require.Error(t, err)
	require.False(t, fake.runCalled)
}

func TestListCommandPrintsTable(t *testing.T) {
	fake := &fakeApp{}
	out, err := execute(t, fake, "list", "--options")
	require.NoError(t, err)
	require.True(t, fake.listCalled)
	require.Contains(t, out, "TARGET")
	require.Contains(t, out, "llvm")
	require.Contains(t, out, "autotools")
	require.Contains(t, out, "OPTION")
	require.Contains(t, out, "number of CPUs")
}

func TestCleanCommandForwardsTargets(t *testing.T) {
	fake := &fakeApp{}
	_, err := execute(t, fake, "clean", "openssh", "--arch", "riscv64")
	require.NoError(t, err)
	require.Equal(t, []string{"openssh"}, fake.cleanTargets)
	require.Equal(t, "riscv64", fake.cleanOpts.Architecture)
}

func TestVersionCommand(t *testing.T) {
	fake := &fakeApp{}
	out, err := execute(t, fake, "version")
	require.NoError(t, err)
	require.Contains(t, out, "dirigent version")
}
