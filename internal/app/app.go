// Package app implements the application layer for dirigent.
package app

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/dirigent/internal/catalog"
	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/dirigent/internal/engine/lifecycle"
	"go.trai.ch/dirigent/internal/project"
	"go.trai.ch/dirigent/internal/registry"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	fileLoader ports.OptionFileLoader
	engine     *lifecycle.Engine
	markers    ports.MarkerStore
	logger     ports.Logger
	telemetry  ports.Telemetry

	// registerTargets populates the target registry; replaced in tests.
	registerTargets func(*registry.Registry) error
}

// New creates a new App instance.
func New(
	fileLoader ports.OptionFileLoader,
	engine *lifecycle.Engine,
	markers ports.MarkerStore,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		fileLoader:      fileLoader,
		engine:          engine,
		markers:         markers,
		logger:          logger,
		telemetry:       telemetry,
		registerTargets: catalog.Register,
	}
}

// RunOptions carries the command-line selections for one build run.
type RunOptions struct {
	// ConfigFile is the persisted option file path.
	ConfigFile string

	// Architecture is the cross architecture to build for; empty means the
	// host.
	Architecture string

	// Overrides holds --set key=value option overrides.
	Overrides map[string]string

	// Force re-runs phases regardless of completion markers.
	Force bool

	// SkipUpdate leaves existing checkouts untouched.
	SkipUpdate bool

	// KeepGoing continues past failures, skipping only dependents.
	KeepGoing bool

	// WithTests appends the test phase to the run.
	WithTests bool
}

// session is the per-run object graph: registries, resolved snapshot and
// directory layout.
type session struct {
	targets  *registry.Registry
	options  *config.Registry
	snapshot *config.Snapshot
	layout   project.Layout
}

// Run executes the build lifecycle for the named targets.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	defer func() { _ = a.telemetry.Close() }()

	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}
	arch, err := parseArchitecture(opts.Architecture)
	if err != nil {
		return err
	}

	sess, err := a.newSession(opts.ConfigFile, opts.Overrides)
	if err != nil {
		return err
	}

	plan, err := sess.targets.ResolvePlan(targetNames, arch, sess.snapshot, sess.layout)
	if err != nil {
		return err
	}

	phases := domain.DefaultPhases()
	if opts.WithTests {
		phases = phases.With(domain.PhaseTest)
	}
	mode := lifecycle.StopOnFirstError
	if opts.KeepGoing {
		mode = lifecycle.BestEffort
	}

	report, runErr := a.engine.Run(ctx, plan, lifecycle.Options{
		Phases:     phases,
		Force:      opts.Force,
		SkipUpdate: opts.SkipUpdate,
		Mode:       mode,
	})
	a.summarize(plan, report)
	if runErr != nil {
		return zerr.Wrap(runErr, "build execution failed")
	}
	return nil
}

// summarize logs the final per-target outcome of a run.
func (a *App) summarize(plan *registry.Plan, report *lifecycle.Report) {
	for _, key := range plan.Keys() {
		status := report.Status(key)
		line := key + ": " + string(status)
		if status == lifecycle.StatusFailed || status == lifecycle.StatusSkipped {
			a.logger.Warn(line)
			continue
		}
		a.logger.Info(line)
	}
}

// TargetInfo describes one registered target for the list command.
type TargetInfo struct {
	Name          string
	BuildSystem   string
	Install       string
	Cross         bool
	Architectures []domain.Architecture
}

// OptionInfo describes one registered option for the list command.
type OptionInfo struct {
	Name    string
	Kind    string
	Help    string
	Default string
}

// List returns every registered target together with its declared options.
func (a *App) List(configFile string) ([]TargetInfo, []OptionInfo, error) {
	sess, err := a.newSession(configFile, nil)
	if err != nil {
		return nil, nil, err
	}

	var targets []TargetInfo
	for _, name := range sess.targets.Names() {
		spec, _ := sess.targets.Lookup(name)
		targets = append(targets, TargetInfo{
			Name:          name,
			BuildSystem:   spec.Build.String(),
			Install:       spec.Install.String(),
			Cross:         spec.Cross,
			Architectures: spec.Architectures,
		})
	}

	var options []OptionInfo
	for _, opt := range sess.options.All() {
		options = append(options, OptionInfo{
			Name:    opt.QualifiedName(),
			Kind:    opt.Kind.String(),
			Help:    opt.Help,
			Default: opt.DefaultDescription(),
		})
	}
	return targets, options, nil
}

// CleanOptions selects what Clean removes.
type CleanOptions struct {
	ConfigFile   string
	Architecture string
}

// Clean removes the build directories and completion markers of the named
// targets, or of every known target when none are given. Removals run in
// parallel; failures are joined.
func (a *App) Clean(ctx context.Context, targetNames []string, opts CleanOptions) error {
	arch, err := parseArchitecture(opts.Architecture)
	if err != nil {
		return err
	}
	sess, err := a.newSession(opts.ConfigFile, nil)
	if err != nil {
		return err
	}
	if len(targetNames) == 0 {
		targetNames = sess.targets.Names()
	}

	g, _ := errgroup.WithContext(ctx)
	for _, name := range targetNames {
		inst, err := sess.targets.Instantiate(name, arch, sess.snapshot, sess.layout)
		if err != nil {
			return err
		}
		g.Go(func() error {
			a.logger.Info("removing " + inst.BuildDir())
			if err := os.RemoveAll(inst.BuildDir()); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to remove build directory"), "target", inst.Key())
			}
			return a.markers.Delete(inst.TargetName(), inst.TargetArchitecture())
		})
	}
	return g.Wait()
}

// newSession builds the per-run registries: global and per-class options are
// declared, overrides validated against them, and the directory layout
// resolved from the snapshot.
func (a *App) newSession(configFile string, overrides map[string]string) (*session, error) {
	targets := registry.New()
	if err := a.registerTargets(targets); err != nil {
		return nil, err
	}

	options := config.NewRegistry()
	if err := project.RegisterGlobalOptions(options); err != nil {
		return nil, err
	}
	if err := targets.SetupOptions(options); err != nil {
		return nil, err
	}

	fileValues, err := a.fileLoader.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := options.ValidateOverrides(fileValues); err != nil {
		return nil, zerr.Wrap(err, "invalid option in config file")
	}
	if err := options.ValidateOverrides(overrides); err != nil {
		return nil, err
	}

	snapshot := config.NewSnapshot(options,
		config.WithFileValues(fileValues),
		config.WithCLIValues(overrides),
	)
	layout, err := project.ResolveLayout(snapshot)
	if err != nil {
		return nil, err
	}

	return &session{
		targets:  targets,
		options:  options,
		snapshot: snapshot,
		layout:   layout,
	}, nil
}

func parseArchitecture(name string) (domain.Architecture, error) {
	if name == "" {
		return domain.ArchNative, nil
	}
	arch := domain.Architecture(name)
	if !arch.Known() {
		err := domain.Annotate(domain.ErrUnsupportedArchitecture, "architecture", name)
		return "", zerr.With(err, "hint", "known architectures: "+knownArchitectures())
	}
	return arch, nil
}

func knownArchitectures() string {
	var names string
	for i, arch := range domain.AllArchitectures {
		if i > 0 {
			names += ", "
		}
		names += arch.String()
	}
	return names
}

// DefaultConfigPath returns the option file looked up when --config is not
// given: dirigent.yaml in the working directory.
func DefaultConfigPath() string {
	return filepath.Join(".", "dirigent.yaml")
}
