// Package lifecycle implements the build lifecycle engine: it drives each
// plan entry through checkout, configure, build, install and test, with
// completion-marker skipping and partial-failure recovery.
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/dirigent/internal/project"
	"go.trai.ch/dirigent/internal/registry"
	"go.trai.ch/zerr"
)

// Status is the overall outcome of one plan entry.
type Status string

const (
	// StatusPending indicates the instance has not been reached yet.
	StatusPending Status = "Pending"
	// StatusRunning indicates the instance's phases are executing.
	StatusRunning Status = "Running"
	// StatusDone indicates every requested phase finished or was skipped via
	// a valid completion marker.
	StatusDone Status = "Done"
	// StatusFailed indicates a phase failed; remaining phases were not run.
	StatusFailed Status = "Failed"
	// StatusSkipped indicates the instance was never attempted because an
	// earlier target failed.
	StatusSkipped Status = "Skipped"
)

// Mode controls how a failure propagates to the rest of the plan.
type Mode int

const (
	// StopOnFirstError aborts the whole run at the first failed target;
	// everything after it is reported as skipped.
	StopOnFirstError Mode = iota
	// BestEffort keeps building targets that do not depend on a failed one;
	// dependents of failures are reported as skipped.
	BestEffort
)

// Options selects what a run executes.
type Options struct {
	// Phases is the requested phase subset; zero means the default set
	// (everything except tests).
	Phases domain.PhaseSet

	// Force ignores completion markers and re-runs every requested phase.
	Force bool

	// SkipUpdate leaves existing working copies untouched instead of
	// reconciling them against the remote.
	SkipUpdate bool

	// Mode selects the failure propagation policy.
	Mode Mode
}

// Report records per-instance outcomes of a run.
type Report struct {
	mu       sync.Mutex
	statuses map[string]Status
	failures map[string]error
}

func newReport(plan *registry.Plan) *Report {
	r := &Report{
		statuses: make(map[string]Status, plan.Len()),
		failures: make(map[string]error),
	}
	for _, key := range plan.Keys() {
		r.statuses[key] = StatusPending
	}
	return r
}

func (r *Report) set(key string, status Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[key] = status
}

func (r *Report) fail(key string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[key] = StatusFailed
	r.failures[key] = err
}

// Status returns the recorded outcome for an instance key.
func (r *Report) Status(key string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statuses[key]
}

// Failure returns the recorded error for an instance key, nil if it did not
// fail.
func (r *Report) Failure(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures[key]
}

// Engine executes plans. Phases run strictly in plan order, one target at a
// time; parallelism lives inside the invoked build tools, not here.
type Engine struct {
	runner    ports.ToolRunner
	vcs       ports.SourceControl
	markers   ports.MarkerStore
	logger    ports.Logger
	telemetry ports.Telemetry
}

// NewEngine creates an Engine with the given collaborators.
func NewEngine(
	runner ports.ToolRunner,
	vcs ports.SourceControl,
	markers ports.MarkerStore,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Engine {
	return &Engine{
		runner:    runner,
		vcs:       vcs,
		markers:   markers,
		logger:    logger,
		telemetry: telemetry,
	}
}

// Run executes every instance in plan order, running the requested phase
// subset for each. It returns the per-instance report together with the
// joined failure errors, nil when everything succeeded.
func (e *Engine) Run(ctx context.Context, plan *registry.Plan, opts Options) (*Report, error) {
	if opts.Phases == 0 {
		opts.Phases = domain.DefaultPhases()
	}

	report := newReport(plan)
	var errs error
	anyFailed := false

	for _, inst := range plan.Instances() {
		key := inst.Key()

		if ctx.Err() != nil {
			report.set(key, StatusSkipped)
			continue
		}
		if anyFailed && opts.Mode == StopOnFirstError {
			report.set(key, StatusSkipped)
			continue
		}
		if opts.Mode == BestEffort && e.dependencyFailed(plan, report, key) {
			report.set(key, StatusSkipped)
			e.logger.Warn("skipping " + key + ": a dependency failed")
			continue
		}

		report.set(key, StatusRunning)
		if err := e.runInstance(ctx, inst, opts); err != nil {
			anyFailed = true
			wrapped := domain.Annotate(err, "target", key)
			report.fail(key, wrapped)
			errs = errors.Join(errs, wrapped)
			e.logger.Error(wrapped)
			continue
		}
		report.set(key, StatusDone)
	}

	if ctx.Err() != nil {
		errs = errors.Join(errs, ctx.Err())
	}
	return report, errs
}

// dependencyFailed reports whether any direct dependency of key failed or was
// itself skipped. Dependencies sort earlier in the plan, so their outcome is
// already known; checking direct edges propagates transitively.
func (e *Engine) dependencyFailed(plan *registry.Plan, report *Report, key string) bool {
	for _, dep := range plan.DependencyKeys(key) {
		switch report.Status(dep) {
		case StatusFailed, StatusSkipped:
			return true
		}
	}
	return false
}

// phaseOrder maps a lifecycle phase to the instance method executing it.
func (e *Engine) runInstance(ctx context.Context, inst *project.Instance, opts Options) error {
	for _, phase := range domain.AllPhases {
		if !opts.Phases.Has(phase) {
			continue
		}
		if err := e.runPhase(ctx, inst, phase, opts); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) runPhase(ctx context.Context, inst *project.Instance, phase domain.Phase, opts Options) error {
	key := inst.Key()
	stamp := stampHash(inst, phase)

	// Checkout reconciliation is cheap when up to date and must notice
	// remote changes on branch-tracking targets, so it is controlled by
	// SkipUpdate rather than a marker; it neither reads nor writes one.
	marked := phase != domain.PhaseCheckout
	if marked && !opts.Force {
		marker, err := e.markers.Get(inst.TargetName(), inst.TargetArchitecture(), phase)
		if err != nil {
			return zerr.Wrap(err, "failed to read completion marker")
		}
		if marker != nil && marker.InputHash == stamp {
			_, vertex := e.telemetry.Record(ctx, key+" "+phase.String())
			vertex.Cached()
			vertex.Complete(nil)
			return nil
		}
	}

	ctx, vertex := e.telemetry.Record(ctx, key+" "+phase.String())
	err := e.executePhase(ctx, inst, phase, opts, vertex)
	vertex.Complete(err)
	if err != nil {
		phaseErr := zerr.With(zerr.Wrap(err, "phase failed"), "phase", phase.String())
		return zerr.With(phaseErr, "hint", "fix the failure and re-run, or pass --force to rebuild from scratch")
	}

	// An interrupt must not persist the in-progress phase as satisfied, so
	// a later run retries it.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !marked {
		return nil
	}
	if err := e.markers.Put(domain.PhaseMarker{
		Target:       inst.TargetName(),
		Architecture: inst.TargetArchitecture().String(),
		Phase:        phase.String(),
		InputHash:    stamp,
		Timestamp:    time.Now(),
	}); err != nil {
		return zerr.Wrap(err, "failed to write completion marker")
	}
	return nil
}

func (e *Engine) executePhase(ctx context.Context, inst *project.Instance, phase domain.Phase, opts Options, vertex ports.Vertex) error {
	switch phase {
	case domain.PhaseCheckout:
		return e.checkout(ctx, inst, opts)
	case domain.PhaseConfigure:
		return inst.Configure(ctx, e.runner, vertex)
	case domain.PhaseBuild:
		return inst.Compile(ctx, e.runner, vertex)
	case domain.PhaseInstall:
		return inst.Install(ctx, e.runner, vertex)
	case domain.PhaseTest:
		return inst.RunTests(ctx, e.runner, vertex)
	}
	return zerr.With(zerr.New("unknown phase"), "phase", int(phase))
}
