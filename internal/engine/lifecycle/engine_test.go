package lifecycle_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/dirigent/internal/config"
	"go.trai.ch/dirigent/internal/core/domain"
	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/dirigent/internal/core/ports/mocks"
	"go.trai.ch/dirigent/internal/engine/lifecycle"
	"go.trai.ch/dirigent/internal/project"
	"go.trai.ch/dirigent/internal/registry"
	"go.uber.org/mock/gomock"
)

// memMarkers is an in-memory ports.MarkerStore.
type memMarkers struct {
	mu sync.Mutex
	m  map[string]domain.PhaseMarker
}

func newMemMarkers() *memMarkers {
	return &memMarkers{m: make(map[string]domain.PhaseMarker)}
}

func (s *memMarkers) Get(target string, arch domain.Architecture, phase domain.Phase) (*domain.PhaseMarker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if marker, ok := s.m[domain.MarkerKey(target, arch, phase)]; ok {
		return &marker, nil
	}
	return nil, nil
}

func (s *memMarkers) Put(marker domain.PhaseMarker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[marker.Key()] = marker
	return nil
}

func (s *memMarkers) Delete(target string, arch domain.Architecture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := target + "@" + arch.String() + "/"
	for key := range s.m {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.m, key)
		}
	}
	return nil
}

func (s *memMarkers) has(target string, arch domain.Architecture, phase domain.Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[domain.MarkerKey(target, arch, phase)]
	return ok
}

// recLogger records log lines for assertions.
type recLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
	errs  []error
}

func (l *recLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recLogger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recLogger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

// fakeVertex and fakeTelemetry record what the engine reports per phase.
type fakeVertex struct {
	name   string
	cached bool
	done   bool
	err    error
}

func (v *fakeVertex) Stdout() io.Writer  { return io.Discard }
func (v *fakeVertex) Stderr() io.Writer  { return io.Discard }
func (v *fakeVertex) Cached()            { v.cached = true }
func (v *fakeVertex) Complete(err error) { v.done, v.err = true, err }

type fakeTelemetry struct {
	mu       sync.Mutex
	vertices []*fakeVertex
}

func (f *fakeTelemetry) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := &fakeVertex{name: name}
	f.vertices = append(f.vertices, v)
	return ctx, v
}

func (f *fakeTelemetry) Close() error { return nil }

func (f *fakeTelemetry) cachedSince(start int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, v := range f.vertices[start:] {
		if v.cached {
			count++
		}
	}
	return count
}

func (f *fakeTelemetry) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.vertices)
}

// harness wires an engine over test doubles and resolves plans against the
// given specs.
type harness struct {
	runner  *mocks.MockToolRunner
	vcs     *mocks.MockSourceControl
	markers *memMarkers
	logger  *recLogger
	tel     *fakeTelemetry
	engine  *lifecycle.Engine

	reg    *registry.Registry
	snap   *config.Snapshot
	layout project.Layout
}

func newHarness(t *testing.T, overrides map[string]string, specs ...*project.Spec) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		runner:  mocks.NewMockToolRunner(ctrl),
		vcs:     mocks.NewMockSourceControl(ctrl),
		markers: newMemMarkers(),
		logger:  &recLogger{},
		tel:     &fakeTelemetry{},
		reg:     registry.New(),
	}
	h.engine = lifecycle.NewEngine(h.runner, h.vcs, h.markers, h.logger, h.tel)

	for _, spec := range specs {
		require.NoError(t, h.reg.Register(spec))
	}
	optReg := config.NewRegistry()
	require.NoError(t, project.RegisterGlobalOptions(optReg))
	require.NoError(t, h.reg.SetupOptions(optReg))

	values := map[string]string{"jobs": "2"}
	for k, v := range overrides {
		values[k] = v
	}
	h.snap = config.NewSnapshot(optReg,
		config.WithEnvLookup(func(string) (string, bool) { return "", false }),
		config.WithCLIValues(values),
	)
	var err error
	h.layout, err = project.ResolveLayout(h.snap)
	require.NoError(t, err)
	return h
}

func (h *harness) plan(t *testing.T, names ...string) *registry.Plan {
	t.Helper()
	plan, err := h.reg.ResolvePlan(names, domain.ArchNative, h.snap, h.layout)
	require.NoError(t, err)
	return plan
}

// aggregate is a sourceless no-build spec; its phases succeed without
// touching the runner or VCS.
func aggregate(name string, deps ...string) *project.Spec {
	return &project.Spec{
		Name:         name,
		Install:      domain.InstallNone,
		Build:        domain.BuildNone,
		Dependencies: project.StaticDeps(deps...),
	}
}

// failing returns an aggregate whose configure phase fails.
func failing(name string, deps ...string) *project.Spec {
	spec := aggregate(name, deps...)
	spec.Hooks.Configure = func(context.Context, *project.Instance, project.NextFunc) error {
		return errors.New("configure exploded")
	}
	return spec
}

func TestRunExecutesPhasesAndWritesMarkers(t *testing.T) {
	h := newHarness(t, nil, aggregate("img"))

	report, err := h.engine.Run(context.Background(), h.plan(t, "img"), lifecycle.Options{})
	require.NoError(t, err)
	require.Equal(t, lifecycle.StatusDone, report.Status("img@native"))

	for _, phase := range []domain.Phase{domain.PhaseConfigure, domain.PhaseBuild, domain.PhaseInstall} {
		require.True(t, h.markers.has("img", domain.ArchNative, phase), phase.String())
	}
	require.False(t, h.markers.has("img", domain.ArchNative, domain.PhaseCheckout),
		"checkout is governed by SkipUpdate, not markers")
	require.False(t, h.markers.has("img", domain.ArchNative, domain.PhaseTest),
		"tests are not part of the default phase set")
}

func TestRunWithTestPhase(t *testing.T) {
	h := newHarness(t, nil, aggregate("img"))

	phases := domain.DefaultPhases().With(domain.PhaseTest)
	_, err := h.engine.Run(context.Background(), h.plan(t, "img"), lifecycle.Options{Phases: phases})
	require.NoError(t, err)
	require.True(t, h.markers.has("img", domain.ArchNative, domain.PhaseTest))
}

func TestMarkersSkipSatisfiedPhases(t *testing.T) {
	h := newHarness(t, nil, aggregate("img"))
	ctx := context.Background()

	_, err := h.engine.Run(ctx, h.plan(t, "img"), lifecycle.Options{})
	require.NoError(t, err)
	require.Zero(t, h.tel.cachedSince(0), "first run executes everything")

	start := h.tel.count()
	report, err := h.engine.Run(ctx, h.plan(t, "img"), lifecycle.Options{})
	require.NoError(t, err)
	require.Equal(t, lifecycle.StatusDone, report.Status("img@native"))
	// Configure, build and install are satisfied by markers; checkout is
	// governed by SkipUpdate, not markers.
	require.Equal(t, 3, h.tel.cachedSince(start))
}

func TestForceIgnoresMarkers(t *testing.T) {
	h := newHarness(t, nil, aggregate("img"))
	ctx := context.Background()

	_, err := h.engine.Run(ctx, h.plan(t, "img"), lifecycle.Options{})
	require.NoError(t, err)

	start := h.tel.count()
	_, err = h.engine.Run(ctx, h.plan(t, "img"), lifecycle.Options{Force: true})
	require.NoError(t, err)
	require.Zero(t, h.tel.cachedSince(start))
}

func TestStopOnFirstErrorSkipsRemainder(t *testing.T) {
	h := newHarness(t, nil, failing("broken"), aggregate("independent"))

	report, err := h.engine.Run(context.Background(),
		h.plan(t, "broken", "independent"),
		lifecycle.Options{Mode: lifecycle.StopOnFirstError})

	require.Error(t, err)
	require.Equal(t, lifecycle.StatusFailed, report.Status("broken@native"))
	require.Equal(t, lifecycle.StatusSkipped, report.Status("independent@native"))
	require.ErrorContains(t, report.Failure("broken@native"), "configure exploded")
	require.Nil(t, report.Failure("independent@native"))
}

func TestBestEffortSkipsOnlyDependents(t *testing.T) {
	h := newHarness(t, nil,
		failing("broken"),
		aggregate("dependent", "broken"),
		aggregate("grandchild", "dependent"),
		aggregate("independent"),
	)

	report, err := h.engine.Run(context.Background(),
		h.plan(t, "broken", "dependent", "grandchild", "independent"),
		lifecycle.Options{Mode: lifecycle.BestEffort})

	require.Error(t, err)
	require.Equal(t, lifecycle.StatusFailed, report.Status("broken@native"))
	require.Equal(t, lifecycle.StatusSkipped, report.Status("dependent@native"))
	require.Equal(t, lifecycle.StatusSkipped, report.Status("grandchild@native"))
	require.Equal(t, lifecycle.StatusDone, report.Status("independent@native"))
	require.NotEmpty(t, h.logger.warns)
}

func TestInterruptWritesNoMarkerAndSkipsRest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	first := aggregate("first")
	first.Hooks.Compile = func(context.Context, *project.Instance, project.NextFunc) error {
		cancel()
		return nil
	}
	h := newHarness(t, nil, first, aggregate("second"))

	report, err := h.engine.Run(ctx, h.plan(t, "first", "second"), lifecycle.Options{})
	require.ErrorIs(t, err, context.Canceled)

	// The configure phase completed before the interrupt, the build phase
	// must not be persisted as satisfied.
	require.True(t, h.markers.has("first", domain.ArchNative, domain.PhaseConfigure))
	require.False(t, h.markers.has("first", domain.ArchNative, domain.PhaseBuild))
	require.Equal(t, lifecycle.StatusFailed, report.Status("first@native"))
	require.Equal(t, lifecycle.StatusSkipped, report.Status("second@native"))
}

func TestReportJoinsAllFailuresInBestEffort(t *testing.T) {
	h := newHarness(t, nil, failing("one"), failing("two"))

	_, err := h.engine.Run(context.Background(),
		h.plan(t, "one", "two"),
		lifecycle.Options{Mode: lifecycle.BestEffort})

	require.Error(t, err)
	require.ErrorContains(t, err, "configure exploded")
	require.Len(t, h.logger.errs, 2)
}
