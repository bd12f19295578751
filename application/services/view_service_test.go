package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"casegraph/application/ports"
	"casegraph/domain/config"
	"casegraph/domain/core/valueobjects"
	"casegraph/domain/events"
	"casegraph/pkg/errors"
)

// In-memory fakes

type fakeEntityRepo struct {
	mu   sync.Mutex
	data map[string][]valueobjects.EntityRecord
}

func newFakeEntityRepo() *fakeEntityRepo {
	return &fakeEntityRepo{data: make(map[string][]valueobjects.EntityRecord)}
}

func (r *fakeEntityRepo) ReplaceForCase(_ context.Context, caseID string, entities []valueobjects.EntityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[caseID] = entities
	return nil
}

func (r *fakeEntityRepo) GetByCaseID(_ context.Context, caseID string) ([]valueobjects.EntityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[caseID], nil
}

func (r *fakeEntityRepo) DeleteByCaseID(_ context.Context, caseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, caseID)
	return nil
}

type fakeRelationshipRepo struct {
	mu   sync.Mutex
	data map[string][]valueobjects.RelationshipRecord
}

func newFakeRelationshipRepo() *fakeRelationshipRepo {
	return &fakeRelationshipRepo{data: make(map[string][]valueobjects.RelationshipRecord)}
}

func (r *fakeRelationshipRepo) ReplaceForCase(_ context.Context, caseID string, relationships []valueobjects.RelationshipRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[caseID] = relationships
	return nil
}

func (r *fakeRelationshipRepo) GetByCaseID(_ context.Context, caseID string) ([]valueobjects.RelationshipRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[caseID], nil
}

func (r *fakeRelationshipRepo) DeleteByCaseID(_ context.Context, caseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, caseID)
	return nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) PublishBatch(_ context.Context, batch []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, batch...)
	return nil
}

func (p *capturingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type capturingRealtime struct {
	mu     sync.Mutex
	frames []ports.PositionFrame
}

func (r *capturingRealtime) PushFrame(_ context.Context, frame ports.PositionFrame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return nil
}

func (r *capturingRealtime) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

type noopMetrics struct{}

func (noopMetrics) RecordTick(context.Context, string, float64, float64) {}
func (noopMetrics) RecordRebuild(context.Context, string, int, int)      {}

type testHarness struct {
	svc      *ViewService
	pub      *capturingPublisher
	realtime *capturingRealtime
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	pub := &capturingPublisher{}
	realtime := &capturingRealtime{}
	svc := NewViewService(
		config.DefaultDomainConfig(),
		newFakeEntityRepo(),
		newFakeRelationshipRepo(),
		pub,
		realtime,
		noopMetrics{},
		zap.NewNop(),
	)
	return &testHarness{svc: svc, pub: pub, realtime: realtime}
}

func seedCase(t *testing.T, h *testHarness, caseID string) {
	t.Helper()
	err := h.svc.UpdateGraphData(context.Background(), caseID,
		[]valueobjects.EntityRecord{
			{ID: "a", Type: "person", Name: "Alice", Degree: 2, Domains: []string{"legal"}},
			{ID: "b", Type: "person", Name: "Bob", Degree: 1, Domains: []string{"legal"}},
			{ID: "c", Type: "organization", Name: "Carter LLC", Degree: 1, Domains: []string{"financial"}},
		},
		[]valueobjects.RelationshipRecord{
			{ID: "r1", SourceEntityID: "a", TargetEntityID: "b", Label: "knows"},
			{ID: "r2", SourceEntityID: "a", TargetEntityID: "c", Label: "owns"},
		},
	)
	require.NoError(t, err)
}

func TestViewService_UpdateGraphData(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the view and starts the simulation", func(t *testing.T) {
		h := newHarness(t)
		seedCase(t, h, "case-1")

		state, err := h.svc.ViewState(ctx, "case-1")
		require.NoError(t, err)
		assert.Len(t, state.Nodes, 3)
		assert.Len(t, state.Edges, 2)
		assert.True(t, state.Simulation.Running)
		assert.Equal(t, 1, state.Generation)
	})

	t.Run("publishes rebuild and state change events", func(t *testing.T) {
		h := newHarness(t)
		seedCase(t, h, "case-1")

		assert.Contains(t, h.pub.types(), "graph.rebuilt")
		assert.Contains(t, h.pub.types(), "simulation.state_changed")
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		h := newHarness(t)
		cfg := config.DefaultDomainConfig()

		oversized := make([]valueobjects.EntityRecord, cfg.MaxEntities+1)
		err := h.svc.UpdateGraphData(ctx, "case-1", oversized, nil)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("invalid records are dropped, not fatal", func(t *testing.T) {
		h := newHarness(t)
		err := h.svc.UpdateGraphData(ctx, "case-1",
			[]valueobjects.EntityRecord{
				{ID: "a", Type: "person", Name: "Alice"},
				{ID: "", Type: "person", Name: "nameless"},
			},
			nil,
		)
		require.NoError(t, err)

		state, err := h.svc.ViewState(ctx, "case-1")
		require.NoError(t, err)
		assert.Len(t, state.Nodes, 1)
	})
}

func TestViewService_CommandsRequireExistingView(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	err := h.svc.SelectNode(ctx, "missing", "a")
	assert.True(t, errors.IsNotFound(err))

	_, err = h.svc.ViewState(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestViewService_SelectionFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedCase(t, h, "case-1")

	require.NoError(t, h.svc.SelectNode(ctx, "case-1", "a"))

	sel, err := h.svc.Selection(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, "a", sel.SelectedNodeID)
	assert.Equal(t, []string{"a", "b", "c"}, sel.MemberIDs)

	state, err := h.svc.ViewState(ctx, "case-1")
	require.NoError(t, err)
	for _, node := range state.Nodes {
		assert.Equal(t, 1.0, node.Opacity, "all nodes are in a's cluster")
	}

	// Toggle off.
	require.NoError(t, h.svc.SelectNode(ctx, "case-1", "a"))
	sel, err = h.svc.Selection(ctx, "case-1")
	require.NoError(t, err)
	assert.Empty(t, sel.SelectedNodeID)
}

func TestViewService_FilterFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedCase(t, h, "case-1")

	require.NoError(t, h.svc.ToggleTypeFilter(ctx, "case-1", "organization"))

	state, err := h.svc.ViewState(ctx, "case-1")
	require.NoError(t, err)
	assert.Len(t, state.Nodes, 2)
	assert.Len(t, state.Edges, 1, "edge to the filtered organization drops")

	counts, err := h.svc.FacetCounts(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Counts.ByType["organization"], "counts stay unfiltered")
}

func TestViewService_SimulationToggle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedCase(t, h, "case-1")

	running, err := h.svc.ToggleSimulation(ctx, "case-1")
	require.NoError(t, err)
	assert.False(t, running)

	running, err = h.svc.ToggleSimulation(ctx, "case-1")
	require.NoError(t, err)
	assert.True(t, running)
}

func TestViewService_ViewportFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedCase(t, h, "case-1")

	require.NoError(t, h.svc.WheelZoom(ctx, "case-1", 100, 0, 0))

	state, err := h.svc.ViewState(ctx, "case-1")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDomainConfig().MaxScale, state.Transform.Scale)

	err = h.svc.ZoomToNode(ctx, "case-1", "ghost")
	assert.True(t, errors.IsNotFound(err))
}

func TestViewService_FrameLoop(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	seedCase(t, h, "case-1")

	now := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		now = now.Add(16 * time.Millisecond)
		h.svc.StepFrame(ctx, now)
	}

	require.GreaterOrEqual(t, h.realtime.count(), 5)
	frame := h.realtime.frames[0]
	assert.Equal(t, "case-1", frame.CaseID)
	assert.Len(t, frame.Positions, 3)

	t.Run("frozen engine produces no frames", func(t *testing.T) {
		_, err := h.svc.ToggleSimulation(ctx, "case-1")
		require.NoError(t, err)

		before := h.realtime.count()
		h.svc.StepFrame(ctx, now.Add(time.Second))
		assert.Equal(t, before, h.realtime.count())
	})
}
