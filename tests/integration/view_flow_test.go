package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"casegraph/application/commands"
	"casegraph/application/commands/bus"
	commandhandlers "casegraph/application/commands/handlers"
	"casegraph/application/ports"
	"casegraph/application/queries"
	querybus "casegraph/application/queries/bus"
	queryhandlers "casegraph/application/queries/handlers"
	"casegraph/application/services"
	domainconfig "casegraph/domain/config"
	"casegraph/domain/core/valueobjects"
	"casegraph/infrastructure/messaging"
	"casegraph/infrastructure/observability/cloudwatch"
	"casegraph/infrastructure/persistence/memory"
)

// frameRecorder captures pushed position frames.
type frameRecorder struct {
	mu     sync.Mutex
	frames []ports.PositionFrame
}

func (r *frameRecorder) PushFrame(_ context.Context, frame ports.PositionFrame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return nil
}

func (r *frameRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// stack wires the service and both buses the way the production container
// does, minus AWS.
type stack struct {
	views      *services.ViewService
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	frames     *frameRecorder
}

func newStack(t *testing.T) *stack {
	t.Helper()

	logger := zap.NewNop()
	frames := &frameRecorder{}

	views := services.NewViewService(
		domainconfig.DefaultDomainConfig(),
		memory.NewEntityRepository(),
		memory.NewRelationshipRepository(),
		messaging.NewLoggingPublisher(logger),
		frames,
		cloudwatch.NewNoopMetrics(),
		logger,
	)

	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(bus.LoggingMiddleware(logger))

	graphHandler := pipeline.Execute(commandhandlers.NewUpdateGraphHandler(views))
	require.NoError(t, commandBus.Register(commands.UpdateGraphData{}, graphHandler))

	interactionHandler := pipeline.Execute(commandhandlers.NewInteractionHandler(views))
	require.NoError(t, commandBus.Register(commands.SelectNode{}, interactionHandler))
	require.NoError(t, commandBus.Register(commands.ClearSelection{}, interactionHandler))
	require.NoError(t, commandBus.Register(commands.PointerPress{}, interactionHandler))
	require.NoError(t, commandBus.Register(commands.PointerMove{}, interactionHandler))
	require.NoError(t, commandBus.Register(commands.PointerRelease{}, interactionHandler))
	require.NoError(t, commandBus.Register(commands.ToggleSimulation{}, interactionHandler))

	viewportHandler := pipeline.Execute(commandhandlers.NewViewportHandler(views))
	require.NoError(t, commandBus.Register(commands.ZoomIn{}, viewportHandler))
	require.NoError(t, commandBus.Register(commands.WheelZoom{}, viewportHandler))
	require.NoError(t, commandBus.Register(commands.ResizeViewport{}, viewportHandler))

	filterHandler := pipeline.Execute(commandhandlers.NewFilterHandler(views))
	require.NoError(t, commandBus.Register(commands.ToggleDomainFilter{}, filterHandler))
	require.NoError(t, commandBus.Register(commands.SetSearchQuery{}, filterHandler))

	queryBus := querybus.NewQueryBus()
	viewStateHandler := queryhandlers.NewViewStateHandler(views)
	require.NoError(t, queryBus.Register(queries.GetViewState{}, viewStateHandler))
	require.NoError(t, queryBus.Register(queries.GetFacetCounts{}, viewStateHandler))
	require.NoError(t, queryBus.Register(queries.GetSelection{}, viewStateHandler))

	return &stack{
		views:      views,
		commandBus: commandBus,
		queryBus:   queryBus,
		frames:     frames,
	}
}

func caseRecords() ([]valueobjects.EntityRecord, []valueobjects.RelationshipRecord) {
	entities := []valueobjects.EntityRecord{
		{ID: "elena", Type: "person", Name: "Elena Vasquez", Domains: []string{"legal", "financial"}},
		{ID: "frank", Type: "person", Name: "Frank Moore", Domains: []string{"financial"}},
		{ID: "oakmont", Type: "organization", Name: "Oakmont Holdings", Domains: []string{"financial"}},
	}
	relationships := []valueobjects.RelationshipRecord{
		{ID: "r1", SourceEntityID: "elena", TargetEntityID: "frank", Label: "wired funds to"},
		{ID: "r2", SourceEntityID: "frank", TargetEntityID: "oakmont", Label: "director of"},
	}
	return entities, relationships
}

func TestViewFlow(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	entities, relationships := caseRecords()
	err := s.commandBus.Send(ctx, commands.UpdateGraphData{
		CaseID:        "case-1",
		Entities:      entities,
		Relationships: relationships,
	})
	require.NoError(t, err)

	t.Run("view state reflects loaded graph", func(t *testing.T) {
		raw, err := s.queryBus.Ask(ctx, queries.GetViewState{CaseID: "case-1"})
		require.NoError(t, err)

		state, ok := raw.(*queries.ViewStateResult)
		require.True(t, ok)
		assert.Len(t, state.Nodes, 3)
		assert.Len(t, state.Edges, 2)
		assert.True(t, state.Simulation.Running)
	})

	t.Run("frames stream while the simulation runs", func(t *testing.T) {
		now := time.Now()
		for i := 0; i < 10; i++ {
			now = now.Add(16 * time.Millisecond)
			s.views.StepFrame(ctx, now)
		}
		assert.GreaterOrEqual(t, s.frames.count(), 10)
	})

	t.Run("selection via command bus", func(t *testing.T) {
		err := s.commandBus.Send(ctx, commands.SelectNode{CaseID: "case-1", NodeID: "frank"})
		require.NoError(t, err)

		raw, err := s.queryBus.Ask(ctx, queries.GetSelection{CaseID: "case-1"})
		require.NoError(t, err)

		selection, ok := raw.(*queries.SelectionResult)
		require.True(t, ok)
		assert.Equal(t, "frank", selection.SelectedNodeID)
		assert.ElementsMatch(t, []string{"elena", "frank", "oakmont"}, selection.MemberIDs)
	})

	t.Run("domain filter narrows the view but not the counts", func(t *testing.T) {
		err := s.commandBus.Send(ctx, commands.ToggleDomainFilter{CaseID: "case-1", Domain: "financial"})
		require.NoError(t, err)

		raw, err := s.queryBus.Ask(ctx, queries.GetViewState{CaseID: "case-1"})
		require.NoError(t, err)
		state := raw.(*queries.ViewStateResult)
		assert.Len(t, state.Nodes, 1, "only the legal-tagged entity should remain")

		raw, err = s.queryBus.Ask(ctx, queries.GetFacetCounts{CaseID: "case-1"})
		require.NoError(t, err)
		counts := raw.(*queries.FacetCountsResult)
		assert.Equal(t, 2, counts.Counts.ByType["person"])

		// Restore for later subtests.
		err = s.commandBus.Send(ctx, commands.ToggleDomainFilter{CaseID: "case-1", Domain: "financial"})
		require.NoError(t, err)
	})

	t.Run("drag pins the node at the pointer", func(t *testing.T) {
		require.NoError(t, s.commandBus.Send(ctx, commands.ResizeViewport{CaseID: "case-1", Width: 800, Height: 600}))
		require.NoError(t, s.commandBus.Send(ctx, commands.PointerPress{CaseID: "case-1", NodeID: "elena", X: 100, Y: 100}))
		require.NoError(t, s.commandBus.Send(ctx, commands.PointerMove{CaseID: "case-1", X: 160, Y: 140}))
		require.NoError(t, s.commandBus.Send(ctx, commands.PointerRelease{CaseID: "case-1", X: 160, Y: 140}))

		raw, err := s.queryBus.Ask(ctx, queries.GetSelection{CaseID: "case-1"})
		require.NoError(t, err)
		selection := raw.(*queries.SelectionResult)
		assert.Equal(t, "frank", selection.SelectedNodeID, "a drag must not change the selection")
	})

	t.Run("unknown case is rejected", func(t *testing.T) {
		err := s.commandBus.Send(ctx, commands.SelectNode{CaseID: "ghost", NodeID: "frank"})
		assert.Error(t, err)
	})
}

func TestFrozenSimulationFlow(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	entities, relationships := caseRecords()
	require.NoError(t, s.commandBus.Send(ctx, commands.UpdateGraphData{
		CaseID:        "case-2",
		Entities:      entities,
		Relationships: relationships,
	}))

	require.NoError(t, s.commandBus.Send(ctx, commands.ToggleSimulation{CaseID: "case-2"}))

	raw, err := s.queryBus.Ask(ctx, queries.GetViewState{CaseID: "case-2"})
	require.NoError(t, err)
	state := raw.(*queries.ViewStateResult)
	assert.False(t, state.Simulation.Running)

	before := s.frames.count()
	now := time.Now()
	for i := 0; i < 5; i++ {
		now = now.Add(16 * time.Millisecond)
		s.views.StepFrame(ctx, now)
	}
	assert.Equal(t, before, s.frames.count(), "a frozen case must not stream frames")

	// New data must not thaw a frozen view.
	require.NoError(t, s.commandBus.Send(ctx, commands.UpdateGraphData{
		CaseID:        "case-2",
		Entities:      entities,
		Relationships: relationships,
	}))

	raw, err = s.queryBus.Ask(ctx, queries.GetViewState{CaseID: "case-2"})
	require.NoError(t, err)
	state = raw.(*queries.ViewStateResult)
	assert.False(t, state.Simulation.Running)
}
