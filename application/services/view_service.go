package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"casegraph/application/ports"
	"casegraph/application/queries"
	"casegraph/domain/config"
	"casegraph/domain/core/aggregates"
	"casegraph/domain/core/validators"
	"casegraph/domain/core/valueobjects"
	"casegraph/domain/events"
	"casegraph/domain/filtering"
	"casegraph/domain/interaction"
	"casegraph/domain/selection"
	"casegraph/domain/simulation"
	"casegraph/domain/viewport"
	"casegraph/pkg/errors"
)

const defaultViewWidth, defaultViewHeight = 960, 720

// caseView bundles the engines owning one case's visualization. The mutex
// serializes every mutation, so force application and integration for one
// tick complete before any reader sees positions.
type caseView struct {
	mu       sync.Mutex
	graph    *aggregates.GraphView
	sim      *simulation.Simulation
	sel      *selection.Engine
	filter   *filtering.Engine
	viewport *viewport.Manager
	ctrl     *interaction.Controller
}

// ViewService is the single writer for all case views. Commands mutate
// through it, queries read through it, and the frame loop drives simulation
// ticks and streams position frames.
type ViewService struct {
	cfg              *config.DomainConfig
	logger           *zap.Logger
	validator        *validators.RecordValidator
	entityRepo       ports.EntityRepository
	relationshipRepo ports.RelationshipRepository
	publisher        ports.EventPublisher
	realtime         ports.RealtimePublisher
	metrics          ports.MetricsPublisher

	mu    sync.RWMutex
	views map[string]*caseView
}

// NewViewService creates the view service.
func NewViewService(
	cfg *config.DomainConfig,
	entityRepo ports.EntityRepository,
	relationshipRepo ports.RelationshipRepository,
	publisher ports.EventPublisher,
	realtime ports.RealtimePublisher,
	metrics ports.MetricsPublisher,
	logger *zap.Logger,
) *ViewService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewService{
		cfg:              cfg,
		logger:           logger,
		validator:        validators.NewRecordValidator(logger),
		entityRepo:       entityRepo,
		relationshipRepo: relationshipRepo,
		publisher:        publisher,
		realtime:         realtime,
		metrics:          metrics,
		views:            make(map[string]*caseView),
	}
}

// UpdateGraphData replaces a case's collections, persists them and rebuilds
// the view model. Surviving nodes keep their motion state; a frozen engine
// stays frozen.
func (s *ViewService) UpdateGraphData(ctx context.Context, caseID string, entityRecords []valueobjects.EntityRecord, relationshipRecords []valueobjects.RelationshipRecord) error {
	if len(entityRecords) > s.cfg.MaxEntities {
		return errors.NewValidationError("too many entities").
			WithDetails(map[string]interface{}{"max": s.cfg.MaxEntities, "got": len(entityRecords)})
	}
	if len(relationshipRecords) > s.cfg.MaxRelationships {
		return errors.NewValidationError("too many relationships").
			WithDetails(map[string]interface{}{"max": s.cfg.MaxRelationships, "got": len(relationshipRecords)})
	}

	entityRecords = s.validator.FilterEntities(entityRecords)
	relationshipRecords = s.validator.FilterRelationships(relationshipRecords)

	if err := s.entityRepo.ReplaceForCase(ctx, caseID, entityRecords); err != nil {
		return errors.Wrap(err, "persisting entities")
	}
	if err := s.relationshipRepo.ReplaceForCase(ctx, caseID, relationshipRecords); err != nil {
		return errors.Wrap(err, "persisting relationships")
	}

	view := s.viewFor(caseID)
	view.mu.Lock()
	view.graph.ApplyData(entityRecords, relationshipRecords)
	view.sel.Refresh()
	view.filter.Refresh()
	view.sim.OnGraphRebuilt()
	nodeCount, edgeCount := view.graph.NodeCount(), view.graph.EdgeCount()
	pending := drainEvents(view)
	view.mu.Unlock()

	s.metrics.RecordRebuild(ctx, caseID, nodeCount, edgeCount)
	s.publishEvents(ctx, pending)

	s.logger.Info("Graph data updated",
		zap.String("case_id", caseID),
		zap.Int("nodes", nodeCount),
		zap.Int("edges", edgeCount),
	)
	return nil
}

// SelectNode toggles selection of a node.
func (s *ViewService) SelectNode(ctx context.Context, caseID, nodeID string) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.sel.Select(nodeID)
		return nil
	})
}

// ClearSelection drops any active selection.
func (s *ViewService) ClearSelection(ctx context.Context, caseID string) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.sel.Clear()
		return nil
	})
}

// PointerPress starts a pointer gesture.
func (s *ViewService) PointerPress(ctx context.Context, caseID, nodeID string, x, y float64) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.ctrl.PointerDown(nodeID, valueobjects.NewVector(x, y))
		return nil
	})
}

// PointerMove continues a pointer gesture.
func (s *ViewService) PointerMove(ctx context.Context, caseID string, x, y float64) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.ctrl.PointerMove(valueobjects.NewVector(x, y), time.Now())
		return nil
	})
}

// PointerRelease ends a pointer gesture.
func (s *ViewService) PointerRelease(ctx context.Context, caseID string, x, y float64) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.ctrl.PointerUp(valueobjects.NewVector(x, y))
		return nil
	})
}

// ToggleSimulation flips the engine between running and frozen, returning
// whether it runs afterwards.
func (s *ViewService) ToggleSimulation(ctx context.Context, caseID string) (bool, error) {
	running := false
	err := s.withView(ctx, caseID, func(v *caseView) error {
		if v.sim.IsFrozen() {
			v.sim.Resume()
		} else {
			v.sim.Stop()
		}
		running = v.sim.State() == simulation.StateRunning
		return nil
	})
	return running, err
}

// ZoomIn animates one zoom step in.
func (s *ViewService) ZoomIn(ctx context.Context, caseID string) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.viewport.ZoomIn(time.Now())
		return nil
	})
}

// ZoomOut animates one zoom step out.
func (s *ViewService) ZoomOut(ctx context.Context, caseID string) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.viewport.ZoomOut(time.Now())
		return nil
	})
}

// ResetViewport animates back to the identity transform.
func (s *ViewService) ResetViewport(ctx context.Context, caseID string) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.viewport.Reset(time.Now())
		return nil
	})
}

// ZoomToNode animates the viewport onto a node.
func (s *ViewService) ZoomToNode(ctx context.Context, caseID, nodeID string) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		node, ok := v.graph.Node(nodeID)
		if !ok {
			return errors.NewNotFoundError("node")
		}
		v.viewport.ZoomToNode(node.Position(), time.Now())
		return nil
	})
}

// PanViewport applies an immediate translation.
func (s *ViewService) PanViewport(ctx context.Context, caseID string, dx, dy float64) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.viewport.Pan(dx, dy, time.Now())
		return nil
	})
}

// WheelZoom applies an immediate clamped zoom about the pointer.
func (s *ViewService) WheelZoom(ctx context.Context, caseID string, factor, x, y float64) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.viewport.Wheel(factor, valueobjects.NewVector(x, y), time.Now())
		return nil
	})
}

// ResizeViewport records new dimensions and recenters the layout.
func (s *ViewService) ResizeViewport(ctx context.Context, caseID string, width, height float64) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.viewport.Resize(width, height)
		v.graph.SetCenter(valueobjects.NewVector(width/2, height/2))
		return nil
	})
}

// ToggleDomainFilter flips one domain's inclusion.
func (s *ViewService) ToggleDomainFilter(ctx context.Context, caseID, domain string) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.filter.ToggleDomain(domain)
		return nil
	})
}

// ToggleTypeFilter flips one entity type's inclusion.
func (s *ViewService) ToggleTypeFilter(ctx context.Context, caseID, entityType string) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.filter.ToggleType(entityType)
		return nil
	})
}

// SetKeywordFilter replaces the keyword filter.
func (s *ViewService) SetKeywordFilter(ctx context.Context, caseID, keyword string) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.filter.SetKeyword(keyword)
		return nil
	})
}

// SetSearchQuery replaces the highlight query.
func (s *ViewService) SetSearchQuery(ctx context.Context, caseID, query string) error {
	return s.withView(ctx, caseID, func(v *caseView) error {
		v.filter.SetSearchQuery(query)
		return nil
	})
}

// ViewState assembles the full renderable state for a case.
func (s *ViewService) ViewState(ctx context.Context, caseID string) (*queries.ViewStateResult, error) {
	view, err := s.existingView(caseID)
	if err != nil {
		return nil, err
	}

	view.mu.Lock()
	defer view.mu.Unlock()

	visibleNodes := view.filter.VisibleNodeIDs()
	visibleEdges := view.filter.VisibleEdgeIDs()
	highlighted := view.filter.HighlightIDs()
	cluster := view.sel.Cluster()

	result := &queries.ViewStateResult{
		CaseID:         caseID,
		Generation:     view.graph.Generation(),
		Nodes:          make([]queries.NodeView, 0, len(visibleNodes)),
		Edges:          make([]queries.EdgeView, 0, len(visibleEdges)),
		Transform:      view.viewport.Transform(),
		Filter:         view.filter.State(),
		SelectedNodeID: view.sel.SelectedNodeID(),
		Simulation: queries.SimulationView{
			State:   string(view.sim.State()),
			Alpha:   view.sim.Alpha(),
			Ticks:   view.sim.Ticks(),
			Running: view.sim.State() == simulation.StateRunning,
		},
	}

	for _, node := range view.graph.Nodes() {
		if !visibleNodes[node.ID()] {
			continue
		}
		emphasis := selection.DeriveNodeEmphasis(s.cfg, cluster, highlighted, node.ID())
		source := node.Source()
		result.Nodes = append(result.Nodes, queries.NodeView{
			ID:          node.ID(),
			Name:        source.Name,
			Type:        source.Type,
			Domains:     source.DomainTags(),
			X:           node.Position().X,
			Y:           node.Position().Y,
			Radius:      node.Radius(),
			Color:       string(node.Color()),
			Degree:      source.Degree,
			Opacity:     emphasis.Opacity,
			Accent:      emphasis.Accent,
			Highlighted: emphasis.Highlighted,
			Pinned:      node.IsPinned(),
		})
	}

	for _, edge := range view.graph.Edges() {
		if !visibleEdges[edge.ID()] {
			continue
		}
		emphasis := selection.DeriveEdgeEmphasis(s.cfg, cluster, edge.ID())
		label := ""
		if rels := edge.Relationships(); len(rels) > 0 {
			label = rels[0].Label
		}
		result.Edges = append(result.Edges, queries.EdgeView{
			ID:      edge.ID(),
			Source:  edge.EndpointA(),
			Target:  edge.EndpointB(),
			Count:   edge.Count(),
			Label:   label,
			Opacity: emphasis.Opacity,
			Accent:  emphasis.Accent,
		})
	}

	return result, nil
}

// FacetCounts returns badge counts from the unfiltered collection.
func (s *ViewService) FacetCounts(ctx context.Context, caseID string) (*queries.FacetCountsResult, error) {
	view, err := s.existingView(caseID)
	if err != nil {
		return nil, err
	}

	view.mu.Lock()
	defer view.mu.Unlock()

	return &queries.FacetCountsResult{
		CaseID: caseID,
		Counts: filtering.Counts(view.graph),
	}, nil
}

// Selection returns the active cluster in wire form.
func (s *ViewService) Selection(ctx context.Context, caseID string) (*queries.SelectionResult, error) {
	view, err := s.existingView(caseID)
	if err != nil {
		return nil, err
	}

	view.mu.Lock()
	defer view.mu.Unlock()

	cluster := view.sel.Cluster()
	result := &queries.SelectionResult{
		SelectedNodeID: cluster.SelectedNodeID,
		MemberIDs:      sortedKeys(cluster.MemberIDs),
		MemberEdgeIDs:  sortedKeys(cluster.MemberEdgeIDs),
	}
	return result, nil
}

// Tooltip resolves tooltip content and placement for a node.
func (s *ViewService) Tooltip(ctx context.Context, caseID, nodeID string, pointerX, pointerY, tipWidth, tipHeight float64) (*queries.TooltipResult, error) {
	view, err := s.existingView(caseID)
	if err != nil {
		return nil, err
	}

	view.mu.Lock()
	defer view.mu.Unlock()

	node, ok := view.graph.Node(nodeID)
	if !ok {
		return nil, errors.NewNotFoundError("node")
	}

	width, height := view.viewport.Size()
	placement := interaction.PlaceTooltip(s.cfg, pointerX, pointerY, tipWidth, tipHeight, width, height)
	source := node.Source()

	return &queries.TooltipResult{
		NodeID:      node.ID(),
		Name:        source.Name,
		Type:        source.Type,
		Description: source.Description,
		Degree:      source.Degree,
		X:           placement.X,
		Y:           placement.Y,
	}, nil
}

// RunFrameLoop drives simulation ticks and viewport transitions at the
// configured frame interval until the context is cancelled. Position frames
// are streamed after every tick that moved nodes.
func (s *ViewService) RunFrameLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.stepAll(ctx, now)
		}
	}
}

// StepFrame advances every view by one frame. Exposed for schedulers that
// own their own clock.
func (s *ViewService) StepFrame(ctx context.Context, now time.Time) {
	s.stepAll(ctx, now)
}

func (s *ViewService) stepAll(ctx context.Context, now time.Time) {
	s.mu.RLock()
	views := make(map[string]*caseView, len(s.views))
	for id, v := range s.views {
		views[id] = v
	}
	s.mu.RUnlock()

	for caseID, view := range views {
		view.mu.Lock()
		view.viewport.Advance(now)

		started := time.Now()
		moved := view.sim.Tick()
		var frame ports.PositionFrame
		if moved {
			frame = buildFrame(view)
		}
		pending := drainEvents(view)
		alpha := view.sim.Alpha()
		view.mu.Unlock()

		if moved {
			s.metrics.RecordTick(ctx, caseID, alpha, float64(time.Since(started))/float64(time.Millisecond))
			if err := s.realtime.PushFrame(ctx, frame); err != nil {
				s.logger.Warn("Failed to push position frame",
					zap.String("case_id", caseID),
					zap.Error(err),
				)
			}
		}
		s.publishEvents(ctx, pending)
	}
}

func (s *ViewService) viewFor(caseID string) *caseView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if view, ok := s.views[caseID]; ok {
		return view
	}

	cfg := s.cfg
	graph := aggregates.NewGraphView(caseID, cfg, valueobjects.NewVector(defaultViewWidth/2, defaultViewHeight/2))
	sim := simulation.NewSimulation(cfg, graph)
	sel := selection.NewEngine(graph)
	filter := filtering.NewEngine(graph)
	vp := viewport.NewManager(cfg, caseID, defaultViewWidth, defaultViewHeight)

	view := &caseView{
		graph:    graph,
		sim:      sim,
		sel:      sel,
		filter:   filter,
		viewport: vp,
		ctrl:     interaction.NewController(cfg, graph, sim, sel, vp),
	}
	s.views[caseID] = view
	return view
}

func (s *ViewService) existingView(caseID string) (*caseView, error) {
	s.mu.RLock()
	view, ok := s.views[caseID]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("case view")
	}
	return view, nil
}

func (s *ViewService) withView(ctx context.Context, caseID string, fn func(*caseView) error) error {
	view, err := s.existingView(caseID)
	if err != nil {
		return err
	}

	view.mu.Lock()
	err = fn(view)
	pending := drainEvents(view)
	view.mu.Unlock()

	s.publishEvents(ctx, pending)
	return err
}

func (s *ViewService) publishEvents(ctx context.Context, pending []events.DomainEvent) {
	if len(pending) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, pending); err != nil {
		s.logger.Warn("Failed to publish domain events",
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
	}
}

// drainEvents collects uncommitted events from every engine under the view
// lock.
func drainEvents(v *caseView) []events.DomainEvent {
	var pending []events.DomainEvent
	pending = append(pending, v.graph.GetUncommittedEvents()...)
	pending = append(pending, v.sim.GetUncommittedEvents()...)
	pending = append(pending, v.sel.GetUncommittedEvents()...)
	pending = append(pending, v.viewport.GetUncommittedEvents()...)
	v.graph.MarkEventsAsCommitted()
	v.sim.MarkEventsAsCommitted()
	v.sel.MarkEventsAsCommitted()
	v.viewport.MarkEventsAsCommitted()
	return pending
}

func buildFrame(v *caseView) ports.PositionFrame {
	nodes := v.graph.Nodes()
	frame := ports.PositionFrame{
		CaseID:     v.graph.CaseID(),
		Generation: v.graph.Generation(),
		Tick:       v.sim.Ticks(),
		Alpha:      v.sim.Alpha(),
		Positions:  make([]ports.NodePosition, 0, len(nodes)),
	}
	for _, node := range nodes {
		frame.Positions = append(frame.Positions, ports.NodePosition{
			ID: node.ID(),
			X:  node.Position().X,
			Y:  node.Position().Y,
		})
	}
	return frame
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
