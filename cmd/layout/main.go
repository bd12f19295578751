// Package main implements a headless layout runner. It reads a case graph
// from a JSON file, runs the force simulation to rest and writes the final
// node positions to stdout. Useful for precomputing layouts and for
// inspecting how tuning changes settle a given graph.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"casegraph/application/services"
	domainconfig "casegraph/domain/config"
	"casegraph/domain/core/valueobjects"
	"casegraph/infrastructure/messaging"
	"casegraph/infrastructure/observability/cloudwatch"
	"casegraph/infrastructure/persistence/memory"
	"casegraph/infrastructure/realtime"

	"go.uber.org/zap"
)

// graphFile is the input shape: the same payload the REST API accepts.
type graphFile struct {
	Entities      []valueobjects.EntityRecord       `json:"entities"`
	Relationships []valueobjects.RelationshipRecord `json:"relationships"`
}

// layoutOutput is the result written to stdout.
type layoutOutput struct {
	CaseID string          `json:"case_id"`
	Ticks  int             `json:"ticks"`
	Nodes  []nodePlacement `json:"nodes"`
}

type nodePlacement struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func main() {
	inputPath := flag.String("input", "", "path to the graph JSON file")
	caseID := flag.String("case", "local", "case identifier")
	maxTicks := flag.Int("max-ticks", 1000, "tick limit before giving up")
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}

	var graph graphFile
	if err := json.Unmarshal(data, &graph); err != nil {
		logger.Fatal("Failed to parse input", zap.Error(err))
	}

	views := services.NewViewService(
		domainconfig.DefaultDomainConfig(),
		memory.NewEntityRepository(),
		memory.NewRelationshipRepository(),
		messaging.NewLoggingPublisher(logger),
		realtime.NewNoopPublisher(),
		cloudwatch.NewNoopMetrics(),
		logger,
	)

	ctx := context.Background()
	if err := views.UpdateGraphData(ctx, *caseID, graph.Entities, graph.Relationships); err != nil {
		logger.Fatal("Failed to load graph", zap.Error(err))
	}

	// Step with a synthetic clock until the simulation goes idle.
	now := time.Now()
	for i := 0; i < *maxTicks; i++ {
		now = now.Add(16 * time.Millisecond)
		views.StepFrame(ctx, now)

		result, err := views.ViewState(ctx, *caseID)
		if err != nil {
			logger.Fatal("Failed to read view state", zap.Error(err))
		}
		if !result.Simulation.Running {
			break
		}
	}

	result, err := views.ViewState(ctx, *caseID)
	if err != nil {
		logger.Fatal("Failed to read view state", zap.Error(err))
	}

	out := layoutOutput{
		CaseID: *caseID,
		Ticks:  result.Simulation.Ticks,
		Nodes:  make([]nodePlacement, 0, len(result.Nodes)),
	}
	for _, node := range result.Nodes {
		out.Nodes = append(out.Nodes, nodePlacement{ID: node.ID, X: node.X, Y: node.Y})
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode output", zap.Error(err))
	}
	fmt.Println(string(encoded))
}
