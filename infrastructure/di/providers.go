package di

import (
	"context"
	"time"

	"casegraph/application/commands"
	"casegraph/application/commands/bus"
	commandhandlers "casegraph/application/commands/handlers"
	"casegraph/application/ports"
	"casegraph/application/queries"
	querybus "casegraph/application/queries/bus"
	queryhandlers "casegraph/application/queries/handlers"
	"casegraph/application/services"
	domainconfig "casegraph/domain/config"
	"casegraph/infrastructure/config"
	"casegraph/infrastructure/messaging"
	"casegraph/infrastructure/messaging/eventbridge"
	"casegraph/infrastructure/observability/cloudwatch"
	dynamopersistence "casegraph/infrastructure/persistence/dynamodb"
	"casegraph/infrastructure/persistence/memory"
	"casegraph/infrastructure/realtime"
	"casegraph/pkg/auth"
	"casegraph/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsapigw "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// facetCountsCacheTTL bounds how stale cached facet counts may get after a
// data update, in seconds.
const facetCountsCacheTTL = 1

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err == nil {
			zapCfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	return zapCfg.Build()
}

// ProvideDomainConfig supplies the layout tuning parameters. The defaults
// match the reference force layout; deployments override nothing today.
func ProvideDomainConfig() *domainconfig.DomainConfig {
	return domainconfig.DefaultDomainConfig()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideEntityRepository selects the entity store. Development runs against
// the in-memory store so the API works without AWS credentials.
func ProvideEntityRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.EntityRepository {
	if cfg.UsesDynamoDB() {
		return dynamopersistence.NewEntityRepository(client, cfg.EntitiesTable, logger)
	}
	return memory.NewEntityRepository()
}

// ProvideRelationshipRepository selects the relationship store.
func ProvideRelationshipRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.RelationshipRepository {
	if cfg.UsesDynamoDB() {
		return dynamopersistence.NewRelationshipRepository(client, cfg.RelationsTable, logger)
	}
	return memory.NewRelationshipRepository()
}

// ProvideEventPublisher creates the domain event publisher. Outside of
// production events are logged instead of put on the bus.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.UsesDynamoDB() {
		return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
	}
	return messaging.NewLoggingPublisher(logger)
}

// ProvideConnectionStore creates the WebSocket connection registry.
func ProvideConnectionStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) realtime.ConnectionStore {
	return realtime.NewDynamoConnectionStore(client, cfg.ConnectionsTable, logger)
}

// ProvideRealtimePublisher creates the position frame publisher. Without a
// WebSocket endpoint configured, frames are dropped.
func ProvideRealtimePublisher(awsCfg aws.Config, connections realtime.ConnectionStore, cfg *config.Config, logger *zap.Logger) ports.RealtimePublisher {
	if cfg.WebSocketEndpoint == "" {
		return realtime.NewNoopPublisher()
	}
	client := awsapigw.NewFromConfig(awsCfg, func(o *awsapigw.Options) {
		o.BaseEndpoint = aws.String(cfg.WebSocketEndpoint)
	})
	return realtime.NewAPIGatewayPublisher(client, connections, logger)
}

// ProvideMetricsPublisher creates the layout metrics sink.
func ProvideMetricsPublisher(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) ports.MetricsPublisher {
	if !cfg.EnableMetrics {
		return cloudwatch.NewNoopMetrics()
	}
	return cloudwatch.NewMetricsPublisher(client, logger)
}

// ProvideDistributedRateLimiter creates the cross-instance user rate
// limiter. Without DynamoDB it fails open, which suits local development.
func ProvideDistributedRateLimiter(client *awsdynamodb.Client, cfg *config.Config) *auth.DistributedRateLimiter {
	if !cfg.UsesDynamoDB() {
		return auth.NewDistributedUserRateLimiter(nil, "", 200)
	}
	return auth.NewDistributedUserRateLimiter(client, cfg.ConnectionsTable, 200)
}

// ProvideDistributedLock creates the case lock used to serialize graph
// replacements across instances.
func ProvideDistributedLock(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamopersistence.DistributedLock {
	return dynamopersistence.NewDistributedLock(client, cfg.EntitiesTable, logger)
}

// ProvideViewService wires the single-writer view service.
func ProvideViewService(
	domainCfg *domainconfig.DomainConfig,
	entityRepo ports.EntityRepository,
	relationshipRepo ports.RelationshipRepository,
	publisher ports.EventPublisher,
	realtimePublisher ports.RealtimePublisher,
	metrics ports.MetricsPublisher,
	logger *zap.Logger,
) *services.ViewService {
	return services.NewViewService(domainCfg, entityRepo, relationshipRepo, publisher, realtimePublisher, metrics, logger)
}

// caseLockMiddleware serializes graph replacement per case across
// instances. Other commands only touch in-process view state and skip it.
func caseLockMiddleware(lock *dynamopersistence.DistributedLock, cfg *config.Config) bus.Middleware {
	return func(next bus.CommandHandler) bus.CommandHandler {
		return bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
			update, ok := cmd.(commands.UpdateGraphData)
			if !ok || !cfg.UsesDynamoDB() {
				return next.Handle(ctx, cmd)
			}

			held, err := lock.TryAcquireLock(ctx, "case-rebuild:"+update.CaseID, cfg.ServerAddress, 30*time.Second, 10*time.Second)
			if err != nil {
				return err
			}
			defer held.Release(ctx)

			return next.Handle(ctx, cmd)
		})
	}
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(views *services.ViewService, lock *dynamopersistence.DistributedLock, cfg *config.Config, logger *zap.Logger) *bus.CommandBus {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(bus.LoggingMiddleware(logger))

	graphPipeline := bus.NewPipeline(bus.LoggingMiddleware(logger), caseLockMiddleware(lock, cfg))
	graphHandler := graphPipeline.Execute(commandhandlers.NewUpdateGraphHandler(views))
	commandBus.Register(commands.UpdateGraphData{}, graphHandler)

	interactionHandler := pipeline.Execute(commandhandlers.NewInteractionHandler(views))
	commandBus.Register(commands.SelectNode{}, interactionHandler)
	commandBus.Register(commands.ClearSelection{}, interactionHandler)
	commandBus.Register(commands.PointerPress{}, interactionHandler)
	commandBus.Register(commands.PointerMove{}, interactionHandler)
	commandBus.Register(commands.PointerRelease{}, interactionHandler)
	commandBus.Register(commands.ToggleSimulation{}, interactionHandler)

	viewportHandler := pipeline.Execute(commandhandlers.NewViewportHandler(views))
	commandBus.Register(commands.ZoomIn{}, viewportHandler)
	commandBus.Register(commands.ZoomOut{}, viewportHandler)
	commandBus.Register(commands.ResetViewport{}, viewportHandler)
	commandBus.Register(commands.ZoomToNode{}, viewportHandler)
	commandBus.Register(commands.PanViewport{}, viewportHandler)
	commandBus.Register(commands.WheelZoom{}, viewportHandler)
	commandBus.Register(commands.ResizeViewport{}, viewportHandler)

	filterHandler := pipeline.Execute(commandhandlers.NewFilterHandler(views))
	commandBus.Register(commands.ToggleDomainFilter{}, filterHandler)
	commandBus.Register(commands.ToggleTypeFilter{}, filterHandler)
	commandBus.Register(commands.SetKeywordFilter{}, filterHandler)
	commandBus.Register(commands.SetSearchQuery{}, filterHandler)

	return commandBus
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(views *services.ViewService, cache ports.Cache) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	viewStateHandler := queryhandlers.NewViewStateHandler(views)
	queryBus.Register(queries.GetViewState{}, viewStateHandler)
	queryBus.Register(queries.GetSelection{}, viewStateHandler)
	queryBus.Register(queries.GetTooltip{}, viewStateHandler)

	// Facet counts only change on data updates, so a short cache absorbs
	// repeated polling without serving stale filters.
	caching := querybus.NewCachingMiddleware(cache, facetCountsCacheTTL)
	queryBus.Register(queries.GetFacetCounts{}, caching.Wrap(viewStateHandler))

	return queryBus
}

// ProvideInMemoryCache creates a simple in-memory cache
// In production, this would be Redis or similar
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}

// ProvideErrorHandler creates the HTTP error translator.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *errors.ErrorHandler {
	return errors.NewErrorHandler(logger, cfg.Environment != "production")
}
