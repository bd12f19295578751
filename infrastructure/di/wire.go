//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"casegraph/application/commands/bus"
	"casegraph/application/ports"
	querybus "casegraph/application/queries/bus"
	"casegraph/application/services"
	domainconfig "casegraph/domain/config"
	"casegraph/infrastructure/config"
	"casegraph/infrastructure/realtime"
	"casegraph/pkg/auth"
	"casegraph/pkg/errors"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	DomainConfig     *domainconfig.DomainConfig
	Logger           *zap.Logger
	EntityRepo       ports.EntityRepository
	RelationshipRepo ports.RelationshipRepository
	EventPublisher   ports.EventPublisher
	Realtime         ports.RealtimePublisher
	Metrics          ports.MetricsPublisher
	Connections      realtime.ConnectionStore
	Views            *services.ViewService
	CommandBus       *bus.CommandBus
	QueryBus         *querybus.QueryBus
	Cache            ports.Cache
	RateLimiter      *auth.DistributedRateLimiter
	ErrorHandler     *errors.ErrorHandler
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideEntityRepository,
	ProvideRelationshipRepository,
	ProvideEventPublisher,
	ProvideConnectionStore,
	ProvideRealtimePublisher,
	ProvideMetricsPublisher,
	ProvideDistributedRateLimiter,
	ProvideDistributedLock,
	ProvideViewService,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideInMemoryCache,
	ProvideErrorHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
