//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	commandhandlers "lists-ms/application/commands/handlers"
	"lists-ms/application/services"
	"lists-ms/infrastructure/config"
	"lists-ms/interfaces/http/rest/handlers"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideTables,
	ProvideCollector,
	ProvideStores,
	wire.FieldsOf(new(*Stores), "Lists", "Tasks"),
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	ProvideClock,
	services.NewChangeNotifier,
	commandhandlers.NewSaveListHandler,
	commandhandlers.NewDeleteListHandler,
	commandhandlers.NewSaveTaskHandler,
	commandhandlers.NewDeleteTaskHandler,
	ProvideCommandBus,
	ProvideAttachmentPolicy,
	ProvideReadAllListsHandler,
	ProvideQueryBus,
	ProvideJWTValidator,
	ProvideErrorHandler,
	ProvideAuthenticator,
	handlers.NewListHandler,
	handlers.NewTaskHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
