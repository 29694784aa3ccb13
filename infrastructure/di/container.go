package di

import (
	"go.uber.org/zap"

	"lists-ms/application/commands/bus"
	querybus "lists-ms/application/queries/bus"
	"lists-ms/infrastructure/config"
	"lists-ms/interfaces/http/rest"
	"lists-ms/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Stores     *Stores
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Collector  *observability.Collector
	Router     *rest.Router
}
