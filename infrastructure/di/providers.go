package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"

	"lists-ms/application/commands/bus"
	commandhandlers "lists-ms/application/commands/handlers"
	"lists-ms/application/ports"
	querybus "lists-ms/application/queries/bus"
	queryhandlers "lists-ms/application/queries/handlers"
	"lists-ms/domain/lists"
	"lists-ms/infrastructure/config"
	"lists-ms/infrastructure/messaging/eventbridge"
	"lists-ms/infrastructure/persistence/dynamodb"
	"lists-ms/infrastructure/persistence/memory"
	"lists-ms/interfaces/http/rest"
	"lists-ms/interfaces/http/rest/handlers"
	"lists-ms/interfaces/http/rest/middleware"
	"lists-ms/pkg/auth"
	pkgerrors "lists-ms/pkg/errors"
	"lists-ms/pkg/observability"
	"lists-ms/pkg/utils"
)

const (
	serviceName      = "lists-ms"
	metricsNamespace = "ListsService"
	promNamespace    = "lists"
)

// Stores groups the repositories selected by STORE_DRIVER
type Stores struct {
	Lists  ports.ListRepository
	Tasks  ports.TaskRepository
	Health []ports.HealthChecker
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName)), nil
}

// ProvideAWSConfig creates AWS configuration. SDK calls are traced as X-Ray
// subsegments when tracing is enabled.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client, honouring
// DYNAMODB_ENDPOINT for local emulators
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideTables maps the configured table and index names
func ProvideTables(cfg *config.Config) dynamodb.Tables {
	return dynamodb.Tables{
		Lists:          cfg.ListsTable,
		Tasks:          cfg.TasksTable,
		ListsUserIndex: cfg.ListsUserIndex,
		TasksListIndex: cfg.TasksListIndex,
	}
}

// ProvideStores selects the repositories for the configured store driver
func ProvideStores(
	cfg *config.Config,
	client *awsdynamodb.Client,
	tables dynamodb.Tables,
	collector *observability.Collector,
	logger *zap.Logger,
) *Stores {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		listRepo := memory.NewListRepository()
		return &Stores{
			Lists:  listRepo,
			Tasks:  memory.NewTaskRepository(),
			Health: []ports.HealthChecker{listRepo},
		}
	}

	listRepo := dynamodb.NewListRepository(client, tables, collector, logger)
	taskRepo := dynamodb.NewTaskRepository(client, tables, collector, logger)
	return &Stores{
		Lists:  listRepo,
		Tasks:  taskRepo,
		Health: []ports.HealthChecker{listRepo, taskRepo},
	}
}

// ProvideEventPublisher publishes to EventBridge when EVENT_BUS_NAME is set
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return ports.NoopPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the CloudWatch recorder. It is a no-op unless
// ENABLE_METRICS is set.
func ProvideMetrics(cfg *config.Config, client *awscloudwatch.Client, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return observability.NewMetrics(metricsNamespace, nil, logger)
	}
	return observability.NewMetrics(metricsNamespace, client, logger)
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector(promNamespace)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideClock returns the wall clock
func ProvideClock() utils.Clock {
	return utils.SystemClock{}
}

// ProvideCommandBus creates the command bus and registers every handler
func ProvideCommandBus(
	logger *zap.Logger,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	saveList *commandhandlers.SaveListHandler,
	deleteList *commandhandlers.DeleteListHandler,
	saveTask *commandhandlers.SaveTaskHandler,
	deleteTask *commandhandlers.DeleteTaskHandler,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
		bus.TracingMiddleware(tracer),
	)
	if err := commandhandlers.Register(commandBus, saveList, deleteList, saveTask, deleteTask); err != nil {
		return nil, fmt.Errorf("failed to register command handlers: %w", err)
	}
	return commandBus, nil
}

// ProvideAttachmentPolicy parses TASK_ATTACHMENT
func ProvideAttachmentPolicy(cfg *config.Config) (lists.AttachmentPolicy, error) {
	return lists.ParseAttachmentPolicy(cfg.TaskAttachment)
}

// ProvideReadAllListsHandler creates the read-all query handler
func ProvideReadAllListsHandler(
	listRepo ports.ListRepository,
	taskRepo ports.TaskRepository,
	policy lists.AttachmentPolicy,
	cfg *config.Config,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *queryhandlers.ReadAllListsHandler {
	return queryhandlers.NewReadAllListsHandler(listRepo, taskRepo, policy, cfg.PageSize, tracer, logger)
}

// ProvideQueryBus creates the query bus and registers every handler
func ProvideQueryBus(
	logger *zap.Logger,
	metrics *observability.Metrics,
	readAll *queryhandlers.ReadAllListsHandler,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.LoggingMiddleware(logger),
		querybus.MetricsMiddleware(metrics),
	)
	if err := queryhandlers.Register(queryBus, readAll); err != nil {
		return nil, fmt.Errorf("failed to register query handlers: %w", err)
	}
	return queryBus, nil
}

// ProvideJWTValidator creates the bearer token validator. It returns nil
// when JWT_SECRET is unset, in which case bearer tokens are rejected.
func ProvideJWTValidator(cfg *config.Config, logger *zap.Logger) (*auth.JWTValidator, error) {
	if cfg.JWTSecret == "" {
		if !cfg.TrustGatewayHeaders {
			logger.Warn("JWT_SECRET is not set and gateway headers are not trusted; every API request will be rejected")
		}
		return nil, nil
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
	})
}

// ProvideErrorHandler creates the HTTP error handler
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.DebugErrors, lists.Sentinels()...)
}

// ProvideAuthenticator creates the request authenticator
func ProvideAuthenticator(
	validator *auth.JWTValidator,
	cfg *config.Config,
	errHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *middleware.Authenticator {
	return middleware.NewAuthenticator(validator, cfg.TrustGatewayHeaders, errHandler, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	listHandler *handlers.ListHandler,
	taskHandler *handlers.TaskHandler,
	authenticator *middleware.Authenticator,
	errHandler *pkgerrors.ErrorHandler,
	collector *observability.Collector,
	tracer *observability.Tracer,
	stores *Stores,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(
		listHandler,
		taskHandler,
		authenticator,
		errHandler,
		collector,
		tracer,
		stores.Health,
		rest.Options{
			EnableCORS:    cfg.EnableCORS,
			CORSOrigins:   cfg.CORSOrigins,
			EnableMetrics: cfg.EnableMetrics,
		},
		logger,
	)
}
