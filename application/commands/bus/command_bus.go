package bus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"lists-ms/pkg/common"
	pkgerrors "lists-ms/pkg/errors"
	"lists-ms/pkg/observability"
)

// Command represents a command that changes state
type Command interface {
	Validate() error
}

// CommandHandler handles a specific command type
type CommandHandler interface {
	Handle(ctx context.Context, cmd Command) error
}

// CommandBus dispatches commands to their handlers
type CommandBus struct {
	handlers    map[reflect.Type]CommandHandler
	middlewares []Middleware
	mu          sync.RWMutex
}

// NewCommandBus creates a new command bus
func NewCommandBus(middlewares ...Middleware) *CommandBus {
	return &CommandBus{
		handlers:    make(map[reflect.Type]CommandHandler),
		middlewares: middlewares,
	}
}

// Register registers a handler for a command type. Middleware passed to
// NewCommandBus wraps the handler at registration time.
func (b *CommandBus) Register(cmdType Command, handler CommandHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf(cmdType)
	if _, exists := b.handlers[t]; exists {
		return fmt.Errorf("handler already registered for command type %s", t.Name())
	}

	b.handlers[t] = NewPipeline(b.middlewares...).Execute(handler)
	return nil
}

// Send dispatches a command to its handler
func (b *CommandBus) Send(ctx context.Context, cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("command validation failed: %w", err)
	}

	b.mu.RLock()
	handler, exists := b.handlers[reflect.TypeOf(cmd)]
	b.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %T", ErrHandlerNotFound, cmd)
	}

	if err := handler.Handle(ctx, cmd); err != nil {
		return fmt.Errorf("command handler failed: %w", err)
	}

	return nil
}

// Middleware defines command middleware
type Middleware func(next CommandHandler) CommandHandler

// CommandHandlerFunc is an adapter to allow functions to be used as handlers
type CommandHandlerFunc func(ctx context.Context, cmd Command) error

// Handle implements CommandHandler
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// HandlerFor adapts a typed handler function to CommandHandler
func HandlerFor[C Command](fn func(ctx context.Context, cmd C) error) CommandHandler {
	return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		typed, ok := cmd.(C)
		if !ok {
			return fmt.Errorf("%w: got %T", ErrUnexpectedCommand, cmd)
		}
		return fn(ctx, typed)
	})
}

// CommandName returns the unqualified type name of a command
func CommandName(cmd Command) string {
	t := reflect.TypeOf(cmd)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// LoggingMiddleware logs command execution
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			start := time.Now()
			fields := []zap.Field{zap.String("type", CommandName(cmd))}
			if userID, ok := common.GetUserID(ctx); ok {
				fields = append(fields, zap.String("userID", userID))
			}

			err := next.Handle(ctx, cmd)
			fields = append(fields, zap.Duration("duration", time.Since(start)))
			if err != nil {
				logger.Warn("Command failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("Command succeeded", fields...)
			}

			return err
		})
	}
}

// MetricsMiddleware reports execution time and outcome to CloudWatch
func MetricsMiddleware(metrics *observability.Metrics) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			start := time.Now()
			err := next.Handle(ctx, cmd)
			metrics.RecordCommandExecution(ctx, CommandName(cmd), time.Since(start), err)
			if err != nil {
				metrics.RecordError(ctx, errorType(err), CommandName(cmd))
			}
			return err
		})
	}
}

// TracingMiddleware runs each command inside an X-Ray subsegment
func TracingMiddleware(tracer *observability.Tracer) Middleware {
	return func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			return tracer.TraceFunction(ctx, CommandName(cmd), func(ctx context.Context) error {
				tracer.AddAnnotation(ctx, "command", CommandName(cmd))
				err := next.Handle(ctx, cmd)
				tracer.RecordError(ctx, err)
				return err
			})
		})
	}
}

func errorType(err error) string {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		return string(appErr.Type)
	}
	return "UNKNOWN"
}

// Pipeline chains multiple middleware together
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline creates a new middleware pipeline
func NewPipeline(middlewares ...Middleware) *Pipeline {
	return &Pipeline{
		middlewares: middlewares,
	}
}

// Execute wraps handler so the first middleware runs outermost
func (p *Pipeline) Execute(handler CommandHandler) CommandHandler {
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		handler = p.middlewares[i](handler)
	}
	return handler
}

// Errors
var (
	ErrHandlerNotFound   = errors.New("command handler not found")
	ErrUnexpectedCommand = errors.New("unexpected command type")
)
