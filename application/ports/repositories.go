package ports

import (
	"context"

	"lists-ms/domain/events"
	"lists-ms/domain/lists"
)

// ListRepository defines the interface for list persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type ListRepository interface {
	// Save upserts a list record wholesale. Omitted fields are cleared.
	Save(ctx context.Context, list *lists.List) error

	// GetByID retrieves a list by its ID, returning lists.ErrListNotFound
	// when no record exists
	GetByID(ctx context.Context, id string) (*lists.List, error)

	// Delete removes a list. Deleting a missing list is not an error.
	Delete(ctx context.Context, id string) error

	// QueryByUser returns one page of the user's lists through the owner
	// index, starting after startToken when it is non-empty
	QueryByUser(ctx context.Context, userID string, limit int, startToken string) (ListPage, error)
}

// ListPage is one page of an owner query
type ListPage struct {
	Lists []*lists.List
	// NextToken is empty when the store reported no further results
	NextToken string
}

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	// Save upserts a task record wholesale
	Save(ctx context.Context, task *lists.Task) error

	// Delete removes a task. Deleting a missing task is not an error.
	Delete(ctx context.Context, id string) error

	// QueryByList returns every task pointing at listID
	QueryByList(ctx context.Context, listID string) ([]*lists.Task, error)
}

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// NoopPublisher drops every event. It is used when no event bus is
// configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, events.DomainEvent) error          { return nil }
func (NoopPublisher) PublishBatch(context.Context, []events.DomainEvent) error { return nil }
