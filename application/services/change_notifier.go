package services

import (
	"context"

	"go.uber.org/zap"

	"lists-ms/application/ports"
	"lists-ms/domain/events"
	"lists-ms/pkg/observability"
)

// ChangeNotifier announces completed mutations. Publishing is best effort:
// the store write has already happened, so a failed publish is logged and
// swallowed.
type ChangeNotifier struct {
	publisher ports.EventPublisher
	collector *observability.Collector
	logger    *zap.Logger
}

// NewChangeNotifier creates a notifier. A nil publisher drops events and a
// nil collector skips the counters.
func NewChangeNotifier(publisher ports.EventPublisher, collector *observability.Collector, logger *zap.Logger) *ChangeNotifier {
	if publisher == nil {
		publisher = ports.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeNotifier{
		publisher: publisher,
		collector: collector,
		logger:    logger,
	}
}

// Notify records and publishes event
func (n *ChangeNotifier) Notify(ctx context.Context, event events.DomainEvent) {
	n.collector.RecordEvent(event.GetEventType())

	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn("Failed to publish change event",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}
