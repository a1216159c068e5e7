package kafka

import (
	"context"

	"github.com/warehouse-ops/operations-api/internal/domain"
	pkgkafka "github.com/warehouse-ops/operations-api/pkg/kafka"
	"github.com/warehouse-ops/operations-api/pkg/logging"
	"github.com/warehouse-ops/operations-api/pkg/metrics"
)

// EventPublisher publishes domain events to Kafka topics. Publishing is
// best-effort after persistence; a failed publish is logged and counted
// but never fails the operation that produced the event.
type EventPublisher struct {
	producer *pkgkafka.Producer
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewEventPublisher creates a new EventPublisher
func NewEventPublisher(producer *pkgkafka.Producer, m *metrics.Metrics, logger *logging.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, metrics: m, logger: logger}
}

// Publish publishes a single domain event to its topic
func (p *EventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	topic, subject := routeEvent(event)

	err := p.producer.PublishJSON(ctx, topic, subject, event.EventType(), event)
	if p.metrics != nil {
		p.metrics.RecordKafkaPublish(topic, event.EventType(), err == nil)
	}
	if err != nil {
		p.logger.WithError(err).Warn("Failed to publish event",
			"topic", topic,
			"eventType", event.EventType(),
		)
		return err
	}
	return nil
}

// PublishAll publishes multiple domain events, continuing past failures
// and returning the first error encountered.
func (p *EventPublisher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	var firstErr error
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// routeEvent maps a domain event to its topic and message key subject.
func routeEvent(event domain.DomainEvent) (topic, subject string) {
	switch e := event.(type) {
	case *domain.StorageOrderSubmittedEvent:
		return pkgkafka.Topics.OrderEvents, "order/" + e.OrderID
	case *domain.ReplenishmentStatusChangedEvent:
		return pkgkafka.Topics.OrderEvents, "ro/" + e.ROID
	case *domain.ItemPickedEvent:
		return pkgkafka.Topics.OrderEvents, "ro/" + e.ROID
	case *domain.PurchaseOrderStatusChangedEvent:
		return pkgkafka.Topics.PurchaseOrders, "po/" + e.PONumber
	case *domain.InventoryAdjustedEvent:
		return pkgkafka.Topics.InventoryEvents, "adjustment/" + e.OperationID
	default:
		return pkgkafka.Topics.OrderEvents, event.EventType()
	}
}
