package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/pkg/logger"
)

// Publisher wraps a Kafka producer and implements domain.EventPublisher
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// AlertRaised publishes an alert raised event
func (p *Publisher) AlertRaised(ctx context.Context, alert domain.ReplenishmentAlert) error {
	event := AlertRaisedEvent{
		EventID:                uuid.NewString(),
		EventType:              EventTypeAlertRaised,
		AlertID:                alert.ID,
		ProductID:              alert.ProductID,
		ShelfID:                alert.ShelfID,
		Urgency:                alert.Urgency,
		PredictedDepletionDate: alert.PredictedDepletionDate,
		Timestamp:              time.Now(),
	}

	return p.publish(ctx, TopicReplenishmentAlerts, fmt.Sprintf("alert_%d", alert.ID), event.EventType, event.EventID, event,
		attribute.Int64("alert.id", int64(alert.ID)),
		attribute.Int64("product.id", int64(alert.ProductID)),
		attribute.String("alert.urgency", alert.Urgency),
	)
}

// RequestDelivered publishes a request delivered event
func (p *Publisher) RequestDelivered(ctx context.Context, archived domain.DeliveredStockRequest) error {
	event := RequestDeliveredEvent{
		EventID:     uuid.NewString(),
		EventType:   EventTypeRequestDelivered,
		RequestID:   archived.OriginalRequestID,
		ProductID:   archived.ProductID,
		StoreID:     archived.StoreID,
		Quantity:    archived.Quantity,
		DeliveredAt: archived.DeliveredAt,
		Timestamp:   time.Now(),
	}

	return p.publish(ctx, TopicStockRequests, fmt.Sprintf("request_%d", event.RequestID), event.EventType, event.EventID, event,
		attribute.Int64("request.id", int64(event.RequestID)),
		attribute.Int64("product.id", int64(archived.ProductID)),
		attribute.Int("request.quantity", archived.Quantity),
	)
}

// RequestCancelled publishes a request cancelled event
func (p *Publisher) RequestCancelled(ctx context.Context, archived domain.CancelledStockRequest) error {
	event := RequestCancelledEvent{
		EventID:     uuid.NewString(),
		EventType:   EventTypeRequestCancelled,
		RequestID:   archived.OriginalRequestID,
		ProductID:   archived.ProductID,
		StoreID:     archived.StoreID,
		Quantity:    archived.Quantity,
		Reason:      archived.CancelReason,
		AlertID:     archived.AlertID,
		CancelledAt: archived.CancelledAt,
		Timestamp:   time.Now(),
	}

	return p.publish(ctx, TopicStockRequests, fmt.Sprintf("request_%d", event.RequestID), event.EventType, event.EventID, event,
		attribute.Int64("request.id", int64(event.RequestID)),
		attribute.Int64("product.id", int64(archived.ProductID)),
		attribute.String("request.cancel_reason", archived.CancelReason),
	)
}

// publish sends one JSON event with trace context in the Kafka headers
func (p *Publisher) publish(ctx context.Context, topic, key, eventType, eventID string, event interface{}, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	spanAttrs := append([]attribute.KeyValue{
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination", topic),
		attribute.String("messaging.destination_kind", "topic"),
		attribute.String("event.type", eventType),
		attribute.String("event.id", eventID),
	}, attrs...)

	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(spanAttrs...),
	)
	defer span.End()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(eventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Logger.Error().
			Err(err).
			Str("topic", topic).
			Str("event_type", eventType).
			Str("trace_id", span.SpanContext().TraceID().String()).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Logger.Info().
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("trace_id", span.SpanContext().TraceID().String()).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
