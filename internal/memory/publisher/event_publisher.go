package publisher

import (
	"context"
	"encoding/json"
	"time"

	"Mnemo/internal/models"
	"Mnemo/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// EventPublisher emits the engine's outbound notifications to Kafka,
// wrapped in the shared event envelope. It also implements the service
// Observer so stored-item callbacks flow straight onto the bus.
type EventPublisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

// NewEventPublisher creates an EventPublisher over an existing writer.
func NewEventPublisher(writer *kafka.Writer, logger *logger.Logger) *EventPublisher {
	return &EventPublisher{
		writer: writer,
		logger: logger,
	}
}

// Publish sends one enveloped notification to the outbound topic.
func (p *EventPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		p.logger.WithError(err).Error("failed to marshal event payload")
		return err
	}
	msgBytes, err := json.Marshal(models.EventEnvelope{
		Type:    eventType,
		Payload: rawPayload,
	})
	if err != nil {
		p.logger.WithError(err).Error("failed to marshal event envelope")
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventType),
		Value: msgBytes,
	})
	if err != nil {
		p.logger.WithError(err).WithPayload(map[string]interface{}{"event": eventType}).Error("failed to write event to Kafka")
		return err
	}
	return nil
}

// --- service.Observer ---

func (p *EventPublisher) FactStored(fact models.Fact) {
	p.Publish(context.Background(), models.EventFactStored, fact)
}

func (p *EventPublisher) PreferenceStored(pref models.Preference) {
	p.Publish(context.Background(), models.EventPreferenceStored, pref)
}

func (p *EventPublisher) RelationshipStored(rel models.Relationship) {
	p.Publish(context.Background(), models.EventRelationshipStored, rel)
}

func (p *EventPublisher) MemoryConsolidated(timestamp time.Time) {
	p.Publish(context.Background(), models.EventConsolidated, map[string]interface{}{
		"timestamp": timestamp,
	})
}
