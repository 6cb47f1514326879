package consumer

import (
	"context"
	"encoding/json"

	"Mnemo/internal/database/kafka"
	"Mnemo/internal/memory/publisher"
	"Mnemo/internal/memory/service"
	"Mnemo/internal/models"
	"Mnemo/pkg/logger"
)

// KafkaConsumer consumes inbound notifications from the bus and drives
// the MemoryService with them. Query-shaped notifications get their
// responses published back through the EventPublisher.
type KafkaConsumer struct {
	kafkaClient   *kafka.KafkaClient
	memoryService *service.MemoryService
	publisher     *publisher.EventPublisher
	logger        *logger.Logger
}

// NewKafkaConsumer creates a new KafkaConsumer.
func NewKafkaConsumer(kafkaClient *kafka.KafkaClient, memoryService *service.MemoryService, publisher *publisher.EventPublisher, logger *logger.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		kafkaClient:   kafkaClient,
		memoryService: memoryService,
		publisher:     publisher,
		logger:        logger,
	}
}

// Start starts the consume loop. It returns when ctx is cancelled.
func (c *KafkaConsumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.kafkaClient.Reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.WithError(err).Error("failed to fetch message")
				continue
			}

			var envelope models.EventEnvelope
			if err := json.Unmarshal(msg.Value, &envelope); err != nil {
				c.logger.WithError(err).Error("failed to unmarshal event envelope")
				continue
			}

			c.handle(ctx, envelope)

			if err := c.kafkaClient.Reader.CommitMessages(ctx, msg); err != nil {
				c.logger.WithError(err).Error("failed to commit message")
			}
		}
	}()
}

func (c *KafkaConsumer) handle(ctx context.Context, envelope models.EventEnvelope) {
	switch envelope.Type {
	case models.EventConversationMessage:
		var ev models.ConversationMessageEvent
		if err := json.Unmarshal(envelope.Payload, &ev); err != nil {
			c.logger.WithError(err).Error("malformed conversation-message payload")
			return
		}
		if _, err := c.memoryService.ProcessMessage(ctx, ev.Message, ev.IsUser, ev.Timestamp); err != nil {
			c.logger.WithError(err).Error("failed to process conversation message")
		}

	case models.EventStoreFact:
		var ev models.StoreFactEvent
		if err := json.Unmarshal(envelope.Payload, &ev); err != nil {
			c.logger.WithError(err).Error("malformed store-fact payload")
			return
		}
		if _, err := c.memoryService.StoreFact(ctx, ev.Key, ev.Value, ev.Importance, ev.Category); err != nil {
			c.logger.WithError(err).Error("failed to store fact")
		}

	case models.EventUpdatePreference:
		var ev models.UpdatePreferenceEvent
		if err := json.Unmarshal(envelope.Payload, &ev); err != nil {
			c.logger.WithError(err).Error("malformed update-preference payload")
			return
		}
		if _, err := c.memoryService.UpdatePreference(ctx, ev.Key, ev.Value, ev.Category, ev.Importance); err != nil {
			c.logger.WithError(err).Error("failed to update preference")
		}

	case models.EventRequestVisualization:
		var ev models.VisualizationRequest
		if err := json.Unmarshal(envelope.Payload, &ev); err != nil {
			c.logger.WithError(err).Error("malformed visualization request payload")
			return
		}
		data, err := c.memoryService.VisualizationData(ctx, ev.Type, ev.Filter)
		if err != nil {
			c.publisher.Publish(ctx, models.EventVisualizationData, map[string]interface{}{
				"type":  ev.Type,
				"error": err.Error(),
			})
			return
		}
		c.publisher.Publish(ctx, models.EventVisualizationData, map[string]interface{}{
			"type": ev.Type,
			"data": data,
		})

	case models.EventRequestExport:
		doc, err := c.memoryService.Export(ctx)
		if err != nil {
			c.publisher.Publish(ctx, models.EventExportData, map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		c.publisher.Publish(ctx, models.EventExportData, map[string]interface{}{
			"data":     doc,
			"metadata": doc.Metadata,
		})

	case models.EventRequestImport:
		var ev models.ImportRequest
		if err := json.Unmarshal(envelope.Payload, &ev); err != nil {
			c.logger.WithError(err).Error("malformed import request payload")
			c.publisher.Publish(ctx, models.EventImportCompleted, map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		if err := c.memoryService.Import(ctx, ev.MemoryData); err != nil {
			c.publisher.Publish(ctx, models.EventImportCompleted, map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		c.publisher.Publish(ctx, models.EventImportCompleted, map[string]interface{}{
			"success":  true,
			"metadata": ev.MemoryData.Metadata,
		})

	default:
		c.logger.WithPayload(map[string]interface{}{"type": envelope.Type}).Warn("unknown inbound event type")
	}
}
