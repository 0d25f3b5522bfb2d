package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"storesync/internal/logger"
	"storesync/internal/metrics"
	"storesync/internal/worker/processors"

	"github.com/gin-gonic/gin"
)

// EventPublisher queues webhook events for asynchronous processing.
type EventPublisher interface {
	Publish(ctx context.Context, event processors.Event) error
}

// WebhookHandler receives fulfillment webhooks. It always acknowledges with
// 200 so the sender does not retry; failures are logged and the next sync
// reconciles the mirror.
type WebhookHandler struct {
	processor *processors.EventProcessor
	publisher EventPublisher
	logger    *logger.Logger
}

// NewWebhookHandler processes events inline, or queues them when publisher
// is not nil.
func NewWebhookHandler(processor *processors.EventProcessor, publisher EventPublisher, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("Failed to read webhook payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"message": "Webhook received but not processed"})
		return
	}

	// Empty bodies are liveness probes.
	if len(bytes.TrimSpace(payload)) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "OK"})
		return
	}

	var event processors.Event
	if err := json.Unmarshal(payload, &event); err != nil || event.Type == "" {
		h.logger.Warn("Malformed webhook payload: %v", err)
		metrics.WebhookEvents.WithLabelValues("unknown", "malformed").Inc()
		c.JSON(http.StatusOK, gin.H{"message": "Webhook received but not processed"})
		return
	}

	if !processors.Known(event.Type) {
		h.logger.Debug("Unhandled webhook type: %s", event.Type)
		metrics.WebhookEvents.WithLabelValues(event.Type, "ignored").Inc()
		c.JSON(http.StatusOK, gin.H{"message": "Webhook received but not processed"})
		return
	}

	event.Timestamp = time.Now().UTC()

	if h.publisher != nil {
		err := h.publisher.Publish(c.Request.Context(), event)
		if err == nil {
			metrics.WebhookEvents.WithLabelValues(event.Type, "queued").Inc()
			c.JSON(http.StatusOK, gin.H{"message": "Webhook queued"})
			return
		}
		h.logger.Warn("Failed to queue %s webhook, processing inline: %v", event.Type, err)
	}

	if err := h.processor.Process(c.Request.Context(), event); err != nil {
		h.logger.Error("Failed to process webhook: %v", err)
		c.JSON(http.StatusOK, gin.H{"message": "Webhook received but not processed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed successfully"})
}
