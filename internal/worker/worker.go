package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storesync/internal/config"
	"storesync/internal/logger"
	"storesync/internal/worker/processors"

	"github.com/segmentio/kafka-go"
)

const GroupID = "storesync-worker"

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Worker consumes webhook events from Kafka and applies them through an
// EventProcessor.
type Worker struct {
	logger    *logger.Logger
	reader    messageReader
	processor *processors.EventProcessor
}

func New(cfg *config.Config, logger *logger.Logger, processor *processors.EventProcessor) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        GroupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		logger:    logger,
		reader:    reader,
		processor: processor,
	}
}

// Start reads messages until ctx is cancelled. Messages that fail to parse or
// process are logged and skipped.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started, listening for events...")

	for {
		message, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				w.logger.Info("Worker stopped")
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		if err := w.handle(ctx, message); err != nil {
			w.logger.Error("Failed to process event at offset %d: %v", message.Offset, err)
			continue
		}

		w.logger.Debug("Event processed successfully")
	}
}

func (w *Worker) handle(ctx context.Context, message kafka.Message) error {
	w.logger.Debug("Received message: %s", string(message.Value))

	var event processors.Event
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to parse event: %w", err)
	}
	return w.processor.Process(ctx, event)
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	if err := w.reader.Close(); err != nil {
		w.logger.Error("Failed to close reader: %v", err)
	}
}
