package processors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"storesync/internal/catalogsync"
	"storesync/internal/logger"
	"storesync/internal/metrics"
	"storesync/internal/models"
)

// ErrMalformedEvent is returned when an event's data does not carry the
// fields its type requires.
var ErrMalformedEvent = errors.New("malformed event")

// CatalogSyncer is the part of the sync engine that webhook events drive.
type CatalogSyncer interface {
	SyncProductByID(ctx context.Context, remoteID string, syncType models.SyncType) (*catalogsync.Result, error)
	DeactivateProduct(ctx context.Context, remoteID string) (bool, error)
	UpdateVariantStock(ctx context.Context, remoteVariantID int64, inStock bool) (bool, error)
}

type EventProcessor struct {
	syncer   CatalogSyncer
	logger   *logger.Logger
	onChange func()
}

// NewEventProcessor returns a processor. onChange, if not nil, runs after an
// event changed the local catalog.
func NewEventProcessor(syncer CatalogSyncer, logger *logger.Logger, onChange func()) *EventProcessor {
	return &EventProcessor{
		syncer:   syncer,
		logger:   logger,
		onChange: onChange,
	}
}

// Process applies one webhook event to the local catalog. Unknown types are
// ignored.
func (ep *EventProcessor) Process(ctx context.Context, event Event) error {
	ep.logger.Debug("Processing %s event", event.Type)

	var (
		changed bool
		err     error
	)
	switch event.Type {
	case EventProductSynced, EventProductUpdated:
		changed, err = ep.handleProductChange(ctx, event.Data)
	case EventProductDeleted:
		changed, err = ep.handleProductDeleted(ctx, event.Data)
	case EventStockUpdated:
		changed, err = ep.handleStockUpdated(ctx, event.Data)
	case EventPackageShipped:
		ep.logger.Info("Package shipped event received")
	default:
		ep.logger.Debug("Unhandled event type: %s", event.Type)
		metrics.WebhookEvents.WithLabelValues(event.Type, "ignored").Inc()
		return nil
	}

	if err != nil {
		metrics.WebhookEvents.WithLabelValues(event.Type, "failed").Inc()
		return fmt.Errorf("%s: %w", event.Type, err)
	}
	metrics.WebhookEvents.WithLabelValues(event.Type, "processed").Inc()

	if changed && ep.onChange != nil {
		ep.onChange()
	}
	return nil
}

func (ep *EventProcessor) handleProductChange(ctx context.Context, data json.RawMessage) (bool, error) {
	remoteID, ignored, err := decodeProduct(data)
	if err != nil {
		return false, err
	}

	if ignored {
		return ep.syncer.DeactivateProduct(ctx, remoteID)
	}

	if _, err := ep.syncer.SyncProductByID(ctx, remoteID, models.SyncTypeWebhook); err != nil {
		return false, err
	}
	return true, nil
}

func (ep *EventProcessor) handleProductDeleted(ctx context.Context, data json.RawMessage) (bool, error) {
	remoteID, _, err := decodeProduct(data)
	if err != nil {
		return false, err
	}
	return ep.syncer.DeactivateProduct(ctx, remoteID)
}

func (ep *EventProcessor) handleStockUpdated(ctx context.Context, data json.RawMessage) (bool, error) {
	var payload stockData
	if err := json.Unmarshal(data, &payload); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	changes := payload.changes()
	if len(changes) == 0 {
		return false, fmt.Errorf("%w: no variant ids", ErrMalformedEvent)
	}

	changed := false
	for _, c := range changes {
		if c.VariantID == 0 || c.InStock == nil {
			ep.logger.Warn("Skipping stock change without variant id or stock flag")
			continue
		}
		found, err := ep.syncer.UpdateVariantStock(ctx, c.VariantID, *c.InStock)
		if err != nil {
			return changed, err
		}
		changed = changed || found
	}
	return changed, nil
}

func decodeProduct(data json.RawMessage) (string, bool, error) {
	var payload productData
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if payload.SyncProduct == nil || payload.SyncProduct.ID == 0 {
		return "", false, fmt.Errorf("%w: missing sync_product.id", ErrMalformedEvent)
	}
	return strconv.FormatInt(payload.SyncProduct.ID, 10), payload.SyncProduct.IsIgnored, nil
}
