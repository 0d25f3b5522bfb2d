package processors

import (
	"encoding/json"
	"time"
)

// Webhook event types sent by the fulfillment provider.
const (
	EventProductSynced  = "product_synced"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
	EventStockUpdated   = "stock_updated"
	EventPackageShipped = "package_shipped"
)

// Event is a webhook envelope. The same JSON travels over Kafka, with
// Timestamp set when the event was received.
type Event struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// Known reports whether the processor handles events of type t.
func Known(t string) bool {
	switch t {
	case EventProductSynced, EventProductUpdated, EventProductDeleted,
		EventStockUpdated, EventPackageShipped:
		return true
	}
	return false
}

type productData struct {
	SyncProduct *struct {
		ID        int64 `json:"id"`
		IsIgnored bool  `json:"is_ignored"`
	} `json:"sync_product"`
}

type stockChange struct {
	VariantID int64 `json:"variant_id"`
	InStock   *bool `json:"in_stock"`
}

type stockData struct {
	stockChange
	Variants []stockChange `json:"variants"`
}

// changes flattens the single and list forms of a stock event.
func (d stockData) changes() []stockChange {
	var out []stockChange
	if d.VariantID != 0 {
		out = append(out, d.stockChange)
	}
	return append(out, d.Variants...)
}
