package payloads

import (
	"time"

	"github.com/google/uuid"
)

// ReceivedStockLine summarizes one reconciled line item inside a receive event.
type ReceivedStockLine struct {
	RecordID   uuid.UUID `json:"record_id"`
	Category   string    `json:"category"`
	Product    string    `json:"product"`
	Quantity   int       `json:"quantity"`
	CodesAdded []string  `json:"codes_added,omitempty"`
}

// PurchaseReceivedEvent is emitted after a purchase order flips to received
// and its line items have been reconciled into stock.
type PurchaseReceivedEvent struct {
	PurchaseID      uuid.UUID           `json:"purchase_id"`
	DealerID        uuid.UUID           `json:"dealer_id"`
	AlreadyReceived bool                `json:"already_received"`
	ReceivedAt      time.Time           `json:"received_at"`
	MobileLines     []ReceivedStockLine `json:"mobile_lines,omitempty"`
	AccessoryLines  []ReceivedStockLine `json:"accessory_lines,omitempty"`
	SkippedLines    int                 `json:"skipped_lines,omitempty"`
}

// StockUpdatedEvent reports a quantity change on a single stock record.
type StockUpdatedEvent struct {
	RecordID uuid.UUID `json:"record_id"`
	DealerID uuid.UUID `json:"dealer_id"`
	Kind     string    `json:"kind"`
	Quantity int       `json:"quantity"`
}
