package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sahilmehta/cellstock-backend/pkg/enums"
)

// PurchaseOrder is a supplier order. Created pending by the ordering workflow
// and flipped to received exactly once by the receive operation.
type PurchaseOrder struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealerID     uuid.UUID            `gorm:"column:dealer_id;type:uuid;not null"`
	OrderedOn    time.Time            `gorm:"column:ordered_on;not null"`
	PaymentTerms *string              `gorm:"column:payment_terms"`
	GSTApplied   bool                 `gorm:"column:gst_applied;not null;default:false"`
	GSTPercent   *float64             `gorm:"column:gst_percent;type:numeric(5,2)"`
	Status       enums.PurchaseStatus `gorm:"column:status;not null;default:'pending'"`
	ReceivedAt   *time.Time           `gorm:"column:received_at"`
	LineItems    []PurchaseLineItem   `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// PurchaseLineItem is one product entry on a purchase order. Immutable after
// creation; position preserves the order line items are reconciled in.
type PurchaseLineItem struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseOrderID    uuid.UUID          `gorm:"column:purchase_order_id;type:uuid;not null"`
	Position           int                `gorm:"column:position;not null;default:0"`
	Category           enums.ItemCategory `gorm:"column:category;not null"`
	ProductName        string             `gorm:"column:product_name;not null"`
	Model              *string            `gorm:"column:model"`
	Brand              *string            `gorm:"column:brand"`
	Color              *string            `gorm:"column:color"`
	RAM                *string            `gorm:"column:ram"`
	Storage            *string            `gorm:"column:storage"`
	SIMSlot            *string            `gorm:"column:sim_slot"`
	Processor          *string            `gorm:"column:processor"`
	Display            *string            `gorm:"column:display"`
	Camera             *string            `gorm:"column:camera"`
	Battery            *string            `gorm:"column:battery"`
	OS                 *string            `gorm:"column:os"`
	Network            *string            `gorm:"column:network"`
	PurchasePriceCents int                `gorm:"column:purchase_price_cents;not null;default:0"`
	SellingPriceCents  int                `gorm:"column:selling_price_cents;not null;default:0"`
	Qty                int                `gorm:"column:qty;not null;default:0"`
	IMEIs              pq.StringArray     `gorm:"column:imeis;type:text[]"`
	SuppliedCode       *string            `gorm:"column:supplied_code"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
}
