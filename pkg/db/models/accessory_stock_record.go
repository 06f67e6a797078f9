package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AccessoryStockRecord aggregates accessory units for one dealer+product.
// BaseCode is the stable dealer-category-model prefix; every received unit
// appends one sequenced code under that prefix. Legacy rows may carry fewer
// codes than Quantity, so len(ProductIDs) == Quantity is not an invariant.
type AccessoryStockRecord struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealerID      uuid.UUID      `gorm:"column:dealer_id;type:uuid;not null;uniqueIndex:ux_accessory_stock_dealer_base"`
	BaseCode      string         `gorm:"column:base_code;not null;uniqueIndex:ux_accessory_stock_dealer_base"`
	ProductName   string         `gorm:"column:product_name;not null"`
	Brand         *string        `gorm:"column:brand"`
	CategoryLabel string         `gorm:"column:category_label;not null;default:'accessory'"`
	Quantity      int            `gorm:"column:quantity;not null;default:0"`
	ProductIDs    pq.StringArray `gorm:"column:product_ids;type:text[]"`

	PurchasePriceCents int `gorm:"column:purchase_price_cents;not null;default:0"`
	SellingPriceCents  int `gorm:"column:selling_price_cents;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
