package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MobileStockRecord tracks stocked handsets for one dealer+model profile.
//
// A record either identifies physical units by IMEI (IMEI1, optionally IMEI2
// for dual-SIM pairs) or aggregates anonymous units by count. When both IMEIs
// are set the record is a singleton: TotalQuantity is 1 and later receipts
// never merge into it. Anonymous records accumulate quantity and codes across
// receipts for the same dealer+product+model.
type MobileStockRecord struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DealerID    uuid.UUID `gorm:"column:dealer_id;type:uuid;not null;index"`
	ProductName string    `gorm:"column:product_name;not null"`
	Model       *string   `gorm:"column:model"`
	Brand       *string   `gorm:"column:brand"`

	Color     *string `gorm:"column:color"`
	RAM       *string `gorm:"column:ram"`
	Storage   *string `gorm:"column:storage"`
	SIMSlot   *string `gorm:"column:sim_slot"`
	Processor *string `gorm:"column:processor"`
	Display   *string `gorm:"column:display"`
	Camera    *string `gorm:"column:camera"`
	Battery   *string `gorm:"column:battery"`
	OS        *string `gorm:"column:os"`
	Network   *string `gorm:"column:network"`

	PurchasePriceCents int `gorm:"column:purchase_price_cents;not null;default:0"`
	SellingPriceCents  int `gorm:"column:selling_price_cents;not null;default:0"`

	TotalQuantity int            `gorm:"column:total_quantity;not null;default:0"`
	ProductIDs    pq.StringArray `gorm:"column:product_ids;type:text[]"`
	IMEI1         *string        `gorm:"column:imei1;uniqueIndex:ux_mobile_stock_imei1"`
	IMEI2         *string        `gorm:"column:imei2;uniqueIndex:ux_mobile_stock_imei2"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsIMEIPair reports whether the record holds a dual-IMEI device.
func (m MobileStockRecord) IsIMEIPair() bool {
	return m.IMEI1 != nil && *m.IMEI1 != "" && m.IMEI2 != nil && *m.IMEI2 != ""
}

// IsAnonymous reports whether the record aggregates units without IMEIs.
func (m MobileStockRecord) IsAnonymous() bool {
	return (m.IMEI1 == nil || *m.IMEI1 == "") && (m.IMEI2 == nil || *m.IMEI2 == "")
}
