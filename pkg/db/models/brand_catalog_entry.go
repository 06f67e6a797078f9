package models

import (
	"time"

	"github.com/google/uuid"
)

// BrandCatalogEntry maps a handset model string to its brand. Maintained by
// the catalog workflow; the reconciler only reads it for brand resolution.
type BrandCatalogEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Model     string    `gorm:"column:model;not null;uniqueIndex:ux_brand_catalog_model"`
	Brand     string    `gorm:"column:brand;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
