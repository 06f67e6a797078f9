package inventory

import (
	"strings"

	"github.com/google/uuid"

	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
)

// MobileLine is the reconciler input for one mobile line item. Dealer name
// and brand arrive already resolved by the orchestrator.
type MobileLine struct {
	DealerID   uuid.UUID
	DealerName string
	Brand      string
	Item       models.PurchaseLineItem
}

// AccessoryLine is the reconciler input for one accessory line item.
type AccessoryLine struct {
	DealerID   uuid.UUID
	DealerName string
	Brand      string
	Item       models.PurchaseLineItem
}

// ReconciledRecord summarizes one created or merged stock record.
type ReconciledRecord struct {
	RecordID uuid.UUID
	Created  bool
	Quantity int
	Codes    []string
}

// ResolveBrand applies the brand resolution chain: explicit line-item brand,
// then the catalog entry for the model, then the first whitespace-delimited
// token of the product name.
func ResolveBrand(itemBrand *string, catalogBrand, productName string) string {
	if itemBrand != nil {
		if b := strings.TrimSpace(*itemBrand); b != "" {
			return b
		}
	}
	if b := strings.TrimSpace(catalogBrand); b != "" {
		return b
	}
	fields := strings.Fields(productName)
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// DedupeIMEIs removes duplicates order-preserving, keeping first occurrence.
// Blank entries are dropped.
func DedupeIMEIs(imeis []string) []string {
	if len(imeis) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(imeis))
	out := make([]string, 0, len(imeis))
	for _, imei := range imeis {
		imei = strings.TrimSpace(imei)
		if imei == "" || seen[imei] {
			continue
		}
		seen[imei] = true
		out = append(out, imei)
	}
	return out
}

// MobileStockResponse is the wire shape for a mobile stock record.
type MobileStockResponse struct {
	ID            uuid.UUID `json:"id"`
	DealerID      uuid.UUID `json:"dealer_id"`
	ProductName   string    `json:"product_name"`
	Model         *string   `json:"model,omitempty"`
	Brand         *string   `json:"brand,omitempty"`
	TotalQuantity int       `json:"total_quantity"`
	ProductIDs    []string  `json:"product_ids,omitempty"`
	IMEI1         *string   `json:"imei1,omitempty"`
	IMEI2         *string   `json:"imei2,omitempty"`
}

// ToMobileStockResponse maps the persisted row to its wire shape.
func ToMobileStockResponse(rec models.MobileStockRecord) MobileStockResponse {
	return MobileStockResponse{
		ID:            rec.ID,
		DealerID:      rec.DealerID,
		ProductName:   rec.ProductName,
		Model:         rec.Model,
		Brand:         rec.Brand,
		TotalQuantity: rec.TotalQuantity,
		ProductIDs:    rec.ProductIDs,
		IMEI1:         rec.IMEI1,
		IMEI2:         rec.IMEI2,
	}
}

// AccessoryStockResponse is the wire shape for an accessory stock record.
type AccessoryStockResponse struct {
	ID          uuid.UUID `json:"id"`
	DealerID    uuid.UUID `json:"dealer_id"`
	BaseCode    string    `json:"base_code"`
	ProductName string    `json:"product_name"`
	Brand       *string   `json:"brand,omitempty"`
	Quantity    int       `json:"quantity"`
	ProductIDs  []string  `json:"product_ids,omitempty"`
}

// ToAccessoryStockResponse maps the persisted row to its wire shape.
func ToAccessoryStockResponse(rec models.AccessoryStockRecord) AccessoryStockResponse {
	return AccessoryStockResponse{
		ID:          rec.ID,
		DealerID:    rec.DealerID,
		BaseCode:    rec.BaseCode,
		ProductName: rec.ProductName,
		Brand:       rec.Brand,
		Quantity:    rec.Quantity,
		ProductIDs:  rec.ProductIDs,
	}
}
