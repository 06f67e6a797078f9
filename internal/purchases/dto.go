package purchases

import (
	"time"

	"github.com/google/uuid"

	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
	"github.com/sahilmehta/cellstock-backend/pkg/enums"
)

// PurchaseLineInput is one product entry on a new purchase order.
type PurchaseLineInput struct {
	Category    string  `json:"category" validate:"required"`
	ProductName string  `json:"product_name" validate:"required,min=1,max=200"`
	Model       *string `json:"model,omitempty"`
	Brand       *string `json:"brand,omitempty"`

	Color     *string `json:"color,omitempty"`
	RAM       *string `json:"ram,omitempty"`
	Storage   *string `json:"storage,omitempty"`
	SIMSlot   *string `json:"sim_slot,omitempty"`
	Processor *string `json:"processor,omitempty"`
	Display   *string `json:"display,omitempty"`
	Camera    *string `json:"camera,omitempty"`
	Battery   *string `json:"battery,omitempty"`
	OS        *string `json:"os,omitempty"`
	Network   *string `json:"network,omitempty"`

	PurchasePriceCents int      `json:"purchase_price_cents" validate:"gte=0"`
	SellingPriceCents  int      `json:"selling_price_cents" validate:"gte=0"`
	Qty                int      `json:"qty" validate:"gte=0"`
	IMEIs              []string `json:"imeis,omitempty"`
	SuppliedCode       *string  `json:"supplied_code,omitempty"`
}

// CreatePurchaseInput is the request body for registering a purchase order.
type CreatePurchaseInput struct {
	DealerID     uuid.UUID           `json:"dealer_id" validate:"required"`
	OrderedOn    *time.Time          `json:"ordered_on,omitempty"`
	PaymentTerms *string             `json:"payment_terms,omitempty"`
	GSTApplied   bool                `json:"gst_applied"`
	GSTPercent   *float64            `json:"gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	LineItems    []PurchaseLineInput `json:"line_items" validate:"required,min=1,dive"`
}

// LineItemResponse is the wire shape for one purchase line item.
type LineItemResponse struct {
	ID                 uuid.UUID `json:"id"`
	Position           int       `json:"position"`
	Category           string    `json:"category"`
	ProductName        string    `json:"product_name"`
	Model              *string   `json:"model,omitempty"`
	Brand              *string   `json:"brand,omitempty"`
	PurchasePriceCents int       `json:"purchase_price_cents"`
	SellingPriceCents  int       `json:"selling_price_cents"`
	Qty                int       `json:"qty"`
	IMEIs              []string  `json:"imeis,omitempty"`
	SuppliedCode       *string   `json:"supplied_code,omitempty"`
}

// PurchaseResponse is the wire shape for a purchase order.
type PurchaseResponse struct {
	ID           uuid.UUID          `json:"id"`
	DealerID     uuid.UUID          `json:"dealer_id"`
	OrderedOn    time.Time          `json:"ordered_on"`
	PaymentTerms *string            `json:"payment_terms,omitempty"`
	GSTApplied   bool               `json:"gst_applied"`
	GSTPercent   *float64           `json:"gst_percent,omitempty"`
	Status       string             `json:"status"`
	ReceivedAt   *time.Time         `json:"received_at,omitempty"`
	LineItems    []LineItemResponse `json:"line_items,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ToPurchaseResponse maps a purchase order row to its wire shape.
func ToPurchaseResponse(order *models.PurchaseOrder) PurchaseResponse {
	resp := PurchaseResponse{
		ID:           order.ID,
		DealerID:     order.DealerID,
		OrderedOn:    order.OrderedOn,
		PaymentTerms: order.PaymentTerms,
		GSTApplied:   order.GSTApplied,
		GSTPercent:   order.GSTPercent,
		Status:       string(order.Status),
		ReceivedAt:   order.ReceivedAt,
		CreatedAt:    order.CreatedAt,
	}
	for _, item := range order.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			ID:                 item.ID,
			Position:           item.Position,
			Category:           string(item.Category),
			ProductName:        item.ProductName,
			Model:              item.Model,
			Brand:              item.Brand,
			PurchasePriceCents: item.PurchasePriceCents,
			SellingPriceCents:  item.SellingPriceCents,
			Qty:                item.Qty,
			IMEIs:              item.IMEIs,
			SuppliedCode:       item.SuppliedCode,
		})
	}
	return resp
}

// LineOutcome reports one stock record created or merged while receiving.
type LineOutcome struct {
	Position    int                `json:"position"`
	Category    enums.ItemCategory `json:"category"`
	ProductName string             `json:"product_name"`
	RecordID    uuid.UUID          `json:"record_id"`
	Created     bool               `json:"created"`
	Quantity    int                `json:"quantity"`
	Codes       []string           `json:"codes,omitempty"`
}

// ReceiveResult summarizes one receive run over a purchase order.
type ReceiveResult struct {
	PurchaseID      uuid.UUID     `json:"purchase_id"`
	AlreadyReceived bool          `json:"already_received"`
	ReceivedAt      time.Time     `json:"received_at"`
	Mobiles         []LineOutcome `json:"mobiles,omitempty"`
	Accessories     []LineOutcome `json:"accessories,omitempty"`
	Skipped         int           `json:"skipped,omitempty"`
}

// ReceiveResponse is the wire shape for the receive endpoint. Ok is
// always true on a 2xx; failures go through the error envelope instead.
type ReceiveResponse struct {
	Ok bool `json:"ok"`
	ReceiveResult
}

func NewReceiveResponse(result ReceiveResult) ReceiveResponse {
	return ReceiveResponse{Ok: true, ReceiveResult: result}
}

// CodesMinted counts every code added across all outcomes.
func (r ReceiveResult) CodesMinted() int {
	total := 0
	for _, out := range r.Mobiles {
		total += len(out.Codes)
	}
	for _, out := range r.Accessories {
		total += len(out.Codes)
	}
	return total
}
