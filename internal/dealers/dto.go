package dealers

import (
	"time"

	"github.com/google/uuid"

	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
)

// CreateDealerInput carries the fields accepted when registering a dealer.
type CreateDealerInput struct {
	Name  string  `json:"name" validate:"required,min=2,max=120"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	City  *string `json:"city,omitempty" validate:"omitempty,max=80"`
}

// UpdateDealerInput carries the fields accepted when editing a dealer.
// Nil fields are left untouched.
type UpdateDealerInput struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	City  *string `json:"city,omitempty" validate:"omitempty,max=80"`
}

// DealerResponse is the wire shape returned for a dealer.
type DealerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	City      *string   `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDealerResponse maps the persisted row to its wire shape.
func ToDealerResponse(dealer models.Dealer) DealerResponse {
	return DealerResponse{
		ID:        dealer.ID,
		Name:      dealer.Name,
		Phone:     dealer.Phone,
		City:      dealer.City,
		CreatedAt: dealer.CreatedAt,
	}
}

// cachedDealer is the snapshot stored in the read-through cache.
type cachedDealer struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
