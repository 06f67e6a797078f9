package purchases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
	"github.com/sahilmehta/cellstock-backend/pkg/enums"
)

// Repository is the persistence surface for purchase orders.
type Repository interface {
	Create(ctx context.Context, order *models.PurchaseOrder) error
	// FindByID loads an order with its line items in position order.
	FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.PurchaseOrder, error)
	// MarkReceived flips a pending order to received inside the caller's
	// transaction. Returns false when the order was not pending anymore.
	MarkReceived(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a purchase order repository over the given handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.PurchaseOrder, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if dealerID != uuid.Nil {
		query = query.Where("dealer_id = ?", dealerID)
	}
	var orders []models.PurchaseOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) MarkReceived(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).
		Model(&models.PurchaseOrder{}).
		Where("id = ? AND status = ?", id, enums.PurchaseStatusPending).
		Updates(map[string]interface{}{
			"status":      enums.PurchaseStatusReceived,
			"received_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
