package dealers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
)

// Repository exposes dealer and brand-catalog reads plus dealer writes.
type Repository interface {
	Create(ctx context.Context, dealer *models.Dealer) (*models.Dealer, error)
	Update(ctx context.Context, dealer *models.Dealer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dealer, error)
	List(ctx context.Context, limit int) ([]models.Dealer, error)
	FindBrandByModel(ctx context.Context, model string) (*models.BrandCatalogEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dealers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, dealer *models.Dealer) (*models.Dealer, error) {
	if err := r.db.WithContext(ctx).Create(dealer).Error; err != nil {
		return nil, err
	}
	return dealer, nil
}

func (r *repository) Update(ctx context.Context, dealer *models.Dealer) error {
	return r.db.WithContext(ctx).
		Model(&models.Dealer{}).
		Where("id = ?", dealer.ID).
		Updates(map[string]any{
			"name":  dealer.Name,
			"phone": dealer.Phone,
			"city":  dealer.City,
		}).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dealer, error) {
	var dealer models.Dealer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&dealer).Error
	if err != nil {
		return nil, err
	}
	return &dealer, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]models.Dealer, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.Dealer
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindBrandByModel(ctx context.Context, model string) (*models.BrandCatalogEntry, error) {
	var entry models.BrandCatalogEntry
	err := r.db.WithContext(ctx).
		Where("model = ?", model).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
