package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
)

// MobileMerge carries the atomic update applied to an anonymous mobile
// record. Nil pointer fields are left untouched; set fields overwrite.
type MobileMerge struct {
	AddQuantity        int
	Codes              []string
	Brand              *string
	Color              *string
	RAM                *string
	Storage            *string
	SIMSlot            *string
	Processor          *string
	Display            *string
	Camera             *string
	Battery            *string
	OS                 *string
	Network            *string
	PurchasePriceCents *int
	SellingPriceCents  *int
}

// AccessoryMerge carries the atomic update applied to an accessory record.
type AccessoryMerge struct {
	AddQuantity        int
	Codes              []string
	ProductName        string
	Brand              *string
	CategoryLabel      string
	PurchasePriceCents *int
	SellingPriceCents  *int
}

// Repository persists stock records. Quantity/code-list merges are single
// atomic statements so concurrent receives never lose updates.
type Repository interface {
	CreateMobile(ctx context.Context, rec *models.MobileStockRecord) error
	FindAnonymousMobile(ctx context.Context, dealerID uuid.UUID, productName string, model *string) (*models.MobileStockRecord, error)
	MergeAnonymousMobile(ctx context.Context, id uuid.UUID, merge MobileMerge) error

	CreateAccessory(ctx context.Context, rec *models.AccessoryStockRecord) error
	FindAccessoryByBaseCode(ctx context.Context, dealerID uuid.UUID, baseCode string) (*models.AccessoryStockRecord, error)
	MergeAccessory(ctx context.Context, id uuid.UUID, merge AccessoryMerge) error

	ListMobilesByDealer(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.MobileStockRecord, error)
	ListAccessoriesByDealer(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.AccessoryStockRecord, error)
	FindMobileByCode(ctx context.Context, code string) (*models.MobileStockRecord, error)
	FindAccessoryByCode(ctx context.Context, code string) (*models.AccessoryStockRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stock repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMobile(ctx context.Context, rec *models.MobileStockRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindAnonymousMobile(ctx context.Context, dealerID uuid.UUID, productName string, model *string) (*models.MobileStockRecord, error) {
	query := r.db.WithContext(ctx).
		Where("dealer_id = ?", dealerID).
		Where("product_name = ?", productName).
		Where("(imei1 IS NULL OR imei1 = '')").
		Where("(imei2 IS NULL OR imei2 = '')")
	if model != nil && *model != "" {
		query = query.Where("model = ?", *model)
	}

	var rec models.MobileStockRecord
	err := query.Order("created_at ASC").First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// MergeAnonymousMobile increments quantity and appends codes in one UPDATE.
// Postgres-only SQL; the array append has no portable equivalent.
func (r *repository) MergeAnonymousMobile(ctx context.Context, id uuid.UUID, merge MobileMerge) error {
	updates := map[string]any{
		"total_quantity": gorm.Expr("total_quantity + ?", merge.AddQuantity),
		"updated_at":     gorm.Expr("CURRENT_TIMESTAMP"),
	}
	if len(merge.Codes) > 0 {
		updates["product_ids"] = gorm.Expr("COALESCE(product_ids, '{}') || ?::text[]", pq.StringArray(merge.Codes))
	}
	applyIfSet(updates, "brand", merge.Brand)
	applyIfSet(updates, "color", merge.Color)
	applyIfSet(updates, "ram", merge.RAM)
	applyIfSet(updates, "storage", merge.Storage)
	applyIfSet(updates, "sim_slot", merge.SIMSlot)
	applyIfSet(updates, "processor", merge.Processor)
	applyIfSet(updates, "display", merge.Display)
	applyIfSet(updates, "camera", merge.Camera)
	applyIfSet(updates, "battery", merge.Battery)
	applyIfSet(updates, "os", merge.OS)
	applyIfSet(updates, "network", merge.Network)
	applyIfSetInt(updates, "purchase_price_cents", merge.PurchasePriceCents)
	applyIfSetInt(updates, "selling_price_cents", merge.SellingPriceCents)

	res := r.db.WithContext(ctx).
		Model(&models.MobileStockRecord{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateAccessory(ctx context.Context, rec *models.AccessoryStockRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindAccessoryByBaseCode(ctx context.Context, dealerID uuid.UUID, baseCode string) (*models.AccessoryStockRecord, error) {
	var rec models.AccessoryStockRecord
	err := r.db.WithContext(ctx).
		Where("dealer_id = ?", dealerID).
		Where("base_code = ?", baseCode).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// MergeAccessory accumulates quantity and codes in one UPDATE. Postgres-only
// SQL, same as MergeAnonymousMobile.
func (r *repository) MergeAccessory(ctx context.Context, id uuid.UUID, merge AccessoryMerge) error {
	updates := map[string]any{
		"quantity":   gorm.Expr("quantity + ?", merge.AddQuantity),
		"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
	}
	if len(merge.Codes) > 0 {
		updates["product_ids"] = gorm.Expr("COALESCE(product_ids, '{}') || ?::text[]", pq.StringArray(merge.Codes))
	}
	if merge.ProductName != "" {
		updates["product_name"] = merge.ProductName
	}
	if merge.CategoryLabel != "" {
		updates["category_label"] = merge.CategoryLabel
	}
	applyIfSet(updates, "brand", merge.Brand)
	applyIfSetInt(updates, "purchase_price_cents", merge.PurchasePriceCents)
	applyIfSetInt(updates, "selling_price_cents", merge.SellingPriceCents)

	res := r.db.WithContext(ctx).
		Model(&models.AccessoryStockRecord{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListMobilesByDealer(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.MobileStockRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.MobileStockRecord
	err := r.db.WithContext(ctx).
		Where("dealer_id = ?", dealerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListAccessoriesByDealer(ctx context.Context, dealerID uuid.UUID, limit int) ([]models.AccessoryStockRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.AccessoryStockRecord
	err := r.db.WithContext(ctx).
		Where("dealer_id = ?", dealerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// FindMobileByCode matches a minted unit code against the code list.
// Postgres array membership; not available on the sqlite test driver.
func (r *repository) FindMobileByCode(ctx context.Context, code string) (*models.MobileStockRecord, error) {
	var rec models.MobileStockRecord
	err := r.db.WithContext(ctx).
		Where("? = ANY(product_ids)", code).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindAccessoryByCode(ctx context.Context, code string) (*models.AccessoryStockRecord, error) {
	var rec models.AccessoryStockRecord
	err := r.db.WithContext(ctx).
		Where("? = ANY(product_ids)", code).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func applyIfSet(updates map[string]any, column string, value *string) {
	if value != nil && *value != "" {
		updates[column] = *value
	}
}

func applyIfSetInt(updates map[string]any, column string, value *int) {
	if value != nil {
		updates[column] = *value
	}
}
