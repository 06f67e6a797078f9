package codes

import (
	"context"

	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sequence counter repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Next runs a single upsert-and-return statement so the increment is atomic
// at the storage layer. Works on Postgres and on SQLite 3.35+ in tests.
func (r *repository) Next(ctx context.Context, key string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (counter_key, last_value)
		VALUES (?, 1)
		ON CONFLICT (counter_key)
		DO UPDATE SET last_value = sequence_counters.last_value + 1
		RETURNING last_value`, key).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}
