package dealers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sahilmehta/cellstock-backend/pkg/db/models"
)

func setupDealersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	dealers := `
CREATE TABLE IF NOT EXISTS dealers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT,
  city TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	catalog := `
CREATE TABLE IF NOT EXISTS brand_catalog_entries (
  id TEXT PRIMARY KEY,
  model TEXT NOT NULL UNIQUE,
  brand TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(dealers).Error)
	require.NoError(t, db.Exec(catalog).Error)
	require.NoError(t, db.Exec(`DELETE FROM dealers`).Error)
	require.NoError(t, db.Exec(`DELETE FROM brand_catalog_entries`).Error)

	return db
}

func TestCreateAndFindDealer(t *testing.T) {
	db := setupDealersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	city := "Pune"
	dealer := &models.Dealer{ID: uuid.New(), Name: "ABC Traders", City: &city}
	created, err := repo.Create(ctx, dealer)
	require.NoError(t, err)
	require.Equal(t, dealer.ID, created.ID)

	found, err := repo.FindByID(ctx, dealer.ID)
	require.NoError(t, err)
	require.Equal(t, "ABC Traders", found.Name)
	require.NotNil(t, found.City)
	require.Equal(t, "Pune", *found.City)
}

func TestFindDealerMissingReturnsRecordNotFound(t *testing.T) {
	db := setupDealersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListDealersOrderedByName(t *testing.T) {
	db := setupDealersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Zain Telecom", "ABC Traders", "Raj Mobiles"} {
		_, err := repo.Create(ctx, &models.Dealer{ID: uuid.New(), Name: name})
		require.NoError(t, err)
	}

	rows, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "ABC Traders", rows[0].Name)
	require.Equal(t, "Raj Mobiles", rows[1].Name)
	require.Equal(t, "Zain Telecom", rows[2].Name)
}

func TestFindBrandByModel(t *testing.T) {
	db := setupDealersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.BrandCatalogEntry{
		ID:    uuid.New(),
		Model: "Y21 Pro",
		Brand: "Vivo",
	}).Error)

	entry, err := repo.FindBrandByModel(ctx, "Y21 Pro")
	require.NoError(t, err)
	require.Equal(t, "Vivo", entry.Brand)

	_, err = repo.FindBrandByModel(ctx, "Unknown")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateDealerPersistsChanges(t *testing.T) {
	db := setupDealersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	dealer := &models.Dealer{ID: uuid.New(), Name: "Raj Mobiles"}
	_, err := repo.Create(ctx, dealer)
	require.NoError(t, err)

	phone := "9876543210"
	dealer.Name = "Raj Mobile World"
	dealer.Phone = &phone
	require.NoError(t, repo.Update(ctx, dealer))

	found, err := repo.FindByID(ctx, dealer.ID)
	require.NoError(t, err)
	require.Equal(t, "Raj Mobile World", found.Name)
	require.NotNil(t, found.Phone)
	require.Equal(t, phone, *found.Phone)
}
