package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/types"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  image_url TEXT,
  ingredients TEXT,
  prices TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	menus := `
CREATE TABLE IF NOT EXISTS menus (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  image_url TEXT,
  prices TEXT NOT NULL,
  option_groups TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(menus).Error)
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, active bool) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Prices:   types.PriceSchedule{PickupCents: types.Cents(450)},
		IsActive: active,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestFindProductByIDRoundTripsPriceSchedule(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	created := createProduct(t, db, "Empanada", true)

	found, err := repo.FindProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.NotNil(t, found.Prices.PickupCents)
	assert.Equal(t, 450, *found.Prices.PickupCents)
	assert.Nil(t, found.Prices.DeliveryCents)
}

func TestFindMenuByIDRoundTripsGroups(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	option := uuid.New()
	menu := &models.Menu{
		ID:     uuid.New(),
		Name:   "Lunch Combo",
		Prices: types.PriceSchedule{PickupCents: types.Cents(800)},
		Groups: types.MenuGroups{
			{
				ID:       "side",
				Name:     "Choose a side",
				MinPicks: 1,
				MaxPicks: 1,
				Options:  []types.MenuOption{{ProductID: option, PriceDelta: types.PriceSchedule{PickupCents: types.Cents(100)}}},
			},
		},
		IsActive: true,
	}
	require.NoError(t, db.Create(menu).Error)

	found, err := repo.FindMenuByID(context.Background(), menu.ID)
	require.NoError(t, err)
	require.Len(t, found.Groups, 1)
	assert.Equal(t, "side", found.Groups[0].ID)
	require.Len(t, found.Groups[0].Options, 1)
	assert.Equal(t, option, found.Groups[0].Options[0].ProductID)
}

func TestListProductsSkipsInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	active := createProduct(t, db, "Arepa", true)
	createProduct(t, db, "Retired Item", false)

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, active.ID)
	for _, p := range products {
		assert.True(t, p.IsActive)
	}
}

func TestFindProductByIDMissing(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindProductByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
