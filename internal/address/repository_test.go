package address

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
)

func setupAddressTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	addresses := `
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  label TEXT NOT NULL,
  line1 TEXT NOT NULL,
  line2 TEXT,
  city TEXT NOT NULL,
  region TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	profiles := `
CREATE TABLE IF NOT EXISTS profiles (
  user_id TEXT PRIMARY KEY,
  display_name TEXT NOT NULL,
  default_address_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(addresses).Error)
	require.NoError(t, db.Exec(profiles).Error)
	return db
}

func createTestAddress(t *testing.T, db *gorm.DB, userID uuid.UUID, label string, created time.Time) *models.Address {
	t.Helper()

	addr := &models.Address{
		ID:         uuid.New(),
		UserID:     userID,
		Label:      label,
		Line1:      "123 Test Ave",
		City:       "Bogota",
		Region:     "DC",
		PostalCode: "110111",
		CreatedAt:  created,
	}
	require.NoError(t, db.Create(addr).Error)
	return addr
}

func TestListByUserOrdersOldestFirst(t *testing.T) {
	db := setupAddressTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	base := time.Now().Add(-time.Hour)
	second := createTestAddress(t, db, userID, "work", base.Add(time.Minute))
	first := createTestAddress(t, db, userID, "home", base)
	createTestAddress(t, db, uuid.New(), "other user", base)

	addresses, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, first.ID, addresses[0].ID)
	assert.Equal(t, second.ID, addresses[1].ID)
}

func TestFindProfileMissingReturnsNil(t *testing.T) {
	db := setupAddressTestDB(t)
	repo := NewRepository(db)

	profile, err := repo.FindProfile(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestSetDefaultAddressUpdatesProfile(t *testing.T) {
	db := setupAddressTestDB(t)
	repo := NewRepository(db)
	userID := uuid.New()

	require.NoError(t, db.Create(&models.Profile{UserID: userID, DisplayName: "Tester"}).Error)
	addr := createTestAddress(t, db, userID, "home", time.Now())

	require.NoError(t, repo.SetDefaultAddress(context.Background(), userID, &addr.ID))

	profile, err := repo.FindProfile(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, profile.DefaultAddressID)
	assert.Equal(t, addr.ID, *profile.DefaultAddressID)
}
