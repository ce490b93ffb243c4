package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile stores per-user storefront preferences, including the preferred
// delivery address used when no session address was chosen.
type Profile struct {
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey"`
	DisplayName      string     `gorm:"column:display_name;not null"`
	DefaultAddressID *uuid.UUID `gorm:"column:default_address_id;type:uuid"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
