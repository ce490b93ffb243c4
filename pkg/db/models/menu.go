package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/types"
)

// Menu is a configurable bundle composed of ordered option groups.
type Menu struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Description *string             `gorm:"column:description"`
	ImageURL    *string             `gorm:"column:image_url"`
	Prices      types.PriceSchedule `gorm:"column:prices;type:jsonb;serializer:json;not null"`
	Groups      types.MenuGroups    `gorm:"column:option_groups;type:jsonb;serializer:json;not null"`
	IsActive    bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
