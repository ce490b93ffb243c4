package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// Order is a placed order header. Lines carry the priced snapshots.
type Order struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Mode       enums.FulfillmentMode `gorm:"column:mode;not null"`
	AddressID  *uuid.UUID            `gorm:"column:address_id;type:uuid"`
	Status     enums.OrderStatus     `gorm:"column:status;not null;default:'placed'"`
	ItemCount  int                   `gorm:"column:item_count;not null"`
	TotalCents int                   `gorm:"column:total_cents;not null"`
	Lines      []OrderLine           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
