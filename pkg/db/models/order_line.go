package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/enums"
	"github.com/ordena-app/ordena-backend/pkg/types"
)

// OrderLine persists one priced cart line inside a placed order. Product
// lines carry a customization, menu lines carry the group selections.
type OrderLine struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Kind           enums.LineKind      `gorm:"column:kind;not null"`
	ItemID         uuid.UUID           `gorm:"column:item_id;type:uuid;not null"`
	Name           string              `gorm:"column:name;not null"`
	ImageURL       *string             `gorm:"column:image_url"`
	UnitPriceCents int                 `gorm:"column:unit_price_cents;not null"`
	Quantity       int                 `gorm:"column:quantity;not null"`
	SubtotalCents  int                 `gorm:"column:subtotal_cents;not null"`
	Customization  types.Customization `gorm:"column:customization;type:jsonb;serializer:json"`
	Selections     types.Selections    `gorm:"column:selections;type:jsonb;serializer:json"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}
