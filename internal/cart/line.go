package cart

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/enums"
	"github.com/ordena-app/ordena-backend/pkg/types"
)

// Line is one cart entry. Kind discriminates the two variants: product
// lines carry an ingredient customization, menu lines carry the group
// selections that configured the bundle. Unit price is captured at the
// moment the line is added and never recomputed afterwards.
type Line struct {
	ID             uuid.UUID           `json:"id"`
	Kind           enums.LineKind      `json:"kind"`
	ItemID         uuid.UUID           `json:"item_id"`
	Name           string              `json:"name"`
	ImageURL       *string             `json:"image_url,omitempty"`
	UnitPriceCents int                 `json:"unit_price_cents"`
	Quantity       int                 `json:"quantity"`
	Customization  types.Customization `json:"customization,omitempty"`
	Selections     types.Selections    `json:"selections,omitempty"`
}

// SubtotalCents is the captured unit price times quantity.
func (l Line) SubtotalCents() int {
	return l.UnitPriceCents * l.Quantity
}

// mergeKey is the equality key used to fold identical configurations into
// one line. Product lines merge on (product id, omission set), menu lines
// on (menu id, normalized selections).
func (l Line) mergeKey() string {
	switch l.Kind {
	case enums.LineKindMenu:
		return fmt.Sprintf("menu:%s:%s", l.ItemID, l.Selections.Key())
	default:
		return fmt.Sprintf("product:%s:%s", l.ItemID, l.Customization.Key())
	}
}
