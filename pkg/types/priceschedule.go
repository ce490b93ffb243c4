package types

import "github.com/ordena-app/ordena-backend/pkg/enums"

// PriceSchedule carries one optional price per fulfillment mode, in integer
// cents. Missing entries are resolved by the pricing rules, never here.
type PriceSchedule struct {
	PickupCents   *int `json:"pickup_cents,omitempty"`
	DeliveryCents *int `json:"delivery_cents,omitempty"`
}

// ForMode returns the price configured for the given mode, or nil.
func (p PriceSchedule) ForMode(mode enums.FulfillmentMode) *int {
	if mode == enums.ModeDelivery {
		return p.DeliveryCents
	}
	return p.PickupCents
}

// Cents is a convenience constructor for schedule literals.
func Cents(value int) *int {
	return &value
}
