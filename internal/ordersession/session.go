package ordersession

import (
	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/enums"
)

// Session is the user's fulfillment triple. The zero value is the empty
// session: no mode chosen, no address, browsing normally.
type Session struct {
	Mode         *enums.FulfillmentMode `json:"mode,omitempty"`
	AddressID    *uuid.UUID             `json:"address_id,omitempty"`
	BrowsingOnly bool                   `json:"browsing_only"`
}

// HasMode reports whether a fulfillment mode has been chosen.
func (s Session) HasMode() bool {
	return s.Mode != nil
}

// IsEmpty reports whether the session is the zero triple.
func (s Session) IsEmpty() bool {
	return s.Mode == nil && s.AddressID == nil && !s.BrowsingOnly
}
