package enums

// FulfillmentMode says whether an order is picked up in-store or delivered.
type FulfillmentMode string

const (
	ModePickup   FulfillmentMode = "pickup"
	ModeDelivery FulfillmentMode = "delivery"
)

// IsValid reports whether the value is a known fulfillment mode.
func (m FulfillmentMode) IsValid() bool {
	switch m {
	case ModePickup, ModeDelivery:
		return true
	}
	return false
}

// Other returns the opposite fulfillment mode.
func (m FulfillmentMode) Other() FulfillmentMode {
	if m == ModePickup {
		return ModeDelivery
	}
	return ModePickup
}

// LineKind discriminates the two cart line variants.
type LineKind string

const (
	LineKindProduct LineKind = "product"
	LineKindMenu    LineKind = "menu"
)

func (k LineKind) IsValid() bool {
	switch k {
	case LineKindProduct, LineKindMenu:
		return true
	}
	return false
}

// OrderStatus tracks a persisted order after submission.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}
