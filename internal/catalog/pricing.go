package catalog

import (
	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	"github.com/ordena-app/ordena-backend/pkg/types"
)

// PriceFor resolves a schedule for the active fulfillment mode. A missing
// entry falls back to the other mode's price, then to zero. Callers treat
// a zero price as "item effectively unpriced", never as an error.
func PriceFor(schedule types.PriceSchedule, mode enums.FulfillmentMode) int {
	if price := schedule.ForMode(mode); price != nil {
		return *price
	}
	if price := schedule.ForMode(mode.Other()); price != nil {
		return *price
	}
	return 0
}

// MenuUnitPrice computes the unit price of a configured menu: the base
// price for the mode plus the per-mode delta of every selected option that
// is still allow-listed in its group. Picks referencing options no longer
// present in the menu contribute zero instead of failing, so cart lines
// added before a catalog edit keep pricing.
func MenuUnitPrice(menu *models.Menu, selections types.Selections, mode enums.FulfillmentMode) int {
	total := PriceFor(menu.Prices, mode)
	for groupID, picks := range selections {
		group := menuGroup(menu, groupID)
		if group == nil {
			continue
		}
		for _, pick := range picks {
			option := group.Option(pick.OptionID)
			if option == nil {
				continue
			}
			// Deltas are strictly per mode, no cross-mode fallback.
			if delta := option.PriceDelta.ForMode(mode); delta != nil {
				total += *delta
			}
		}
	}
	return total
}

func menuGroup(menu *models.Menu, groupID string) *types.MenuGroup {
	for i := range menu.Groups {
		if menu.Groups[i].ID == groupID {
			return &menu.Groups[i]
		}
	}
	return nil
}
