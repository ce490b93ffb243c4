package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MenuOption is one allow-listed pick inside a menu group. PriceDelta is
// added on top of the menu base price when the option is selected.
type MenuOption struct {
	ProductID       uuid.UUID     `json:"product_id"`
	PriceDelta      PriceSchedule `json:"price_delta"`
	DefaultSelected bool          `json:"default_selected"`
	AllowRemoval    bool          `json:"allow_removal"`
}

// MenuGroup is one configurable step within a menu, such as "choose a side".
type MenuGroup struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	MinPicks int          `json:"min_picks"`
	MaxPicks int          `json:"max_picks"`
	Options  []MenuOption `json:"options"`
}

// Option returns the allow-listed option for the given product id, or nil.
func (g MenuGroup) Option(productID uuid.UUID) *MenuOption {
	for i := range g.Options {
		if g.Options[i].ProductID == productID {
			return &g.Options[i]
		}
	}
	return nil
}

// MenuGroups is the ordered list of groups stored on a menu record.
type MenuGroups []MenuGroup

// OptionPick is one chosen option within a group, with an optional
// per-option customization.
type OptionPick struct {
	OptionID      uuid.UUID     `json:"option_id"`
	Customization Customization `json:"customization,omitempty"`
}

// GroupSelection is the list of picks a customer made for one group.
type GroupSelection []OptionPick

// Selections maps a group id to the picks made for that group. Groups the
// customer never touched are simply absent.
type Selections map[string]GroupSelection

// Normalize returns the canonical form of the selections: groups sorted by
// id, picks sorted by option id, and every customization normalized. Two
// selections that differ only in map or list ordering normalize to the
// same value.
func (s Selections) Normalize() Selections {
	if len(s) == 0 {
		return nil
	}
	out := make(Selections, len(s))
	for groupID, picks := range s {
		normalized := make(GroupSelection, 0, len(picks))
		for _, pick := range picks {
			normalized = append(normalized, OptionPick{
				OptionID:      pick.OptionID,
				Customization: pick.Customization.Normalize(),
			})
		}
		sort.Slice(normalized, func(i, j int) bool {
			if normalized[i].OptionID != normalized[j].OptionID {
				return normalized[i].OptionID.String() < normalized[j].OptionID.String()
			}
			return normalized[i].Customization.Key() < normalized[j].Customization.Key()
		})
		out[groupID] = normalized
	}
	return out
}

// Key returns a stable string usable as an equality key for merge checks.
func (s Selections) Key() string {
	normalized := s.Normalize()
	groupIDs := make([]string, 0, len(normalized))
	for groupID := range normalized {
		groupIDs = append(groupIDs, groupID)
	}
	sort.Strings(groupIDs)

	var b strings.Builder
	for _, groupID := range groupIDs {
		fmt.Fprintf(&b, "%s=>", groupID)
		for _, pick := range normalized[groupID] {
			fmt.Fprintf(&b, "%s(%s);", pick.OptionID, pick.Customization.Key())
		}
		b.WriteString("|")
	}
	return b.String()
}

// Equal reports whether both selections describe the same configuration.
func (s Selections) Equal(other Selections) bool {
	return s.Key() == other.Key()
}
