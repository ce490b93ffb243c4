package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/types"
)

// ViolationKind discriminates selection violations.
type ViolationKind string

const (
	ViolationCountOutOfRange  ViolationKind = "count_out_of_range"
	ViolationOptionNotAllowed ViolationKind = "option_not_allowed"
)

// Violation describes one way a selection fails a menu group's rules.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	GroupID  string        `json:"group_id"`
	MinPicks int           `json:"min_picks,omitempty"`
	MaxPicks int           `json:"max_picks,omitempty"`
	Actual   int           `json:"actual,omitempty"`
	OptionID uuid.UUID     `json:"option_id,omitempty"`
}

func (v Violation) String() string {
	switch v.Kind {
	case ViolationCountOutOfRange:
		return fmt.Sprintf("group %s requires between %d and %d picks, got %d", v.GroupID, v.MinPicks, v.MaxPicks, v.Actual)
	case ViolationOptionNotAllowed:
		return fmt.Sprintf("group %s does not allow option %s", v.GroupID, v.OptionID)
	default:
		return string(v.Kind)
	}
}

// ValidateSelections checks the picks for every group of the menu against
// that group's cardinality and allow-list. An empty result means the
// configuration is acceptable for checkout. The check is deterministic and
// side-effect free, so callers may run it on every change.
func ValidateSelections(menu *models.Menu, selections types.Selections) []Violation {
	var violations []Violation
	for _, group := range menu.Groups {
		picks := selections[group.ID]
		if len(picks) < group.MinPicks || len(picks) > group.MaxPicks {
			violations = append(violations, Violation{
				Kind:     ViolationCountOutOfRange,
				GroupID:  group.ID,
				MinPicks: group.MinPicks,
				MaxPicks: group.MaxPicks,
				Actual:   len(picks),
			})
		}
		for _, pick := range picks {
			if group.Option(pick.OptionID) == nil {
				violations = append(violations, Violation{
					Kind:     ViolationOptionNotAllowed,
					GroupID:  group.ID,
					OptionID: pick.OptionID,
				})
			}
		}
	}
	return violations
}
