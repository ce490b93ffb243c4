package types

import (
	"sort"
	"strings"
)

// Customization is the set of ingredient identifiers a customer asks to
// omit from an item. Two customizations are equal iff their omission sets
// are equal; ordering and duplicates never matter.
type Customization []string

// Normalize returns the canonical form: trimmed, deduplicated, sorted.
func (c Customization) Normalize() Customization {
	if len(c) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(c))
	out := make(Customization, 0, len(c))
	for _, ingredient := range c {
		ingredient = strings.TrimSpace(ingredient)
		if ingredient == "" {
			continue
		}
		if _, ok := seen[ingredient]; ok {
			continue
		}
		seen[ingredient] = struct{}{}
		out = append(out, ingredient)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// Key returns a stable string usable as an equality key.
func (c Customization) Key() string {
	return strings.Join(c.Normalize(), ",")
}

// Equal reports whether both customizations omit the same ingredients.
func (c Customization) Equal(other Customization) bool {
	return c.Key() == other.Key()
}
