package cart

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ordena-app/ordena-backend/internal/catalog"
	"github.com/ordena-app/ordena-backend/pkg/db/models"
	"github.com/ordena-app/ordena-backend/pkg/enums"
	"github.com/ordena-app/ordena-backend/pkg/types"
)

// Snapshot is an immutable, fully-formed view of one cart. Readers always
// observe a complete prior or current value, never a partial mutation.
type Snapshot struct {
	Mode          enums.FulfillmentMode `json:"mode"`
	Lines         []Line                `json:"lines"`
	ItemCount     int                   `json:"item_count"`
	SubtotalCents int                   `json:"subtotal_cents"`
}

// IsEmpty reports whether the cart holds no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Line returns the line with the given id, or nil.
func (s Snapshot) Line(lineID uuid.UUID) *Line {
	for i := range s.Lines {
		if s.Lines[i].ID == lineID {
			return &s.Lines[i]
		}
	}
	return nil
}

// cell holds one user's cart. Writers hold mu; readers load the published
// snapshot without taking the lock.
type cell struct {
	mu       sync.Mutex
	mode     enums.FulfillmentMode
	lines    []Line
	current  atomic.Pointer[Snapshot]
	watchers []chan Snapshot
}

// Store owns every user's in-memory cart. Carts exist only through its
// operations; no caller ever mutates a Line slice directly.
type Store struct {
	mu    sync.Mutex
	cells map[uuid.UUID]*cell
}

// NewStore builds an empty cart store. New carts start in pickup mode.
func NewStore() *Store {
	return &Store{cells: make(map[uuid.UUID]*cell)}
}

func (s *Store) cell(userID uuid.UUID) *cell {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cells[userID]
	if !ok {
		c = &cell{mode: enums.ModePickup}
		c.current.Store(&Snapshot{Mode: enums.ModePickup})
		s.cells[userID] = c
	}
	return c
}

// publish must be called with c.mu held.
func (c *cell) publish() Snapshot {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)

	snap := Snapshot{Mode: c.mode, Lines: lines}
	for _, line := range lines {
		snap.ItemCount += line.Quantity
		snap.SubtotalCents += line.SubtotalCents()
	}
	c.current.Store(&snap)

	for _, w := range c.watchers {
		// latest-wins: drop the stale buffered value if the watcher is slow
		select {
		case <-w:
		default:
		}
		select {
		case w <- snap:
		default:
		}
	}
	return snap
}

// Snapshot returns the user's current cart without blocking on writers.
func (s *Store) Snapshot(userID uuid.UUID) Snapshot {
	return *s.cell(userID).current.Load()
}

// Watch returns a channel that receives the cart snapshot after every
// write. The channel is buffered and latest-wins; slow consumers observe
// the most recent state, not every intermediate one.
func (s *Store) Watch(userID uuid.UUID) <-chan Snapshot {
	c := s.cell(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	w := make(chan Snapshot, 1)
	c.watchers = append(c.watchers, w)
	return w
}

// SetMode replaces the active fulfillment mode. Existing lines keep their
// captured prices; changing mode only affects future additions and the
// checkout-time address requirement.
func (s *Store) SetMode(userID uuid.UUID, mode enums.FulfillmentMode) Snapshot {
	c := s.cell(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	return c.publish()
}

// AddProduct prices the product at the current mode and merges it into an
// existing line with the same (product id, customization) configuration,
// or appends a new line.
func (s *Store) AddProduct(userID uuid.UUID, product *models.Product, customization types.Customization, qty int) Snapshot {
	if qty < 1 {
		qty = 1
	}
	c := s.cell(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	line := Line{
		ID:             uuid.New(),
		Kind:           enums.LineKindProduct,
		ItemID:         product.ID,
		Name:           product.Name,
		ImageURL:       product.ImageURL,
		UnitPriceCents: catalog.PriceFor(product.Prices, c.mode),
		Quantity:       qty,
		Customization:  customization.Normalize(),
	}
	c.upsert(line, qty)
	return c.publish()
}

// AddMenu prices the configured menu at the current mode and merges it
// into an existing line with the same normalized selections, or appends a
// new line.
func (s *Store) AddMenu(userID uuid.UUID, menu *models.Menu, selections types.Selections, qty int) Snapshot {
	if qty < 1 {
		qty = 1
	}
	c := s.cell(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	line := Line{
		ID:             uuid.New(),
		Kind:           enums.LineKindMenu,
		ItemID:         menu.ID,
		Name:           menu.Name,
		ImageURL:       menu.ImageURL,
		UnitPriceCents: catalog.MenuUnitPrice(menu, selections, c.mode),
		Quantity:       qty,
		Selections:     selections.Normalize(),
	}
	c.upsert(line, qty)
	return c.publish()
}

// upsert must be called with c.mu held.
func (c *cell) upsert(line Line, qty int) {
	key := line.mergeKey()
	for i := range c.lines {
		if c.lines[i].mergeKey() == key {
			c.lines[i].Quantity += qty
			return
		}
	}
	c.lines = append(c.lines, line)
}

// UpdateQuantity sets a line's quantity exactly. A quantity at or below
// zero removes the line. Unknown line ids are a no-op.
func (s *Store) UpdateQuantity(userID uuid.UUID, lineID uuid.UUID, qty int) Snapshot {
	c := s.cell(userID)
	c.mu.Lock()
	defer c.mu.Unlock()

	if qty <= 0 {
		c.remove(lineID)
		return c.publish()
	}
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = qty
			break
		}
	}
	return c.publish()
}

// Remove deletes the line if present, no-op otherwise.
func (s *Store) Remove(userID uuid.UUID, lineID uuid.UUID) Snapshot {
	c := s.cell(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(lineID)
	return c.publish()
}

// remove must be called with c.mu held.
func (c *cell) remove(lineID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the line list and preserves the mode.
func (s *Store) Clear(userID uuid.UUID) Snapshot {
	c := s.cell(userID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	return c.publish()
}
