package navigation

import (
	"slices"
	"sync"

	"github.com/zjrosen/thingdock/internal/pubsub"
)

// PanelCollection is the ordered list of docked panels plus the selection.
// Every removal, whichever caller made it, is announced to the removal
// observers after the lock is released.
type PanelCollection struct {
	mu       sync.Mutex
	items    []PanelLogic
	selected int
	removed  *pubsub.Bus[PanelLogic]
}

// NewPanelCollection creates an empty collection.
func NewPanelCollection() *PanelCollection {
	return &PanelCollection{selected: -1, removed: pubsub.NewBus[PanelLogic]()}
}

// OnRemoved subscribes fn to removals.
func (c *PanelCollection) OnRemoved(fn func(PanelLogic)) pubsub.Handle {
	return c.removed.Subscribe(fn)
}

// Add appends p and selects it. Adding a panel twice is a no-op.
func (c *PanelCollection) Add(p PanelLogic) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slices.Contains(c.items, p) {
		return false
	}
	c.items = append(c.items, p)
	c.selected = len(c.items) - 1
	return true
}

// Remove takes p out of the collection and notifies the observers.
func (c *PanelCollection) Remove(p PanelLogic) bool {
	c.mu.Lock()
	i := slices.Index(c.items, p)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	if i < c.selected || c.selected >= len(c.items) {
		c.selected--
	}
	c.mu.Unlock()

	c.removed.Publish(p)
	return true
}

// Move puts p at index to, clamped to the collection bounds. The selection
// follows the selected panel.
func (c *PanelCollection) Move(p PanelLogic, to int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := slices.Index(c.items, p)
	if from < 0 {
		return false
	}
	var sel PanelLogic
	if c.selected >= 0 {
		sel = c.items[c.selected]
	}
	to = max(0, min(to, len(c.items)-1))
	c.items = slices.Delete(c.items, from, from+1)
	c.items = slices.Insert(c.items, to, p)
	if sel != nil {
		c.selected = slices.Index(c.items, sel)
	}
	return true
}

// Select selects the panel at index i.
func (c *PanelCollection) Select(i int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.items) {
		return false
	}
	c.selected = i
	return true
}

// SelectItem selects p.
func (c *PanelCollection) SelectItem(p PanelLogic) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.Index(c.items, p)
	if i < 0 {
		return false
	}
	c.selected = i
	return true
}

// SelectNext moves the selection by delta, wrapping around.
func (c *PanelCollection) SelectNext(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.items)
	if n == 0 {
		return
	}
	c.selected = ((c.selected+delta)%n + n) % n
}

// Selected returns the selected panel and its index, or nil and -1.
func (c *PanelCollection) Selected() (PanelLogic, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 {
		return nil, -1
	}
	return c.items[c.selected], c.selected
}

// Items returns a snapshot of the panels in order.
func (c *PanelCollection) Items() []PanelLogic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Contains reports whether p is docked.
func (c *PanelCollection) Contains(p PanelLogic) bool {
	return c.Index(p) >= 0
}

// Index returns p's position or -1.
func (c *PanelCollection) Index(p PanelLogic) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Index(c.items, p)
}

// Len returns the number of docked panels.
func (c *PanelCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
