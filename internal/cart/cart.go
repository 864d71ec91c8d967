// internal/cart/cart.go
//
// Selection State: the in-memory set of dishes for one in-progress order.
// At most one selection per category, quantity is always one per line.
// The cart is never persisted; it lives for the duration of building a
// single order and is cleared on placement, cancellation or logout.

package cart

import "frog-counter/internal/menu"

// Cart holds the current selection in insertion order.
type Cart struct {
	items []menu.Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends an item to the selection. Rejections are silent no-ops:
// an unavailable item never enters the cart, and a category already
// represented by a different item stays as it is. Re-adding the current
// selection for a category changes nothing. Reports whether the item is
// in the cart afterwards.
func (c *Cart) Add(item menu.Item) bool {
	if c.Contains(item.ID) {
		return true
	}
	if !item.IsAvailable {
		return false
	}
	if c.CategoryOccupied(item.Category) {
		return false
	}
	c.items = append(c.items, item)
	return true
}

// Remove drops the matching entry if present.
func (c *Cart) Remove(itemID int) {
	for i, item := range c.items {
		if item.ID == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Contains reports whether the item is selected.
func (c *Cart) Contains(itemID int) bool {
	for _, item := range c.items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// CategoryOccupied reports whether any selection already covers the
// category.
func (c *Cart) CategoryOccupied(category string) bool {
	for _, item := range c.items {
		if item.Category == category {
			return true
		}
	}
	return false
}

// Clear empties the selection.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a snapshot copy of the selection in insertion order.
func (c *Cart) Items() []menu.Item {
	out := make([]menu.Item, len(c.items))
	copy(out, c.items)
	return out
}

// IDs returns the selected item ids in insertion order.
func (c *Cart) IDs() []int {
	out := make([]int, len(c.items))
	for i, item := range c.items {
		out[i] = item.ID
	}
	return out
}

// Len returns the number of selected items.
func (c *Cart) Len() int {
	return len(c.items)
}
