// internal/menu/menu.go
//
// Menu items and the per-load catalog. The backend owns the menu; the
// client keeps a read-through cache for one page load, deduplicated by
// dish name because the backend occasionally returns duplicate rows.

package menu

import "strings"

// Item is one dish on the menu. Availability is derived from the
// remaining quantity by whoever mutates it; the catalog never flips it
// on its own.
type Item struct {
	ID           int    `json:"id"`
	DishName     string `json:"dish_name"`
	Image        string `json:"image,omitempty"`
	IsAvailable  bool   `json:"is_available"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	QuantityLeft int    `json:"quantity_left"`
}

// Categories is the display order for the ordering screen.
var Categories = []string{"Drinks", "Snacks", "Salads", "Mains", "Desserts"}

// Catalog is the client-side menu cache.
//
// Invariant: at most one entry per dish name. When the backend hands back
// duplicates the first occurrence wins and later ones are dropped, which
// keeps every consumer (ordering screen, kitchen screen) on the same
// filtered view instead of each deduplicating on its own.
type Catalog struct {
	items []Item
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Reload replaces the cache with a fresh backend read, preserving backend
// order and applying the one-entry-per-name invariant.
func (c *Catalog) Reload(items []Item) {
	seen := make(map[string]struct{}, len(items))
	deduped := make([]Item, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.DishName))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, item)
	}
	c.items = deduped
}

// Items returns a copy of the cached menu.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of cached items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Get looks an item up by id.
func (c *Catalog) Get(id int) (Item, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// ByCategory returns the cached items in the given category, in cache
// order.
func (c *Catalog) ByCategory(category string) []Item {
	var out []Item
	for _, item := range c.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// Replace swaps in the server-confirmed representation of an item after a
// mutation. Returns false when the id is not cached.
func (c *Catalog) Replace(updated Item) bool {
	for i, item := range c.items {
		if item.ID == updated.ID {
			c.items[i] = updated
			return true
		}
	}
	return false
}
