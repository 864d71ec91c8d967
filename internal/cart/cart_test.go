package cart

import (
	"testing"

	"frog-counter/internal/menu"
)

func available(id int, name, category string) menu.Item {
	return menu.Item{ID: id, DishName: name, Category: category, QuantityLeft: 1, IsAvailable: true}
}

func TestAddRejectsSecondItemInCategory(t *testing.T) {
	c := New()
	a := available(1, "Pond Water", "Drinks")
	b := available(2, "Swamp Juice", "Drinks")
	if !c.Add(a) {
		t.Fatalf("first add should succeed")
	}
	if c.Add(b) {
		t.Fatalf("second item in occupied category must be rejected")
	}
	if c.Len() != 1 || !c.Contains(1) || c.Contains(2) {
		t.Fatalf("cart changed on rejected add: %+v", c.Items())
	}
}

func TestAddUnavailableIsNoOp(t *testing.T) {
	c := New()
	item := menu.Item{ID: 1, DishName: "Fly Soup", Category: "Mains", IsAvailable: false}
	before := c.Items()
	if c.Add(item) {
		t.Fatalf("unavailable item must not enter the cart")
	}
	if c.Len() != len(before) {
		t.Fatalf("rejected add changed the cart")
	}
}

func TestAddSameItemTwiceKeepsOneLine(t *testing.T) {
	c := New()
	item := available(1, "Pond Water", "Drinks")
	c.Add(item)
	if !c.Add(item) {
		t.Fatalf("re-adding the current selection should report it present")
	}
	if c.Len() != 1 {
		t.Fatalf("expected a single line, got %d", c.Len())
	}
}

func TestRemoveFreesCategory(t *testing.T) {
	c := New()
	c.Add(available(1, "Pond Water", "Drinks"))
	c.Remove(1)
	if c.CategoryOccupied("Drinks") {
		t.Fatalf("category should be free after remove")
	}
	if !c.Add(available(2, "Swamp Juice", "Drinks")) {
		t.Fatalf("replacement selection should be accepted")
	}
	c.Remove(99) // unknown id is a no-op
	if c.Len() != 1 {
		t.Fatalf("unexpected cart size %d", c.Len())
	}
}

func TestNoSequenceProducesCategoryConflict(t *testing.T) {
	c := New()
	items := []menu.Item{
		available(1, "Pond Water", "Drinks"),
		available(2, "Swamp Juice", "Drinks"),
		available(3, "Fly Soup", "Mains"),
		available(4, "Cricket Roast", "Mains"),
		available(5, "Mud Cake", "Desserts"),
	}
	// Arbitrary add/remove interleaving; the invariant must hold after
	// every step.
	ops := []func(){
		func() { c.Add(items[0]) },
		func() { c.Add(items[1]) },
		func() { c.Add(items[2]) },
		func() { c.Remove(1) },
		func() { c.Add(items[1]) },
		func() { c.Add(items[3]) },
		func() { c.Add(items[4]) },
		func() { c.Remove(3) },
		func() { c.Add(items[3]) },
	}
	for i, op := range ops {
		op()
		seen := map[string]int{}
		for _, item := range c.Items() {
			seen[item.Category]++
			if seen[item.Category] > 1 {
				t.Fatalf("after op %d category %q has %d items", i, item.Category, seen[item.Category])
			}
		}
	}
}

func TestClearAndSnapshots(t *testing.T) {
	c := New()
	c.Add(available(1, "Pond Water", "Drinks"))
	c.Add(available(3, "Fly Soup", "Mains"))
	ids := c.IDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("wrong insertion order: %v", ids)
	}
	snapshot := c.Items()
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("clear left %d items", c.Len())
	}
	if len(snapshot) != 2 {
		t.Fatalf("snapshot must be independent of the live cart")
	}
}
