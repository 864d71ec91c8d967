// internal/orders/orders.go
//
// Order Lifecycle Controller: places orders from the current selection,
// drives staff status transitions, and keeps two read projections in sync
// with the backend. The backend stays the single source of truth: local
// state only changes after the server confirms, so a failed mutation
// leaves everything exactly as it was.
//
// The UI runs network calls in background commands, so every operation is
// split in two: a network phase that only talks to the backend and
// returns what the server echoed, and an apply phase (SetActive, Apply,
// DropAll) that the event loop invokes with that result. Local state is
// only ever touched from the apply phase, which keeps all transitions on
// a single goroutine.

package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"frog-counter/internal/api"
	"frog-counter/internal/cart"
	"frog-counter/internal/menu"
)

// ErrEmptyCart is returned when placement is attempted on an empty
// selection. No request is issued.
var ErrEmptyCart = errors.New("orders: selection is empty")

// UnavailableItemsError names every selected item whose availability
// snapshot was false at placement time. The selection is left untouched
// so the customer can fix it in place.
type UnavailableItemsError struct {
	Names []string
}

func (e *UnavailableItemsError) Error() string {
	return fmt.Sprintf("orders: unavailable items: %s", strings.Join(e.Names, ", "))
}

// StatusChange is the result of a status transition, carried back to the
// event loop and applied there.
type StatusChange struct {
	OrderID int
	Updated api.Order
	Purged  bool
}

// Controller owns the active order list and mediates the quantity side
// of the menu catalog.
type Controller struct {
	client  *api.Client
	catalog *menu.Catalog
	active  []api.Order
}

// NewController builds a controller over the given transport and catalog.
func NewController(client *api.Client, catalog *menu.Catalog) *Controller {
	return &Controller{client: client, catalog: catalog}
}

// ValidateSelection checks the selection against the current catalog and
// returns the item ids to submit. It reads the cart and the catalog, so
// it must run on the event loop, before the network phase is kicked off.
//
// The availability snapshot is taken at validation time: the catalog may
// have been reloaded since the item was selected, and the fresher value
// wins. Items that fell out of the catalog keep their selection-time
// snapshot.
func (c *Controller) ValidateSelection(sel *cart.Cart) ([]int, error) {
	items := sel.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	var unavailable []string
	for _, item := range items {
		snapshot := item.IsAvailable
		if cached, ok := c.catalog.Get(item.ID); ok {
			snapshot = cached.IsAvailable
		}
		if !snapshot {
			unavailable = append(unavailable, item.DishName)
		}
	}
	if len(unavailable) > 0 {
		return nil, &UnavailableItemsError{Names: unavailable}
	}
	return sel.IDs(), nil
}

// Submit flushes a validated selection into one new order.
//
// The whole selection is submitted atomically from the caller's view:
// create the order, then attach every selected item. The caller clears
// the cart only after both calls succeed. If the order was created but
// the attach failed, the error says so, rather than silently losing the
// customer's picks.
func (c *Controller) Submit(ctx context.Context, itemIDs []int) (api.Order, error) {
	if len(itemIDs) == 0 {
		return api.Order{}, ErrEmptyCart
	}
	order, err := c.client.CreateOrder(ctx)
	if err != nil {
		return api.Order{}, err
	}
	if err := c.client.AttachItems(ctx, order.ID, itemIDs); err != nil {
		return api.Order{}, fmt.Errorf("orders: order %d created but items not attached: %w", order.ID, err)
	}
	return order, nil
}

// FetchActive re-reads the active order list from the backend. The
// result is handed to SetActive by the event loop.
func (c *Controller) FetchActive(ctx context.Context) ([]api.Order, error) {
	return c.client.Orders(ctx)
}

// SetActive installs a freshly fetched order list. Apply phase.
func (c *Controller) SetActive(orders []api.Order) {
	c.active = orders
}

// Active returns a copy of the active order list.
func (c *Controller) Active() []api.Order {
	out := make([]api.Order, len(c.active))
	copy(out, c.active)
	return out
}

// AdvanceStatus moves an order to the given status and returns the
// change for the event loop to apply.
//
// Non-terminal targets echo the server's representation back. Delivered
// is a two-step purge: update the status, then delete the order; the
// purge is reported only after both calls succeed, so a failed delete
// never leaves the caller assuming the order is gone. Any status jump is
// accepted, the backend imposes no monotonicity and neither does the
// controller.
func (c *Controller) AdvanceStatus(ctx context.Context, orderID int, next Status) (StatusChange, error) {
	updated, err := c.client.UpdateOrderStatus(ctx, orderID, int(next))
	if err != nil {
		return StatusChange{}, err
	}
	if !next.Terminal() {
		return StatusChange{OrderID: orderID, Updated: updated}, nil
	}
	if err := c.client.DeleteOrder(ctx, orderID); err != nil {
		return StatusChange{}, fmt.Errorf("orders: order %d marked delivered but not purged: %w", orderID, err)
	}
	return StatusChange{OrderID: orderID, Purged: true}, nil
}

// Apply folds a status change into the active list. Apply phase.
func (c *Controller) Apply(change StatusChange) {
	if change.Purged {
		c.remove(change.OrderID)
		return
	}
	c.replace(change.OrderID, change.Updated)
}

// ClearAll bulk-removes every active order on the backend. End-of-day
// reset, no undo. The event loop calls DropAll once this succeeds.
func (c *Controller) ClearAll(ctx context.Context) error {
	return c.client.ClearOrders(ctx)
}

// DropAll empties the local active list. Apply phase.
func (c *Controller) DropAll() {
	c.active = nil
}

// AdjustQuantity sets a menu item's remaining quantity. Availability is
// derived as quantity > 0 and pushed in the same update, never as a
// separate toggle, so the two can never disagree. The server's echo is
// returned for the event loop to fold into the catalog.
func (c *Controller) AdjustQuantity(ctx context.Context, item menu.Item, quantity int) (menu.Item, error) {
	if quantity < 0 {
		return menu.Item{}, fmt.Errorf("orders: quantity must be >= 0, got %d", quantity)
	}
	item.QuantityLeft = quantity
	item.IsAvailable = quantity > 0
	return c.client.UpdateMenuItem(ctx, item.ID, item)
}

// Board reads the display projection and partitions it for the public
// board.
func (c *Controller) Board(ctx context.Context) (cooking, ready []api.BoardOrder, err error) {
	orders, err := c.client.BoardOrders(ctx)
	if err != nil {
		return nil, nil, err
	}
	cooking, ready = Partition(orders)
	return cooking, ready, nil
}

// Partition splits board orders into the cooking and ready buckets.
// Orders in any other status land in neither: only these two are
// surfaced to the public board.
func Partition(orders []api.BoardOrder) (cooking, ready []api.BoardOrder) {
	for _, order := range orders {
		switch order.Status {
		case StatusCooking.Label():
			cooking = append(cooking, order)
		case StatusReady.Label():
			ready = append(ready, order)
		}
	}
	return cooking, ready
}

func (c *Controller) replace(orderID int, updated api.Order) {
	for i, order := range c.active {
		if order.ID == orderID {
			c.active[i] = updated
			return
		}
	}
}

func (c *Controller) remove(orderID int) {
	for i, order := range c.active {
		if order.ID == orderID {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return
		}
	}
}
