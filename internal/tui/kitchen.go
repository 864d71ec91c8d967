// internal/tui/kitchen.go
//
// The staff screen: the active order list with status controls on one
// side, menu quantity management on the other. Status mutations are
// serialized, a second one cannot be issued until the first has echoed
// back, so two updates for one order can never interleave.

package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"frog-counter/internal/orders"
)

type kitchenFocus int

const (
	focusOrders kitchenFocus = iota
	focusMenu
)

func (a *App) updateKitchen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.quantityEdit {
		return a.updateQuantityEdit(msg)
	}
	key := msg.String()

	// Clear-all wants a second keypress as confirmation.
	if a.clearArmed {
		switch key {
		case "y":
			a.clearArmed = false
			if a.mutationBusy {
				return a, nil
			}
			a.mutationBusy = true
			a.statusMsg = "Clearing all orders..."
			return a, a.clearAllOrders()
		default:
			a.clearArmed = false
			a.statusMsg = "Clear-all cancelled."
			return a, nil
		}
	}

	switch key {
	case "tab":
		if a.kitchenFocus == focusOrders {
			a.kitchenFocus = focusMenu
		} else {
			a.kitchenFocus = focusOrders
		}
	case "up", "k":
		a.moveKitchenCursor(-1)
	case "down", "j":
		a.moveKitchenCursor(1)
	case "1", "2", "3", "4":
		if a.kitchenFocus != focusOrders {
			return a, nil
		}
		id, _ := strconv.Atoi(key)
		status, _ := orders.StatusFromID(id)
		return a, a.advanceSelected(status)
	case "enter":
		if a.kitchenFocus == focusMenu {
			a.beginQuantityEdit()
		}
	case "C":
		a.clearArmed = true
		a.statusMsg = "Clear ALL orders? Press y to confirm."
	case "r":
		if a.mutationBusy {
			a.statusMsg = "Previous update still in flight."
			return a, nil
		}
		a.statusMsg = "Refreshing..."
		return a, tea.Batch(a.fetchOrders(), a.fetchMenu())
	case "b":
		return a, a.navigate(stateBoard)
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) advanceSelected(next orders.Status) tea.Cmd {
	active := a.control.Active()
	if len(active) == 0 || a.orderCursor >= len(active) {
		return nil
	}
	if a.mutationBusy {
		a.statusMsg = "Previous update still in flight."
		return nil
	}
	order := active[a.orderCursor]
	a.mutationBusy = true
	a.statusMsg = fmt.Sprintf("Order #%d → %s...", order.ID, next.Label())
	return func() tea.Msg {
		change, err := a.control.AdvanceStatus(context.Background(), order.ID, next)
		return statusChangedMsg{change: change, err: err}
	}
}

func (a *App) clearAllOrders() tea.Cmd {
	return func() tea.Msg {
		return ordersClearedMsg{err: a.control.ClearAll(context.Background())}
	}
}

func (a *App) beginQuantityEdit() {
	items := a.catalog.Items()
	if len(items) == 0 || a.itemCursor >= len(items) {
		return
	}
	a.quantityEdit = true
	a.quantityValue = strconv.Itoa(items[a.itemCursor].QuantityLeft)
}

func (a *App) updateQuantityEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.quantityEdit = false
	case "enter":
		a.quantityEdit = false
		quantity, err := strconv.Atoi(strings.TrimSpace(a.quantityValue))
		if err != nil || quantity < 0 {
			a.statusMsg = "Quantity must be a whole number >= 0."
			return a, nil
		}
		items := a.catalog.Items()
		if a.itemCursor >= len(items) {
			return a, nil
		}
		if a.mutationBusy {
			a.statusMsg = "Previous update still in flight."
			return a, nil
		}
		item := items[a.itemCursor]
		a.mutationBusy = true
		return a, func() tea.Msg {
			echo, err := a.control.AdjustQuantity(context.Background(), item, quantity)
			return quantitySetMsg{item: echo, err: err}
		}
	case "backspace":
		if len(a.quantityValue) > 0 {
			a.quantityValue = a.quantityValue[:len(a.quantityValue)-1]
		}
	default:
		if len(msg.String()) == 1 && msg.String() >= "0" && msg.String() <= "9" {
			a.quantityValue += msg.String()
		}
	}
	return a, nil
}

func (a *App) moveKitchenCursor(delta int) {
	if a.kitchenFocus == focusOrders {
		a.orderCursor = clamp(a.orderCursor+delta, len(a.control.Active()))
		return
	}
	a.itemCursor = clamp(a.itemCursor+delta, a.catalog.Len())
}

func (a *App) clampKitchenCursor() {
	a.orderCursor = clamp(a.orderCursor, len(a.control.Active()))
	a.itemCursor = clamp(a.itemCursor, a.catalog.Len())
}

func clamp(value, length int) int {
	if length == 0 {
		return 0
	}
	if value < 0 {
		return 0
	}
	if value >= length {
		return length - 1
	}
	return value
}

func (a *App) renderKitchen() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	half := max(36, (width-8)/2)
	left := a.renderKitchenOrders()
	right := a.renderKitchenMenu()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(half).Render(left),
		"    ",
		lipgloss.NewStyle().Width(half).Render(right),
	)
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("1-4 → set status (4 = delivered, purges)    Tab → switch panel    Enter → edit quantity    C → clear all    b → board    Ctrl+L → sign out")
	return lipgloss.JoinVertical(lipgloss.Left, body, hint)
}

func (a *App) renderKitchenOrders() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	active := a.control.Active()
	lines := []string{titleStyle.Render(fmt.Sprintf("Active orders (%d)", len(active)))}
	if len(active) == 0 {
		lines = append(lines, "No active orders.")
		return strings.Join(lines, "\n")
	}
	for i, order := range active {
		status := order.Status
		if status == "" {
			if s, ok := orders.StatusFromID(order.StatusID); ok {
				status = s.Label()
			}
		}
		line := fmt.Sprintf("#%d · %s", order.ID, status)
		if !order.CreatedAt.IsZero() {
			line += " · " + order.CreatedAt.Format("15:04")
		}
		if a.kitchenFocus == focusOrders && i == a.orderCursor {
			line = lipgloss.NewStyle().Bold(true).Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
		for _, item := range order.Items {
			lines = append(lines, fmt.Sprintf("      %dx %s", item.Quantity, item.DishName))
		}
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderKitchenMenu() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	items := a.catalog.Items()
	lines := []string{titleStyle.Render("Menu quantities")}
	if len(items) == 0 {
		lines = append(lines, "Menu not loaded.")
		return strings.Join(lines, "\n")
	}
	for i, item := range items {
		quantity := strconv.Itoa(item.QuantityLeft)
		if a.quantityEdit && a.kitchenFocus == focusMenu && i == a.itemCursor {
			quantity = a.quantityValue + "▏"
		}
		availability := "available"
		if !item.IsAvailable {
			availability = "sold out"
		}
		line := fmt.Sprintf("%s · %s left · %s", item.DishName, quantity, availability)
		if a.kitchenFocus == focusMenu && i == a.itemCursor {
			line = lipgloss.NewStyle().Bold(true).Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
