// internal/tui/order.go
//
// The customer ordering screen: the menu grouped by category, the
// current selection, and the confirmation overlay that flushes the cart
// into one order.

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"frog-counter/internal/menu"
)

// menuRow is one rendered line on the ordering screen: either a category
// header or a selectable dish.
type menuRow struct {
	header string
	item   menu.Item
}

func (r menuRow) isHeader() bool { return r.header != "" }

// rebuildMenuRows flattens the catalog into display rows, known
// categories first in their fixed order, then anything the backend
// invented.
func (a *App) rebuildMenuRows() {
	known := make(map[string]struct{}, len(menu.Categories))
	var rows []menuRow
	appendCategory := func(category string) {
		items := a.catalog.ByCategory(category)
		if len(items) == 0 {
			return
		}
		rows = append(rows, menuRow{header: category})
		for _, item := range items {
			rows = append(rows, menuRow{item: item})
		}
	}
	for _, category := range menu.Categories {
		known[category] = struct{}{}
		appendCategory(category)
	}
	for _, item := range a.catalog.Items() {
		if _, ok := known[item.Category]; !ok {
			known[item.Category] = struct{}{}
			appendCategory(item.Category)
		}
	}
	a.menuRows = rows
	a.menuCursor = firstItemRow(rows)
}

func firstItemRow(rows []menuRow) int {
	for i, row := range rows {
		if !row.isHeader() {
			return i
		}
	}
	return 0
}

func (a *App) updateOrder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirmOpen {
		return a.updateOrderConfirm(msg)
	}
	switch msg.String() {
	case "up", "k":
		a.moveMenuCursor(-1)
	case "down", "j":
		a.moveMenuCursor(1)
	case "enter", " ":
		a.toggleSelection()
	case "c":
		if a.selection.Len() == 0 {
			a.statusMsg = "Your selection is empty. Pick something first."
			return a, nil
		}
		a.orderErr = ""
		a.confirmOpen = true
	case "r":
		a.statusMsg = "Reloading menu..."
		return a, a.fetchMenu()
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) updateOrderConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.placing {
		return a, nil
	}
	switch msg.String() {
	case "enter", "y":
		// Validation reads the selection and the catalog, so it runs
		// here on the event loop; the command only talks to the backend.
		ids, err := a.control.ValidateSelection(a.selection)
		if err != nil {
			a.orderErr = humanError(err)
			return a, nil
		}
		a.placing = true
		return a, a.placeOrder(ids)
	case "esc", "n":
		a.confirmOpen = false
		a.orderErr = ""
	}
	return a, nil
}

func (a *App) placeOrder(ids []int) tea.Cmd {
	return func() tea.Msg {
		order, err := a.control.Submit(context.Background(), ids)
		return orderPlacedMsg{order: order, err: err}
	}
}

func (a *App) moveMenuCursor(delta int) {
	next := a.menuCursor
	for {
		next += delta
		if next < 0 || next >= len(a.menuRows) {
			return
		}
		if !a.menuRows[next].isHeader() {
			a.menuCursor = next
			return
		}
	}
}

func (a *App) toggleSelection() {
	if a.menuCursor >= len(a.menuRows) {
		return
	}
	row := a.menuRows[a.menuCursor]
	if row.isHeader() {
		return
	}
	item := row.item
	if a.selection.Contains(item.ID) {
		a.selection.Remove(item.ID)
		return
	}
	if !item.IsAvailable {
		a.statusMsg = fmt.Sprintf("%s is sold out.", item.DishName)
		return
	}
	if a.selection.CategoryOccupied(item.Category) {
		a.statusMsg = fmt.Sprintf("You already picked a dish from %s.", item.Category)
		return
	}
	a.selection.Add(item)
	a.statusMsg = ""
}

func (a *App) renderOrder() string {
	if a.confirmOpen {
		return a.renderOrderConfirm()
	}
	if len(a.menuRows) == 0 {
		return "Loading menu..."
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	var lines []string
	for i, row := range a.menuRows {
		if row.isHeader() {
			lines = append(lines, headerStyle.Render(row.header+":"))
			continue
		}
		item := row.item
		marker := "[ ]"
		switch {
		case a.selection.Contains(item.ID):
			marker = "[x]"
		case !item.IsAvailable:
			marker = " - "
		}
		line := fmt.Sprintf("  %s %s", marker, item.DishName)
		switch {
		case !item.IsAvailable:
			line += "  (sold out)"
		case a.selection.CategoryOccupied(item.Category) && !a.selection.Contains(item.ID):
			line += "  (category taken)"
		default:
			line += fmt.Sprintf("  (%d left)", item.QuantityLeft)
		}
		if i == a.menuCursor {
			line = lipgloss.NewStyle().Bold(true).Render("▸" + line[1:])
		} else if !item.IsAvailable {
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", fmt.Sprintf("Selected: %d item(s)", a.selection.Len()))
	hint := dimStyle.Render("Enter → pick/unpick    c → confirm order    r → reload    Ctrl+L → sign out")
	lines = append(lines, hint)
	return strings.Join(lines, "\n")
}

func (a *App) renderOrderConfirm() string {
	title := lipgloss.NewStyle().Bold(true).Render("Confirm your order")
	var lines []string
	lines = append(lines, title, "")
	for _, item := range a.selection.Items() {
		lines = append(lines, fmt.Sprintf("  • %s (%s)", item.DishName, item.Category))
	}
	if a.orderErr != "" {
		errLine := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render(a.orderErr)
		lines = append(lines, "", errLine)
	}
	if a.placing {
		lines = append(lines, "", "Placing order...")
	}
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("Enter → place order    Esc → keep choosing")
	lines = append(lines, "", hint)
	return strings.Join(lines, "\n")
}
