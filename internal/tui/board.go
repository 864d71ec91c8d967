// internal/tui/board.go
//
// The public display board: two columns of in-flight orders, refreshed
// on a fixed timer. Created and delivered orders never appear here.

package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"frog-counter/internal/api"
	"frog-counter/internal/session"
)

// scheduleBoardPoll arms the next refresh tick. The tick carries the
// generation it was armed under; ticks from an abandoned board view are
// dropped in Update without re-arming, which is what stops the chain.
func (a *App) scheduleBoardPoll(gen int) tea.Cmd {
	return tea.Tick(a.cfg.PollInterval(), func(time.Time) tea.Msg {
		return boardTickMsg{gen: gen}
	})
}

func (a *App) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		return a, a.fetchBoard(a.boardGen)
	case "b", "esc":
		// Staff can hop back to the kitchen; the display role has
		// nowhere else to go.
		if a.store.Current().Role == session.RoleAdmin {
			return a, a.navigate(stateKitchen)
		}
		return a, nil
	case "q", "ctrl+c":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) renderBoard() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	half := max(36, (width-8)/2)

	cooking := renderBoardColumn("COOKING", a.boardCooking)
	ready := renderBoardColumn("READY", a.boardReady)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(half).Render(cooking),
		"  ",
		lipgloss.NewStyle().Width(half).Render(ready),
	)

	var footer string
	if a.boardErr != "" {
		footer = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E06C75")).
			Render("board: " + a.boardErr)
	} else {
		footer = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Render(fmt.Sprintf("Refreshing every %s  ·  r refresh now  ·  q quit", a.cfg.PollInterval()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", footer)
}

func renderBoardColumn(title string, boardOrders []api.BoardOrder) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	parts := []string{titleStyle.Render(title)}
	if len(boardOrders) == 0 {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Render("  (nothing here)"))
	}
	for _, order := range boardOrders {
		lines := []string{lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("#%d", order.ID))}
		for _, line := range order.Items {
			lines = append(lines, fmt.Sprintf("%dx %s", line.Quantity, line.DishName))
		}
		parts = append(parts, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
