// internal/tui/login.go
//
// The sign-in screen. On success the session store takes over and the
// access gate's fallback decides which screen the role lands on.

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginForm struct {
	username textinput.Model
	password textinput.Model
	focus    int
	err      string
	busy     bool
}

func newLoginForm() loginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	return loginForm{username: username, password: password}
}

func (f *loginForm) focusCmd() tea.Cmd {
	f.focus = 0
	return f.username.Focus()
}

func (f *loginForm) toggleFocus() tea.Cmd {
	if f.focus == 0 {
		f.focus = 1
		f.username.Blur()
		return f.password.Focus()
	}
	f.focus = 0
	f.password.Blur()
	return f.username.Focus()
}

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.login.busy {
		return a, nil
	}
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		return a, a.login.toggleFocus()
	case "enter":
		username := strings.TrimSpace(a.login.username.Value())
		password := a.login.password.Value()
		if username == "" || password == "" {
			a.login.err = "Both username and password are required."
			return a, nil
		}
		a.login.busy = true
		a.login.err = ""
		return a, a.submitLogin(username, password)
	case "esc", "ctrl+q":
		return a, tea.Quit
	}

	var cmd tea.Cmd
	if a.login.focus == 0 {
		a.login.username, cmd = a.login.username.Update(msg)
	} else {
		a.login.password, cmd = a.login.password.Update(msg)
	}
	return a, cmd
}

func (a *App) submitLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.client.Login(context.Background(), username, password)
		return loginDoneMsg{result: result, err: err}
	}
}

func (a *App) renderLogin() string {
	title := lipgloss.NewStyle().Bold(true).Render("Sign in required")
	lines := []string{
		title,
		"",
		"Login:    " + a.login.username.View(),
		"Password: " + a.login.password.View(),
	}
	if a.login.busy {
		lines = append(lines, "", "Signing in...")
	}
	if a.login.err != "" {
		errLine := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render(a.login.err)
		lines = append(lines, "", errLine)
	}
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("Enter → sign in    Tab → switch field    Esc → quit")
	lines = append(lines, "", hint)
	return strings.Join(lines, "\n")
}
