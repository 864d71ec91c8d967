// internal/tui/app.go
//
// The terminal UI for the counter client. It uses bubbletea, which
// follows The Elm Architecture: the App model holds all state, Update
// reacts to messages, View renders to a string.
//
// Screens map onto the access routes: login, order (customers), kitchen
// (staff) and board (the public display). The access gate is re-checked
// on every transition and again on every render, so a logout takes
// effect on the very next frame.

package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"frog-counter/internal/access"
	"frog-counter/internal/api"
	"frog-counter/internal/cart"
	"frog-counter/internal/config"
	"frog-counter/internal/logbook"
	"frog-counter/internal/menu"
	"frog-counter/internal/orders"
	"frog-counter/internal/session"
)

// appState represents which screen we're on.
type appState int

const (
	stateLogin   appState = iota // Username/password form
	stateOrder                   // Customer ordering screen
	stateKitchen                 // Staff order management
	stateBoard                   // Public display board
)

// App is the main application model.
type App struct {
	cfg    *config.Config
	store  *session.Store
	client *api.Client
	book   *logbook.Logbook

	catalog   *menu.Catalog
	selection *cart.Cart
	control   *orders.Controller

	state     appState
	width     int
	height    int
	statusMsg string

	login loginForm

	// Ordering screen
	menuRows    []menuRow
	menuCursor  int
	confirmOpen bool
	placing     bool
	orderErr    string

	// Kitchen screen
	kitchenFocus  kitchenFocus
	orderCursor   int
	itemCursor    int
	mutationBusy  bool
	clearArmed    bool
	quantityEdit  bool
	quantityValue string

	// Board screen
	boardGen     int
	boardCooking []api.BoardOrder
	boardReady   []api.BoardOrder
	boardErr     string
}

// Messages produced by commands.
type (
	loginDoneMsg struct {
		result api.LoginResult
		err    error
	}
	menuLoadedMsg struct {
		items []menu.Item
		err   error
	}
	ordersLoadedMsg struct {
		orders []api.Order
		err    error
	}
	orderPlacedMsg struct {
		order api.Order
		err   error
	}
	statusChangedMsg struct {
		change orders.StatusChange
		err    error
	}
	ordersClearedMsg struct{ err error }
	quantitySetMsg struct {
		item menu.Item
		err  error
	}
	boardTickMsg   struct{ gen int }
	boardLoadedMsg struct {
		gen     int
		cooking []api.BoardOrder
		ready   []api.BoardOrder
		err     error
	}
)

// NewApp builds the application model. The starting screen is resolved
// through the access gate, so a persisted session skips the login form.
func NewApp(cfg *config.Config, store *session.Store, client *api.Client, book *logbook.Logbook) *App {
	catalog := menu.NewCatalog()
	a := &App{
		cfg:       cfg,
		store:     store,
		client:    client,
		book:      book,
		catalog:   catalog,
		selection: cart.New(),
		control:   orders.NewController(client, catalog),
		login:     newLoginForm(),
	}
	a.state = stateLogin
	return a
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	if a.store.Authenticated() {
		a.book.Info("Session restored (%s)", a.store.Current().Role)
		return a.navigate(stateForRoute(access.Fallback(a.store.Current())))
	}
	return a.login.focusCmd()
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case loginDoneMsg:
		return a.handleLoginDone(msg)

	case menuLoadedMsg:
		if msg.err != nil {
			a.statusMsg = humanError(msg.err)
			a.book.Warn("Menu load failed: %v", msg.err)
			return a, nil
		}
		a.catalog.Reload(msg.items)
		a.rebuildMenuRows()
		return a, nil

	case ordersLoadedMsg:
		if msg.err != nil {
			a.statusMsg = humanError(msg.err)
			a.book.Warn("Order list load failed: %v", msg.err)
		} else {
			a.control.SetActive(msg.orders)
		}
		a.clampKitchenCursor()
		return a, nil

	case orderPlacedMsg:
		a.placing = false
		if msg.err != nil {
			a.orderErr = humanError(msg.err)
			a.book.Warn("Order placement failed: %v", msg.err)
			return a, nil
		}
		a.confirmOpen = false
		a.orderErr = ""
		a.selection.Clear()
		a.statusMsg = fmt.Sprintf("Order #%d placed. Watch the board for its status.", msg.order.ID)
		a.book.Info("Order #%d placed", msg.order.ID)
		return a, nil

	case statusChangedMsg:
		a.mutationBusy = false
		if msg.err != nil {
			a.statusMsg = humanError(msg.err)
			a.book.Warn("Status update failed: %v", msg.err)
		} else {
			a.control.Apply(msg.change)
		}
		a.clampKitchenCursor()
		return a, nil

	case ordersClearedMsg:
		a.mutationBusy = false
		if msg.err != nil {
			a.statusMsg = humanError(msg.err)
			a.book.Warn("Clear-all failed: %v", msg.err)
		} else {
			a.control.DropAll()
			a.statusMsg = "All orders cleared."
		}
		a.clampKitchenCursor()
		return a, nil

	case quantitySetMsg:
		a.mutationBusy = false
		if msg.err != nil {
			a.statusMsg = humanError(msg.err)
			a.book.Warn("Quantity update failed: %v", msg.err)
		} else {
			a.catalog.Replace(msg.item)
		}
		return a, nil

	case boardTickMsg:
		// A tick from a torn-down board view carries a stale generation
		// and is dropped without scheduling a successor.
		if msg.gen != a.boardGen || a.state != stateBoard {
			return a, nil
		}
		return a, tea.Batch(a.fetchBoard(msg.gen), a.scheduleBoardPoll(msg.gen))

	case boardLoadedMsg:
		if msg.gen != a.boardGen || a.state != stateBoard {
			return a, nil
		}
		if msg.err != nil {
			// Keep the previous board; the next tick retries.
			a.boardErr = humanError(msg.err)
			return a, nil
		}
		a.boardErr = ""
		a.boardCooking = msg.cooking
		a.boardReady = msg.ready
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+l":
		if a.state != stateLogin {
			return a, a.logout()
		}
	}

	switch a.state {
	case stateLogin:
		return a.updateLogin(msg)
	case stateOrder:
		return a.updateOrder(msg)
	case stateKitchen:
		return a.updateKitchen(msg)
	case stateBoard:
		return a.updateBoard(msg)
	}
	return a, nil
}

func (a *App) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	a.login.busy = false
	if msg.err != nil {
		a.login.err = humanError(msg.err)
		a.book.Warn("Login failed: %v", msg.err)
		return a, nil
	}
	role, ok := session.RoleFromID(msg.result.RoleID)
	if !ok {
		a.login.err = fmt.Sprintf("Unknown role %d in login response", msg.result.RoleID)
		return a, nil
	}
	if err := a.store.Login(msg.result.AccessToken, role); err != nil {
		a.login.err = err.Error()
		return a, nil
	}
	a.book.Info("Signed in as %s", role)
	a.login = newLoginForm()
	return a, a.navigate(stateForRoute(access.Fallback(a.store.Current())))
}

func (a *App) logout() tea.Cmd {
	if err := a.store.Logout(); err != nil {
		a.book.Warn("Logout cleanup failed: %v", err)
	} else {
		a.book.Info("Signed out")
	}
	a.selection.Clear()
	a.statusMsg = "Signed out."
	return a.navigate(stateLogin)
}

// guard resolves where a transition actually lands once the access gate
// has had its say.
func (a *App) guard(target appState) appState {
	sess := a.store.Current()
	var d access.Decision
	switch target {
	case stateLogin:
		return stateLogin
	case stateOrder:
		d = access.Decide(sess)
	case stateKitchen:
		d = access.Decide(sess, session.RoleAdmin)
	case stateBoard:
		d = access.Decide(sess, session.RoleAdmin, session.RoleDisplay)
	default:
		return stateLogin
	}
	if d.Allow {
		return target
	}
	return stateForRoute(d.Redirect)
}

// navigate moves to the target screen (as resolved by the gate) and
// kicks off that screen's data loads. Leaving the board bumps the poll
// generation so outstanding ticks die quietly.
func (a *App) navigate(target appState) tea.Cmd {
	resolved := a.guard(target)
	a.boardGen++
	a.state = resolved
	a.confirmOpen = false
	a.clearArmed = false
	a.quantityEdit = false
	switch resolved {
	case stateLogin:
		a.login = newLoginForm()
		return a.login.focusCmd()
	case stateOrder:
		return a.fetchMenu()
	case stateKitchen:
		return tea.Batch(a.fetchMenu(), a.fetchOrders())
	case stateBoard:
		gen := a.boardGen
		return tea.Batch(a.fetchBoard(gen), a.scheduleBoardPoll(gen))
	}
	return nil
}

func stateForRoute(route access.Route) appState {
	switch route {
	case access.RouteOrder:
		return stateOrder
	case access.RouteKitchen:
		return stateKitchen
	case access.RouteBoard:
		return stateBoard
	default:
		return stateLogin
	}
}

// Commands.

func (a *App) fetchMenu() tea.Cmd {
	return func() tea.Msg {
		items, err := a.client.Menu(context.Background())
		return menuLoadedMsg{items: items, err: err}
	}
}

func (a *App) fetchOrders() tea.Cmd {
	return func() tea.Msg {
		list, err := a.control.FetchActive(context.Background())
		return ordersLoadedMsg{orders: list, err: err}
	}
}

func (a *App) fetchBoard(gen int) tea.Cmd {
	return func() tea.Msg {
		cooking, ready, err := a.control.Board(context.Background())
		return boardLoadedMsg{gen: gen, cooking: cooking, ready: ready, err: err}
	}
}

// View renders the current state to a string. The gate runs again here:
// if access was revoked since the last transition the frame renders the
// login screen instead of the stale one.
func (a *App) View() string {
	if resolved := a.guard(a.state); resolved != a.state {
		a.boardGen++
		a.state = resolved
	}

	var content string
	switch a.state {
	case stateLogin:
		content = a.renderLogin()
	case stateOrder:
		content = a.renderOrder()
	case stateKitchen:
		content = a.renderKitchen()
	case stateBoard:
		content = a.renderBoard()
	}
	return a.renderFrame(content)
}

func (a *App) renderFrame(content string) string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7BC86C")).
		MarginBottom(1).
		Render("◉ FROG COUNTER")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(40, width-2)).
		Render(content)
	sections := []string{header, box}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.book == nil {
		return ""
	}
	lines := a.book.Tail(5)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", filepath.Base(a.book.Path())))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

// humanError turns transport and lifecycle errors into something a
// counter worker can act on. Backend 4xx details are shown verbatim,
// 5xx and network failures get generic retry wording.
func humanError(err error) string {
	var rejected *api.RejectedError
	switch {
	case errors.Is(err, api.ErrAuthRequired):
		return "Session expired. Please sign in again."
	case errors.Is(err, api.ErrServerFault):
		return "Server error. Please try again later."
	case errors.Is(err, api.ErrNetworkUnreachable):
		return "Cannot reach the counter service."
	case errors.As(err, &rejected):
		if rejected.Detail != "" {
			return rejected.Detail
		}
		return "The request was rejected."
	case errors.Is(err, orders.ErrEmptyCart):
		return "Your selection is empty. Pick something first."
	}
	var unavailable *orders.UnavailableItemsError
	if errors.As(err, &unavailable) {
		return fmt.Sprintf("Sold out: %s. Remove them to continue.", strings.Join(unavailable.Names, ", "))
	}
	return err.Error()
}
