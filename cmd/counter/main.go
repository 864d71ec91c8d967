// cmd/counter/main.go
//
// This is the entry point for the counter client.
//
// Flow:
// 1. Initialize the .counter folder next to the current directory
// 2. Load configuration (file, .env, environment)
// 3. Wire the session store, API client and logbook together
// 4. Launch the TUI

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"frog-counter/internal/api"
	"frog-counter/internal/config"
	"frog-counter/internal/logbook"
	"frog-counter/internal/session"
	"frog-counter/internal/tui"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitCounterDir(cwd); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .counter directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.New(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	book, err := logbook.New(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening logbook: %v\n", err)
		os.Exit(1)
	}

	// The session store survives restarts; the client reads its token
	// lazily so a login mid-run is picked up by the next request, and a
	// 401 invalidates the stored session before the UI redraws.
	store := session.NewStore(cfg.StateDir())
	client := api.NewClient(
		cfg.BaseURL(),
		cfg.RequestTimeout(),
		store.Token,
		api.WithAuthExpiredHook(store.Invalidate),
	)

	p := tea.NewProgram(
		tui.NewApp(cfg, store, client, book),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
