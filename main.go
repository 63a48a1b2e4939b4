// studyhall TUI - A terminal client for the StudyHall learning platform.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studyhall-tui/internal/api"
	"github.com/jeranaias/studyhall-tui/internal/auth"
	"github.com/jeranaias/studyhall-tui/internal/chat"
	"github.com/jeranaias/studyhall-tui/internal/config"
	"github.com/jeranaias/studyhall-tui/internal/history"
	"github.com/jeranaias/studyhall-tui/internal/ui"
	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	serverURL := flag.String("server", "", "override the platform base URL")
	flag.Parse()

	if *showVersion {
		fmt.Printf("studyhall %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg := config.Global()
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	store := auth.NewFileTokenStore(cfg.TokenPath())

	client := api.NewClient(cfg.Server.BaseURL, store).
		WithTimeout(cfg.Timeout()).
		WithMaxRetries(cfg.Server.MaxRetries)

	authSession := auth.NewSession(store, client)
	chatSession := chat.NewSession(client)

	// History is best effort. A broken store disables archiving but never
	// blocks the client.
	var histStore *history.Store
	if cfg.Storage.HistoryEnabled {
		hs, err := history.Open(cfg.HistoryPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: conversation history disabled: %v\n", err)
		} else {
			histStore = hs
		}
	}
	defer func() {
		if histStore != nil {
			histStore.Close()
		}
	}()

	ctx := &ui.Ctx{
		Cfg:     cfg,
		Theme:   styles.NewTheme(),
		Auth:    authSession,
		Chat:    chatSession,
		API:     client,
		History: histStore,
	}

	p := tea.NewProgram(ui.NewApp(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running studyhall: %v\n", err)
		os.Exit(1)
	}
}
