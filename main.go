package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quasar/mclaunch/internal/app"
	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/ui"
)

func main() {
	dataDir := config.DefaultDataDir()
	settingsPath := config.SettingsPath(dataDir)

	settings, err := config.Load(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}
	ui.ApplyTheme(settings.Theme)

	gameDir := config.DefaultGameDir()
	if err := config.EnsureGameDirs(gameDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing game directory: %v\n", err)
		os.Exit(1)
	}

	model := app.New(settings, settingsPath, dataDir, gameDir)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
