package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies one screen of the launcher.
type Tab int

const (
	TabPlay Tab = iota
	TabVersions
	TabMods
	TabPacks
	TabServers
	TabProfiles
	TabStats
	TabSettings

	tabCount
)

var tabNames = [...]string{
	"Play",
	"Versions",
	"Mods",
	"Packs",
	"Servers",
	"Profiles",
	"Stats",
	"Settings",
}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "?"
	}
	return tabNames[t]
}

// Next cycles forward through the tabs.
func (t Tab) Next() Tab {
	return (t + 1) % tabCount
}

// Prev cycles backward through the tabs.
func (t Tab) Prev() Tab {
	return (t + tabCount - 1) % tabCount
}

// RenderTabBar draws the tab strip with the active tab highlighted.
func RenderTabBar(active Tab, width int) string {
	var cells []string
	for t := Tab(0); t < tabCount; t++ {
		if t == active {
			cells = append(cells, ActiveTabStyle.Render(t.String()))
		} else {
			cells = append(cells, InactiveTabStyle.Render(t.String()))
		}
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	if width > 0 && lipgloss.Width(bar) < width {
		bar += HelpStyle.Render(strings.Repeat(" ", width-lipgloss.Width(bar)))
	}
	return bar
}
