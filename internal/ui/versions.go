package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quasar/mclaunch/internal/catalog"
	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/core"
)

// VersionsModel is the catalog tab: every known version, installed or
// not, with install, delete, and favorite actions.
type VersionsModel struct {
	list     list.Model
	entries  []catalog.Entry
	settings *config.Settings
	latest   core.VersionID

	showSnaps bool
	loading   bool
	spinner   spinner.Model
	width     int
	height    int
	keys      versionsKeyMap
}

type versionsKeyMap struct {
	Select        key.Binding
	Install       key.Binding
	InstallLoader key.Binding
	Delete        key.Binding
	Favorite      key.Binding
	Loader        key.Binding
	Snapshots     key.Binding
	Refresh       key.Binding
}

func defaultVersionsKeyMap() versionsKeyMap {
	return versionsKeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Install: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "install"),
		),
		InstallLoader: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "install loader"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorite"),
		),
		Loader: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mod loader"),
		),
		Snapshots: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "snapshots"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// entryItem adapts a catalog entry to the list widget.
type entryItem struct {
	entry    catalog.Entry
	latest   bool
	selected bool
}

func (i entryItem) Title() string {
	title := i.entry.ID.String()
	if i.latest {
		title += " ★"
	}
	if i.entry.Favorite {
		title += " ♥"
	}
	if i.selected {
		title += " ◂"
	}
	return title
}

func (i entryItem) Description() string {
	parts := []string{string(i.entry.Type)}
	if !i.entry.ReleaseTime.IsZero() {
		parts = append(parts, i.entry.ReleaseTime.Format("Jan 2006"))
	}
	if i.entry.Installed {
		parts = append(parts, "installed")
	}
	return strings.Join(parts, " • ")
}

func (i entryItem) FilterValue() string { return i.entry.ID.String() }

// NewVersionsModel creates the versions tab over the shared settings.
func NewVersionsModel(settings *config.Settings) *VersionsModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderLeftForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorSecondary).
		BorderLeftForeground(ColorPrimary)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Versions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return &VersionsModel{
		list:     l,
		settings: settings,
		spinner:  sp,
		keys:     defaultVersionsKeyMap(),
		loading:  true,
	}
}

// SetCatalog replaces the entries shown.
func (m *VersionsModel) SetCatalog(entries []catalog.Entry, latest core.VersionID) {
	m.entries = entries
	m.latest = latest
	m.loading = false
	m.rebuild()
}

func (m *VersionsModel) rebuild() {
	var items []list.Item
	for _, entry := range m.entries {
		if !m.showSnaps && entry.Type != core.VersionTypeRelease && !entry.Installed && !entry.Favorite {
			continue
		}
		items = append(items, entryItem{
			entry:    entry,
			latest:   entry.ID == m.latest,
			selected: entry.ID.String() == m.settings.SelectedVersion,
		})
	}
	m.list.SetItems(items)
}

// Selected returns the highlighted catalog entry.
func (m *VersionsModel) Selected() *catalog.Entry {
	if item, ok := m.list.SelectedItem().(entryItem); ok {
		entry := item.entry
		return &entry
	}
	return nil
}

// SetSize updates dimensions.
func (m *VersionsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

// Editing reports whether the list filter is capturing keystrokes.
func (m *VersionsModel) Editing() bool {
	return m.list.FilterState() == list.Filtering
}

// Init implements tea.Model.
func (m *VersionsModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *VersionsModel) Update(msg tea.Msg) (*VersionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case CatalogLoaded:
		// Entries are usable even when the refresh failed; offline they
		// come from the installed scan alone.
		m.SetCatalog(msg.Entries, msg.Latest)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Select):
			if entry := m.Selected(); entry != nil {
				m.settings.SelectedVersion = entry.ID.String()
				m.rebuild()
				return m, func() tea.Msg { return SettingsChanged{} }
			}
		case key.Matches(msg, m.keys.Install):
			if entry := m.Selected(); entry != nil {
				id := entry.ID
				return m, func() tea.Msg { return RequestInstall{ID: id} }
			}
		case key.Matches(msg, m.keys.InstallLoader):
			if entry := m.Selected(); entry != nil {
				id := entry.ID
				return m, func() tea.Msg { return RequestInstallLoader{Base: id} }
			}
		case key.Matches(msg, m.keys.Delete):
			if entry := m.Selected(); entry != nil && entry.Installed {
				id := entry.ID
				return m, func() tea.Msg { return RequestDelete{ID: id} }
			}
		case key.Matches(msg, m.keys.Favorite):
			if entry := m.Selected(); entry != nil {
				m.settings.ToggleFavorite(entry.ID.String())
				for i := range m.entries {
					if m.entries[i].ID == entry.ID {
						m.entries[i].Favorite = !m.entries[i].Favorite
					}
				}
				m.rebuild()
				return m, func() tea.Msg { return SettingsChanged{} }
			}
		case key.Matches(msg, m.keys.Loader):
			m.settings.SelectedModLoader = nextLoader(m.settings.SelectedModLoader)
			return m, func() tea.Msg { return SettingsChanged{} }
		case key.Matches(msg, m.keys.Snapshots):
			m.showSnaps = !m.showSnaps
			m.rebuild()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, tea.Batch(
				m.spinner.Tick,
				func() tea.Msg { return RequestRefresh{} },
			)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func nextLoader(current core.LoaderType) core.LoaderType {
	loaders := core.Loaders()
	for i, l := range loaders {
		if l == current {
			return loaders[(i+1)%len(loaders)]
		}
	}
	return core.LoaderVanilla
}

// View implements tea.Model.
func (m *VersionsModel) View() string {
	if m.loading {
		return m.spinner.View() + HelpStyle.Render(" Loading versions...")
	}

	snaps := "off"
	if m.showSnaps {
		snaps = "on"
	}
	status := LabelStyle.Render("Loader ") + SelectedStyle.Render(string(m.settings.SelectedModLoader)) +
		LabelStyle.Render("  Snapshots ") + ValueStyle.Render(snaps)

	help := helpView([]string{
		"[enter] select", "[i] install", "[L] install loader", "[x] delete", "[f] favorite",
		"[m] loader: " + string(m.settings.SelectedModLoader), "[s] snapshots", "[r] refresh", "[/] search",
	}, m.width)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		status,
		help,
	)
}

// InstalledCount reports how many catalog entries are installed.
func (m *VersionsModel) InstalledCount() int {
	n := 0
	for _, e := range m.entries {
		if e.Installed {
			n++
		}
	}
	return n
}
