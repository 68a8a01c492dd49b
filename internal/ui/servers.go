package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quasar/mclaunch/internal/config"
)

// ServersModel is the saved servers tab. Selecting an entry sets the
// join address the next launch connects to.
type ServersModel struct {
	settings *config.Settings

	list   list.Model
	adding bool
	input  textinput.Model

	width  int
	height int
	keys   serversKeyMap
}

type serversKeyMap struct {
	Select key.Binding
	Add    key.Binding
	Remove key.Binding
	Clear  key.Binding
}

func defaultServersKeyMap() serversKeyMap {
	return serversKeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "join on launch"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "direct connect off"),
		),
	}
}

// serverItem adapts a saved_servers entry to the list widget.
type serverItem struct {
	entry  string
	active bool
}

func (i serverItem) Title() string {
	if i.active {
		return i.entry + " ◂"
	}
	return i.entry
}

func (i serverItem) Description() string {
	host, port := config.SplitServerAddress(i.entry)
	if i.active {
		return host + " on port " + port + " • joining on launch"
	}
	return host + " on port " + port
}

func (i serverItem) FilterValue() string { return i.entry }

// NewServersModel creates the servers tab over the shared settings.
func NewServersModel(settings *config.Settings) *ServersModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderLeftForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorSecondary).
		BorderLeftForeground(ColorPrimary)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Servers"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "play.example.com:25565"
	ti.CharLimit = 256
	ti.Width = 40

	m := &ServersModel{
		settings: settings,
		list:     l,
		input:    ti,
		keys:     defaultServersKeyMap(),
	}
	m.rebuild()
	return m
}

func (m *ServersModel) rebuild() {
	active := ""
	if m.settings.ServerIP != "" {
		port := m.settings.ServerPort
		if port == "" {
			port = "25565"
		}
		active = m.settings.ServerIP + ":" + port
	}

	items := make([]list.Item, len(m.settings.SavedServers))
	for i, entry := range m.settings.SavedServers {
		items[i] = serverItem{entry: entry, active: entry == active}
	}
	m.list.SetItems(items)
}

// Refresh rebuilds the list after settings changed outside this tab.
func (m *ServersModel) Refresh() {
	m.rebuild()
}

func (m *ServersModel) selected() string {
	if item, ok := m.list.SelectedItem().(serverItem); ok {
		return item.entry
	}
	return ""
}

// SetSize updates dimensions.
func (m *ServersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

// Editing reports whether a text input is capturing keystrokes.
func (m *ServersModel) Editing() bool {
	return m.adding || m.list.FilterState() == list.Filtering
}

// Init implements tea.Model.
func (m *ServersModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ServersModel) Update(msg tea.Msg) (*ServersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.adding {
			switch msg.String() {
			case "enter":
				raw := strings.TrimSpace(m.input.Value())
				m.adding = false
				m.input.Blur()
				host, port, _ := strings.Cut(raw, ":")
				entry, added := m.settings.AddServer(host, port)
				if !added {
					if entry == "" {
						return m, flash("Server address is empty", true)
					}
					return m, flash(entry+" is already saved", true)
				}
				m.rebuild()
				return m, tea.Batch(
					flash("Saved "+entry, false),
					func() tea.Msg { return SettingsChanged{} },
				)
			case "esc":
				m.adding = false
				m.input.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Select):
			if entry := m.selected(); entry != "" {
				host, port := config.SplitServerAddress(entry)
				m.settings.ServerIP = host
				m.settings.ServerPort = port
				m.rebuild()
				return m, tea.Batch(
					flash("Joining "+entry+" on next launch", false),
					func() tea.Msg { return SettingsChanged{} },
				)
			}
		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Remove):
			if entry := m.selected(); entry != "" {
				m.settings.RemoveServer(entry)
				host, _ := config.SplitServerAddress(entry)
				if m.settings.ServerIP == host {
					m.settings.ServerIP = ""
				}
				m.rebuild()
				return m, func() tea.Msg { return SettingsChanged{} }
			}
		case key.Matches(msg, m.keys.Clear):
			if m.settings.ServerIP != "" {
				m.settings.ServerIP = ""
				m.rebuild()
				return m, tea.Batch(
					flash("Direct connect off", false),
					func() tea.Msg { return SettingsChanged{} },
				)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *ServersModel) View() string {
	if m.adding {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			TitleStyle.Render("Add Server"),
			"",
			FocusedBoxStyle.Render(m.input.View()),
			HelpStyle.Render("host or host:port; the port defaults to 25565"),
			"",
			helpView([]string{"[enter] save", "[esc] cancel"}, m.width),
		)
	}

	if len(m.settings.SavedServers) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.list.View(),
			HelpStyle.Render("No saved servers yet. Press 'a' to add one."),
			helpView([]string{"[a] add"}, m.width),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		helpView([]string{
			"[enter] join on launch", "[a] add", "[x] remove", "[c] direct connect off", "[/] search",
		}, m.width),
	)
}
