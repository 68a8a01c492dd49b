package ui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/mods"
)

// ModsModel is the mods tab. It works directly against the mods
// folder; the disabled list in settings mirrors what is on disk.
type ModsModel struct {
	manager  *mods.Manager
	settings *config.Settings

	list   list.Model
	mods   []mods.Mod
	adding bool
	input  textinput.Model

	width  int
	height int
	keys   modsKeyMap
}

type modsKeyMap struct {
	Toggle  key.Binding
	Add     key.Binding
	Remove  key.Binding
	Open    key.Binding
	Refresh key.Binding
}

func defaultModsKeyMap() modsKeyMap {
	return modsKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("t", "enter"),
			key.WithHelp("t", "toggle"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open folder"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// modItem adapts a mod to the list widget.
type modItem struct {
	mod mods.Mod
}

func (i modItem) Title() string {
	if i.mod.Enabled {
		return i.mod.Name
	}
	return i.mod.Name + " (disabled)"
}

func (i modItem) Description() string {
	state := "enabled"
	if !i.mod.Enabled {
		state = "disabled"
	}
	return fmt.Sprintf("%s • %s", state, humanize.Bytes(uint64(i.mod.Size)))
}

func (i modItem) FilterValue() string { return i.mod.Name }

// NewModsModel creates the mods tab.
func NewModsModel(manager *mods.Manager, settings *config.Settings) *ModsModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderLeftForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorSecondary).
		BorderLeftForeground(ColorPrimary)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Mods"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "/path/to/mod.jar"
	ti.CharLimit = 512
	ti.Width = 60

	return &ModsModel{
		manager:  manager,
		settings: settings,
		list:     l,
		input:    ti,
		keys:     defaultModsKeyMap(),
	}
}

// Reload rescans the mods folder.
func (m *ModsModel) Reload() tea.Cmd {
	return func() tea.Msg {
		found, err := m.manager.List()
		return ModsLoaded{Mods: found, Err: err}
	}
}

func (m *ModsModel) setMods(found []mods.Mod) {
	m.mods = found

	items := make([]list.Item, len(found))
	var disabled []string
	for i, mod := range found {
		items[i] = modItem{mod: mod}
		if !mod.Enabled {
			disabled = append(disabled, mod.Name)
		}
	}
	sort.Strings(disabled)
	m.list.SetItems(items)
	m.settings.DisabledMods = disabled
}

func (m *ModsModel) selected() *mods.Mod {
	if item, ok := m.list.SelectedItem().(modItem); ok {
		mod := item.mod
		return &mod
	}
	return nil
}

// SetSize updates dimensions.
func (m *ModsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

// Editing reports whether a text input is capturing keystrokes.
func (m *ModsModel) Editing() bool {
	return m.adding || m.list.FilterState() == list.Filtering
}

// Init implements tea.Model.
func (m *ModsModel) Init() tea.Cmd {
	return m.Reload()
}

// Update implements tea.Model.
func (m *ModsModel) Update(msg tea.Msg) (*ModsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ModsLoaded:
		if msg.Err != nil {
			return m, flash(msg.Err.Error(), true)
		}
		m.setMods(msg.Mods)
		return m, func() tea.Msg { return SettingsChanged{} }

	case tea.KeyMsg:
		if m.adding {
			switch msg.String() {
			case "enter":
				path := m.input.Value()
				m.adding = false
				m.input.Blur()
				return m, func() tea.Msg {
					if _, err := m.manager.Add(path); err != nil {
						return Flash{Text: err.Error(), IsError: true}
					}
					return m.Reload()()
				}
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
		case key.Matches(msg, m.keys.Toggle):
			if mod := m.selected(); mod != nil {
				name := mod.Name
				return m, func() tea.Msg {
					if _, err := m.manager.Toggle(name); err != nil {
						return Flash{Text: err.Error(), IsError: true}
					}
					return m.Reload()()
				}
			}
		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Remove):
			if mod := m.selected(); mod != nil {
				name := mod.Name
				return m, func() tea.Msg {
					if err := m.manager.Remove(name); err != nil {
						return Flash{Text: err.Error(), IsError: true}
					}
					return m.Reload()()
				}
			}
		case key.Matches(msg, m.keys.Open):
			return m, func() tea.Msg {
				if err := m.manager.OpenFolder(); err != nil {
					return Flash{Text: err.Error(), IsError: true}
				}
				return Flash{Text: "Opened mods folder"}
			}
		case key.Matches(msg, m.keys.Refresh):
			return m, m.Reload()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *ModsModel) View() string {
	if m.adding {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			TitleStyle.Render("Add Mod"),
			"",
			FocusedBoxStyle.Render(m.input.View()),
			"",
			helpView([]string{"[enter] add", "[esc] cancel"}, m.width),
		)
	}

	if len(m.mods) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.list.View(),
			HelpStyle.Render("No mods yet. Press 'a' to add one, or drop jars into the mods folder."),
			helpView([]string{"[a] add", "[o] open folder", "[r] refresh"}, m.width),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		helpView([]string{
			"[t] toggle", "[a] add", "[x] remove", "[o] open folder", "[r] refresh", "[/] search",
		}, m.width),
	)
}

// flash wraps a Flash message in a command.
func flash(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return Flash{Text: text, IsError: isError} }
}
