package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/mods"
)

// PacksModel is the resourcepacks tab. Files live in the resourcepacks
// folder; which ones are active is a settings list the game options
// screen also edits.
type PacksModel struct {
	manager  *mods.Manager
	settings *config.Settings

	list   list.Model
	packs  []mods.Resourcepack
	adding bool
	input  textinput.Model

	width  int
	height int
	keys   packsKeyMap
}

type packsKeyMap struct {
	Toggle  key.Binding
	Add     key.Binding
	Remove  key.Binding
	Open    key.Binding
	Refresh key.Binding
}

func defaultPacksKeyMap() packsKeyMap {
	return packsKeyMap{
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

// packItem adapts a resourcepack to the list widget.
type packItem struct {
	pack    mods.Resourcepack
	enabled bool
}

func (i packItem) Title() string {
	if i.enabled {
		return i.pack.Name + " ✓"
	}
	return i.pack.Name
}

func (i packItem) Description() string {
	kind := "zip"
	if i.pack.IsDir {
		kind = "folder"
	}
	state := "inactive"
	if i.enabled {
		state = "active"
	}
	if i.pack.IsDir {
		return fmt.Sprintf("%s • %s", kind, state)
	}
	return fmt.Sprintf("%s • %s • %s", kind, state, humanize.Bytes(uint64(i.pack.Size)))
}

func (i packItem) FilterValue() string { return i.pack.Name }

// NewPacksModel creates the resourcepacks tab.
func NewPacksModel(manager *mods.Manager, settings *config.Settings) *PacksModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderLeftForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorSecondary).
		BorderLeftForeground(ColorPrimary)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Resourcepacks"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "/path/to/pack.zip"
	ti.CharLimit = 512
	ti.Width = 60

	return &PacksModel{
		manager:  manager,
		settings: settings,
		list:     l,
		input:    ti,
		keys:     defaultPacksKeyMap(),
	}
}

// Reload rescans the resourcepacks folder.
func (m *PacksModel) Reload() tea.Cmd {
	return func() tea.Msg {
		packs, err := m.manager.Packs()
		return PacksLoaded{Packs: packs, Err: err}
	}
}

func (m *PacksModel) setPacks(packs []mods.Resourcepack) {
	m.packs = packs

	items := make([]list.Item, len(packs))
	for i, pack := range packs {
		items[i] = packItem{pack: pack, enabled: m.isEnabled(pack.Name)}
	}
	m.list.SetItems(items)
}

func (m *PacksModel) isEnabled(name string) bool {
	for _, n := range m.settings.EnabledResourcepacks {
		if n == name {
			return true
		}
	}
	return false
}

func (m *PacksModel) toggle(name string) {
	for i, n := range m.settings.EnabledResourcepacks {
		if n == name {
			m.settings.EnabledResourcepacks = append(
				m.settings.EnabledResourcepacks[:i],
				m.settings.EnabledResourcepacks[i+1:]...)
			return
		}
	}
	m.settings.EnabledResourcepacks = append(m.settings.EnabledResourcepacks, name)
}

func (m *PacksModel) selected() *mods.Resourcepack {
	if item, ok := m.list.SelectedItem().(packItem); ok {
		pack := item.pack
		return &pack
	}
	return nil
}

// SetSize updates dimensions.
func (m *PacksModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

// Editing reports whether a text input is capturing keystrokes.
func (m *PacksModel) Editing() bool {
	return m.adding || m.list.FilterState() == list.Filtering
}

// Init implements tea.Model.
func (m *PacksModel) Init() tea.Cmd {
	return m.Reload()
}

// Update implements tea.Model.
func (m *PacksModel) Update(msg tea.Msg) (*PacksModel, tea.Cmd) {
	switch msg := msg.(type) {
	case PacksLoaded:
		if msg.Err != nil {
			return m, flash(msg.Err.Error(), true)
		}
		m.setPacks(msg.Packs)
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			switch msg.String() {
			case "enter":
				path := m.input.Value()
				m.adding = false
				m.input.Blur()
				return m, func() tea.Msg {
					if _, err := m.manager.AddPack(path); err != nil {
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
			if pack := m.selected(); pack != nil {
				m.toggle(pack.Name)
				m.setPacks(m.packs)
				return m, func() tea.Msg { return SettingsChanged{} }
			}
		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Remove):
			if pack := m.selected(); pack != nil {
				name := pack.Name
				return m, func() tea.Msg {
					if err := m.manager.RemovePack(name); err != nil {
						return Flash{Text: err.Error(), IsError: true}
					}
					return m.Reload()()
				}
			}
		case key.Matches(msg, m.keys.Open):
			return m, func() tea.Msg {
				if err := m.manager.OpenPacksFolder(); err != nil {
					return Flash{Text: err.Error(), IsError: true}
				}
				return Flash{Text: "Opened resourcepacks folder"}
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
func (m *PacksModel) View() string {
	if m.adding {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			TitleStyle.Render("Add Resourcepack"),
			"",
			FocusedBoxStyle.Render(m.input.View()),
			"",
			helpView([]string{"[enter] add", "[esc] cancel"}, m.width),
		)
	}

	if len(m.packs) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.list.View(),
			HelpStyle.Render("No resourcepacks yet. Press 'a' to add one."),
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
