package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/core"
)

// profilesPrompt says which text prompt, if any, is active.
type profilesPrompt int

const (
	promptNone profilesPrompt = iota
	promptSaveName
	promptImportPath
)

// ProfilesModel is the profiles tab: named snapshots of the launch
// selection that can be re-applied, exported and imported.
type ProfilesModel struct {
	settings  *config.Settings
	exportDir string

	list   list.Model
	prompt profilesPrompt
	input  textinput.Model

	width  int
	height int
	keys   profilesKeyMap
}

type profilesKeyMap struct {
	Apply  key.Binding
	Save   key.Binding
	Delete key.Binding
	Export key.Binding
	Import key.Binding
}

func defaultProfilesKeyMap() profilesKeyMap {
	return profilesKeyMap{
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "n"),
			key.WithHelp("s", "save current"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import"),
		),
	}
}

// profileItem adapts a stored profile to the list widget.
type profileItem struct {
	name    string
	profile core.Profile
	current bool
}

func (i profileItem) Title() string {
	if i.current {
		return i.name + " ◂"
	}
	return i.name
}

func (i profileItem) Description() string {
	version := i.profile.Version
	if version == "" {
		version = "no version"
	}
	desc := fmt.Sprintf("%s • %s • %d MB • %s",
		version, i.profile.ModLoader, i.profile.RAM, i.profile.Username)
	if t, err := time.Parse(time.RFC3339, i.profile.Created); err == nil {
		desc += " • saved " + humanize.Time(t)
	}
	return desc
}

func (i profileItem) FilterValue() string { return i.name }

// NewProfilesModel creates the profiles tab. Exports land in exportDir.
func NewProfilesModel(settings *config.Settings, exportDir string) *ProfilesModel {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorPrimary).
		BorderLeftForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorSecondary).
		BorderLeftForeground(ColorPrimary)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Profiles"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40

	m := &ProfilesModel{
		settings:  settings,
		exportDir: exportDir,
		list:      l,
		input:     ti,
		keys:      defaultProfilesKeyMap(),
	}
	m.rebuild()
	return m
}

func (m *ProfilesModel) rebuild() {
	names := make([]string, 0, len(m.settings.Profiles))
	for name := range m.settings.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = profileItem{
			name:    name,
			profile: m.settings.Profiles[name],
			current: name == m.settings.CurrentProfile,
		}
	}
	m.list.SetItems(items)
}

// Refresh rebuilds the list after settings changed outside this tab.
func (m *ProfilesModel) Refresh() {
	m.rebuild()
}

func (m *ProfilesModel) selected() string {
	if item, ok := m.list.SelectedItem().(profileItem); ok {
		return item.name
	}
	return ""
}

// existingNames returns the stored profile names lowercased, for the
// duplicate check.
func (m *ProfilesModel) existingNames() map[string]struct{} {
	existing := make(map[string]struct{}, len(m.settings.Profiles))
	for name := range m.settings.Profiles {
		existing[strings.ToLower(name)] = struct{}{}
	}
	return existing
}

// SetSize updates dimensions.
func (m *ProfilesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-4)
}

// Editing reports whether a text input is capturing keystrokes.
func (m *ProfilesModel) Editing() bool {
	return m.prompt != promptNone || m.list.FilterState() == list.Filtering
}

// Init implements tea.Model.
func (m *ProfilesModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ProfilesModel) Update(msg tea.Msg) (*ProfilesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt != promptNone {
			switch msg.String() {
			case "enter":
				prompt := m.prompt
				value := strings.TrimSpace(m.input.Value())
				m.prompt = promptNone
				m.input.Blur()
				if prompt == promptSaveName {
					return m, m.saveCurrent(value)
				}
				return m, m.importFrom(value)
			case "esc":
				m.prompt = promptNone
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
		case key.Matches(msg, m.keys.Apply):
			if name := m.selected(); name != "" {
				m.settings.ApplyProfile(name)
				m.rebuild()
				return m, tea.Batch(
					flash("Applied profile "+name, false),
					func() tea.Msg { return SettingsChanged{} },
				)
			}
		case key.Matches(msg, m.keys.Save):
			m.prompt = promptSaveName
			m.input.Placeholder = "Profile name"
			m.input.SetValue(defaultProfileName(m.settings))
			m.input.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Delete):
			if name := m.selected(); name != "" {
				m.settings.DeleteProfile(name)
				m.rebuild()
				return m, func() tea.Msg { return SettingsChanged{} }
			}
		case key.Matches(msg, m.keys.Export):
			if name := m.selected(); name != "" {
				path := filepath.Join(m.exportDir, name+".json")
				if err := m.settings.ExportProfile(name, path); err != nil {
					return m, flash(err.Error(), true)
				}
				return m, flash("Exported to "+path, false)
			}
		case key.Matches(msg, m.keys.Import):
			m.prompt = promptImportPath
			m.input.Placeholder = "/path/to/profiles.json"
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *ProfilesModel) saveCurrent(name string) tea.Cmd {
	if err := validateProfileName(name, m.existingNames()); err != nil {
		return flash(err.Error(), true)
	}
	m.settings.SaveProfile(name, time.Now())
	m.rebuild()
	return tea.Batch(
		flash("Saved profile "+name, false),
		func() tea.Msg { return SettingsChanged{} },
	)
}

func (m *ProfilesModel) importFrom(path string) tea.Cmd {
	n, err := m.settings.ImportProfiles(path)
	if err != nil {
		return flash(err.Error(), true)
	}
	m.rebuild()
	return tea.Batch(
		flash(fmt.Sprintf("Imported %d profiles", n), false),
		func() tea.Msg { return SettingsChanged{} },
	)
}

// defaultProfileName suggests a name from the current selection.
func defaultProfileName(s *config.Settings) string {
	if s.SelectedVersion == "" {
		return ""
	}
	return fmt.Sprintf("%s %s", s.SelectedVersion, s.SelectedModLoader)
}

// validateProfileName rejects names that would collide with a stored
// profile (case-insensitive) or could not survive as an export
// filename. existing must be lowercased.
func validateProfileName(name string, existing map[string]struct{}) error {
	if name == "" {
		return errors.New("profile name is empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%q is not a usable name", name)
	}
	if strings.ContainsAny(name, `/\:*?"<>|`) {
		return errors.New("profile name contains a path character")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return errors.New("profile name contains a control character")
		}
	}
	if strings.HasSuffix(name, " ") || strings.HasSuffix(name, ".") {
		return errors.New("profile name ends with a space or period")
	}
	if _, ok := existing[strings.ToLower(name)]; ok {
		return fmt.Errorf("a profile named %q already exists", name)
	}
	return nil
}

// View implements tea.Model.
func (m *ProfilesModel) View() string {
	if m.prompt != promptNone {
		title := "Save Profile"
		hint := "Snapshots the current version, loader, memory and username."
		if m.prompt == promptImportPath {
			title = "Import Profiles"
			hint = "Path to a profiles JSON file; same-named profiles are overwritten."
		}
		return lipgloss.JoinVertical(
			lipgloss.Left,
			TitleStyle.Render(title),
			"",
			FocusedBoxStyle.Render(m.input.View()),
			HelpStyle.Render(hint),
			"",
			helpView([]string{"[enter] confirm", "[esc] cancel"}, m.width),
		)
	}

	if len(m.settings.Profiles) == 0 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.list.View(),
			HelpStyle.Render("No profiles yet. Press 's' to snapshot the current selection."),
			helpView([]string{"[s] save current", "[i] import"}, m.width),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		helpView([]string{
			"[enter] apply", "[s] save current", "[x] delete", "[e] export", "[i] import", "[/] search",
		}, m.width),
	)
}
