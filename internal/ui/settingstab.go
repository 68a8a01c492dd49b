package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/core"
	"github.com/quasar/mclaunch/internal/java"
)

// settingsField indexes the editable rows, top to bottom.
type settingsField int

const (
	fieldUsername settingsField = iota
	fieldJavaPath
	fieldRAM
	fieldWidth
	fieldHeight
	fieldFullscreen
	fieldTheme
	fieldJVMArgs
	fieldCount
)

func (f settingsField) label() string {
	switch f {
	case fieldUsername:
		return "Username"
	case fieldJavaPath:
		return "Java path"
	case fieldRAM:
		return "Memory (MB)"
	case fieldWidth:
		return "Window width"
	case fieldHeight:
		return "Window height"
	case fieldFullscreen:
		return "Fullscreen"
	case fieldTheme:
		return "Theme"
	case fieldJVMArgs:
		return "Custom JVM args"
	}
	return ""
}

// settingsMode says what is capturing keystrokes.
type settingsMode int

const (
	settingsBrowse settingsMode = iota
	settingsEditField
	settingsEditArgs
	settingsImportPath
	settingsExportPath
)

// SettingsModel is the settings tab: every launcher_settings.json key
// the user edits by hand, plus import/export/reset and java detection.
type SettingsModel struct {
	settings *config.Settings

	cursor   settingsField
	mode     settingsMode
	input    textinput.Model
	area     textarea.Model
	runtimes []java.Runtime
	probing  bool

	width  int
	height int
	keys   settingsKeyMap
}

type settingsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Edit   key.Binding
	Detect key.Binding
	Import key.Binding
	Export key.Binding
	Reset  key.Binding
}

func defaultSettingsKeyMap() settingsKeyMap {
	return settingsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Detect: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "detect java"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset"),
		),
	}
}

// NewSettingsModel creates the settings tab over the shared settings.
func NewSettingsModel(settings *config.Settings) *SettingsModel {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60

	ta := textarea.New()
	ta.Placeholder = "-XX:+UseG1GC"
	ta.SetWidth(60)
	ta.SetHeight(6)

	return &SettingsModel{
		settings: settings,
		input:    ti,
		area:     ta,
		keys:     defaultSettingsKeyMap(),
	}
}

// SetSize updates dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	inputWidth := width - 8
	if inputWidth > 70 {
		inputWidth = 70
	}
	if inputWidth < 20 {
		inputWidth = 20
	}
	m.input.Width = inputWidth
	m.area.SetWidth(inputWidth)
}

// Editing reports whether a text input is capturing keystrokes.
func (m *SettingsModel) Editing() bool {
	return m.mode != settingsBrowse
}

// Init implements tea.Model.
func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *SettingsModel) Update(msg tea.Msg) (*SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case JavaDetected:
		m.probing = false
		m.runtimes = msg.Runtimes
		if len(msg.Runtimes) == 0 {
			return m, flash("No Java runtimes found", true)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case settingsEditField:
			switch msg.String() {
			case "enter":
				m.mode = settingsBrowse
				m.input.Blur()
				return m, m.commit(m.cursor, m.input.Value())
			case "esc":
				m.mode = settingsBrowse
				m.input.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd

		case settingsEditArgs:
			if msg.String() == "esc" {
				m.mode = settingsBrowse
				m.area.Blur()
				m.settings.CustomJVMArgs = strings.TrimRight(m.area.Value(), "\n")
				return m, func() tea.Msg { return SettingsChanged{} }
			}
			var cmd tea.Cmd
			m.area, cmd = m.area.Update(msg)
			return m, cmd

		case settingsImportPath, settingsExportPath:
			switch msg.String() {
			case "enter":
				mode := m.mode
				path := strings.TrimSpace(m.input.Value())
				m.mode = settingsBrowse
				m.input.Blur()
				if path == "" {
					return m, nil
				}
				if mode == settingsImportPath {
					return m, func() tea.Msg { return RequestSettingsImport{Path: path} }
				}
				return m, func() tea.Msg { return RequestSettingsExport{Path: path} }
			case "esc":
				m.mode = settingsBrowse
				m.input.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < fieldCount-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Edit):
			return m, m.startEdit()
		case key.Matches(msg, m.keys.Detect):
			m.probing = true
			return m, func() tea.Msg { return RequestJavaDetect{} }
		case key.Matches(msg, m.keys.Import):
			return m.startPathPrompt(settingsImportPath)
		case key.Matches(msg, m.keys.Export):
			return m.startPathPrompt(settingsExportPath)
		case key.Matches(msg, m.keys.Reset):
			return m, func() tea.Msg { return RequestSettingsReset{} }
		}
	}
	return m, nil
}

func (m *SettingsModel) startEdit() tea.Cmd {
	switch m.cursor {
	case fieldFullscreen:
		m.settings.Fullscreen = !m.settings.Fullscreen
		return func() tea.Msg { return SettingsChanged{} }

	case fieldTheme:
		if m.settings.Theme == "dark" {
			m.settings.Theme = "light"
		} else {
			m.settings.Theme = "dark"
		}
		ApplyTheme(m.settings.Theme)
		return func() tea.Msg { return SettingsChanged{} }

	case fieldJVMArgs:
		m.mode = settingsEditArgs
		m.area.SetValue(m.settings.CustomJVMArgs)
		m.area.Focus()
		return textarea.Blink

	default:
		m.mode = settingsEditField
		m.input.Placeholder = ""
		m.input.SetValue(m.fieldValue(m.cursor))
		m.input.CursorEnd()
		m.input.Focus()
		return textinput.Blink
	}
}

func (m *SettingsModel) startPathPrompt(mode settingsMode) (*SettingsModel, tea.Cmd) {
	m.mode = mode
	m.input.Placeholder = "/path/to/launcher_settings.json"
	m.input.SetValue("")
	m.input.Focus()
	return m, textinput.Blink
}

// fieldValue renders the current raw value for editing.
func (m *SettingsModel) fieldValue(f settingsField) string {
	switch f {
	case fieldUsername:
		return m.settings.Username
	case fieldJavaPath:
		return m.settings.JavaPath
	case fieldRAM:
		return strconv.Itoa(m.settings.AllocatedRAM)
	case fieldWidth:
		return strconv.Itoa(m.settings.WindowWidth)
	case fieldHeight:
		return strconv.Itoa(m.settings.WindowHeight)
	}
	return ""
}

// commit writes an edited value back, parsing and rejecting bad input.
func (m *SettingsModel) commit(f settingsField, raw string) tea.Cmd {
	value := strings.TrimSpace(raw)

	switch f {
	case fieldUsername:
		if value == "" {
			return flash("Username is empty", true)
		}
		m.settings.Username = value

	case fieldJavaPath:
		m.settings.JavaPath = value

	case fieldRAM:
		n, err := strconv.Atoi(value)
		if err != nil {
			return flash(fmt.Sprintf("Not a number: %q", value), true)
		}
		m.settings.AllocatedRAM = core.ClampRAM(n)

	case fieldWidth, fieldHeight:
		n, err := strconv.Atoi(value)
		if err != nil {
			return flash(fmt.Sprintf("Not a number: %q", value), true)
		}
		if n < 0 {
			return flash("Window size cannot be negative", true)
		}
		if f == fieldWidth {
			m.settings.WindowWidth = n
		} else {
			m.settings.WindowHeight = n
		}
	}

	return func() tea.Msg { return SettingsChanged{} }
}

// displayValue renders a field for the browse view.
func (m *SettingsModel) displayValue(f settingsField) string {
	switch f {
	case fieldUsername:
		return m.settings.Username
	case fieldJavaPath:
		if m.settings.JavaPath == "" {
			return "(auto)"
		}
		return m.settings.JavaPath
	case fieldRAM:
		return fmt.Sprintf("%d MB", m.settings.AllocatedRAM)
	case fieldWidth:
		return strconv.Itoa(m.settings.WindowWidth)
	case fieldHeight:
		return strconv.Itoa(m.settings.WindowHeight)
	case fieldFullscreen:
		if m.settings.Fullscreen {
			return "on"
		}
		return "off"
	case fieldTheme:
		return m.settings.Theme
	case fieldJVMArgs:
		args := strings.TrimSpace(m.settings.CustomJVMArgs)
		if args == "" {
			return "(none)"
		}
		return strings.Join(strings.Fields(args), " ")
	}
	return ""
}

// View implements tea.Model.
func (m *SettingsModel) View() string {
	switch m.mode {
	case settingsEditField:
		return lipgloss.JoinVertical(
			lipgloss.Left,
			TitleStyle.Render("Edit "+m.cursor.label()),
			"",
			FocusedBoxStyle.Render(m.input.View()),
			"",
			helpView([]string{"[enter] save", "[esc] cancel"}, m.width),
		)

	case settingsEditArgs:
		return lipgloss.JoinVertical(
			lipgloss.Left,
			TitleStyle.Render("Custom JVM Args"),
			HelpStyle.Render("One flag per line; blank lines are skipped at launch."),
			"",
			FocusedBoxStyle.Render(m.area.View()),
			"",
			helpView([]string{"[esc] done"}, m.width),
		)

	case settingsImportPath, settingsExportPath:
		title := "Import Settings"
		if m.mode == settingsExportPath {
			title = "Export Settings"
		}
		return lipgloss.JoinVertical(
			lipgloss.Left,
			TitleStyle.Render(title),
			"",
			FocusedBoxStyle.Render(m.input.View()),
			"",
			helpView([]string{"[enter] confirm", "[esc] cancel"}, m.width),
		)
	}

	rows := make([]string, 0, int(fieldCount)+4)
	for f := settingsField(0); f < fieldCount; f++ {
		marker := "  "
		label := LabelStyle.Render(fmt.Sprintf("%-16s", f.label()))
		value := ValueStyle.Render(m.displayValue(f))
		if f == m.cursor {
			marker = SelectedStyle.Render("▸ ")
			value = SelectedStyle.Render(m.displayValue(f))
		}
		rows = append(rows, marker+label+value)

		if f == fieldJavaPath {
			if m.probing {
				rows = append(rows, HelpStyle.Render("    probing..."))
			}
			for i := range m.runtimes {
				rt := &m.runtimes[i]
				rows = append(rows, HelpStyle.Render("    "+rt.String()+" at "+rt.Path))
			}
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render("Settings"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		helpView([]string{
			"[↑↓] navigate", "[enter] edit", "[d] detect java",
			"[i] import", "[e] export", "[R] reset",
		}, m.width),
	)
}
