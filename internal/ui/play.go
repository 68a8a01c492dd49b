package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/core"
)

// maxLogEntries bounds the activity log.
const maxLogEntries = 500

// ramStep is how much one keypress changes the allocation.
const ramStep = 512

type logEntry struct {
	when  time.Time
	level string // info, error, cmd
	text  string
}

// PlayModel is the launch tab: a summary of what would launch, install
// and game progress, and the activity log.
type PlayModel struct {
	settings *config.Settings
	width    int
	height   int

	installed int
	busy      string // "", "installing", "launching"
	running   bool

	progress progress.Model
	showBar  bool
	log      []logEntry
	viewport viewport.Model
	keys     playKeyMap
}

type playKeyMap struct {
	Launch    key.Binding
	RAMUp     key.Binding
	RAMDown   key.Binding
	ClearLog  key.Binding
	ExportLog key.Binding
}

func defaultPlayKeyMap() playKeyMap {
	return playKeyMap{
		Launch: key.NewBinding(
			key.WithKeys("enter", "l"),
			key.WithHelp("enter", "play"),
		),
		RAMUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more ram"),
		),
		RAMDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "less ram"),
		),
		ClearLog: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear log"),
		),
		ExportLog: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export log"),
		),
	}
}

// NewPlayModel creates the play tab over the shared settings.
func NewPlayModel(settings *config.Settings) *PlayModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
	)

	return &PlayModel{
		settings: settings,
		progress: p,
		viewport: viewport.New(80, 10),
		keys:     defaultPlayKeyMap(),
	}
}

// SetSize updates dimensions.
func (m *PlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.progress.Width = width - 10
	m.viewport.Width = width - 4
	logHeight := height - 14
	if logHeight < 3 {
		logHeight = 3
	}
	m.viewport.Height = logHeight
	m.refreshLog()
}

// SetInstalledCount updates the installed-version counter shown in the
// summary.
func (m *PlayModel) SetInstalledCount(n int) {
	m.installed = n
}

// Busy reports whether an install or launch is in flight.
func (m *PlayModel) Busy() bool {
	return m.busy != ""
}

// AppendInfo adds an informational line to the activity log.
func (m *PlayModel) AppendInfo(text string) {
	m.appendLog("info", text)
}

// AppendError adds an error line to the activity log.
func (m *PlayModel) AppendError(text string) {
	m.appendLog("error", text)
}

// AppendCommand adds an echoed command line to the activity log.
func (m *PlayModel) AppendCommand(text string) {
	m.appendLog("cmd", text)
}

// LogText returns the raw activity log for export.
func (m *PlayModel) LogText() string {
	var b strings.Builder
	for _, entry := range m.log {
		fmt.Fprintf(&b, "[%s] %s\n", entry.when.Format("15:04:05"), entry.text)
	}
	return b.String()
}

func (m *PlayModel) appendLog(level, text string) {
	m.log = append(m.log, logEntry{when: time.Now(), level: level, text: text})
	if len(m.log) > maxLogEntries {
		m.log = m.log[len(m.log)-maxLogEntries:]
	}
	m.refreshLog()
	m.viewport.GotoBottom()
}

// refreshLog re-renders the viewport content, truncating styled lines
// to the viewport width.
func (m *PlayModel) refreshLog() {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	lines := make([]string, 0, len(m.log))
	for _, entry := range m.log {
		style := LogInfoStyle
		switch entry.level {
		case "error":
			style = LogErrorStyle
		case "cmd":
			style = LogCmdStyle
		}
		stamp := HelpStyle.Render(entry.when.Format("15:04:05") + " ")
		lines = append(lines, ansi.Truncate(stamp+style.Render(entry.text), width, "…"))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// Init implements tea.Model.
func (m *PlayModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *PlayModel) Update(msg tea.Msg) (*PlayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case InstallProgress:
		m.busy = "installing"
		m.showBar = true
		if msg.Status.Message != "" && (len(m.log) == 0 || m.log[len(m.log)-1].text != msg.Status.Message) {
			m.AppendInfo(msg.Status.Message)
		}
		return m, m.progress.SetPercent(msg.Status.Progress)

	case InstallFinished:
		m.busy = ""
		m.showBar = false
		if msg.Err != nil {
			m.AppendError(fmt.Sprintf("Install of %s failed: %v", msg.ID, msg.Err))
		} else {
			m.AppendInfo(fmt.Sprintf("Installed %s", msg.ID))
		}
		return m, nil

	case GameStarted:
		m.busy = ""
		m.running = true
		m.AppendCommand(msg.Command)
		m.AppendInfo(fmt.Sprintf("Game %s running", msg.ID))
		return m, nil

	case GameExited:
		m.running = false
		if msg.Err != nil {
			m.AppendError(fmt.Sprintf("Game exited after %s: %v", msg.Played.Round(time.Second), msg.Err))
		} else {
			m.AppendInfo(fmt.Sprintf("Played %s for %s", msg.ID, msg.Played.Round(time.Second)))
		}
		return m, nil

	case LaunchFailed:
		m.busy = ""
		m.AppendError(msg.Err.Error())
		return m, nil

	case GameLog:
		if msg.Line.Level == "error" {
			m.AppendError(msg.Line.Text)
		} else {
			m.AppendInfo(msg.Line.Text)
		}
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Launch):
			if m.busy == "" {
				m.busy = "launching"
				return m, func() tea.Msg { return RequestLaunch{} }
			}
		case key.Matches(msg, m.keys.RAMUp):
			m.settings.AllocatedRAM = core.ClampRAM(m.settings.AllocatedRAM + ramStep)
			return m, func() tea.Msg { return SettingsChanged{} }
		case key.Matches(msg, m.keys.RAMDown):
			m.settings.AllocatedRAM = core.ClampRAM(m.settings.AllocatedRAM - ramStep)
			return m, func() tea.Msg { return SettingsChanged{} }
		case key.Matches(msg, m.keys.ClearLog):
			m.log = nil
			m.refreshLog()
			return m, nil
		case key.Matches(msg, m.keys.ExportLog):
			return m, func() tea.Msg { return RequestLogExport{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *PlayModel) View() string {
	version := m.settings.SelectedVersion
	if version == "" {
		version = "none selected"
	}
	loader := m.settings.SelectedModLoader
	if loader != "" && loader != core.LoaderVanilla {
		version = fmt.Sprintf("%s (%s)", version, loader)
	}

	ram := humanize.IBytes(uint64(m.settings.AllocatedRAM) * 1024 * 1024)

	rows := []string{
		LabelStyle.Render("Version   ") + ValueStyle.Render(version),
		LabelStyle.Render("Player    ") + ValueStyle.Render(m.settings.Username),
		LabelStyle.Render("Memory    ") + ValueStyle.Render(ram),
		LabelStyle.Render("Installed ") + ValueStyle.Render(fmt.Sprintf("%d versions", m.installed)),
	}
	if m.settings.ServerIP != "" {
		rows = append(rows, LabelStyle.Render("Join      ")+ValueStyle.Render(m.settings.ServerIP+":"+m.settings.ServerPort))
	}
	if len(m.settings.RecentVersions) > 0 {
		recent := m.settings.RecentVersions
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		rows = append(rows, LabelStyle.Render("Recent    ")+HelpStyle.Render(strings.Join(recent, ", ")))
	}

	var state string
	switch {
	case m.running:
		state = SuccessStyle.Render("● running")
	case m.busy == "installing":
		state = WarningStyle.Render("● installing")
	case m.busy == "launching":
		state = WarningStyle.Render("● starting")
	default:
		state = HelpStyle.Render("○ idle")
	}

	summary := BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	sections := []string{
		TitleStyle.Render("Play") + " " + state,
		summary,
	}
	if m.showBar {
		sections = append(sections, m.progress.View())
	}
	sections = append(sections, BoxStyle.Render(m.viewport.View()))
	sections = append(sections, helpView([]string{
		"[enter] play", "[+/-] memory", "[c] clear log", "[e] export log",
	}, m.width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
