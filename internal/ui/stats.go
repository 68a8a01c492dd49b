package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/core"
)

// StatsModel is the statistics tab: totals, the per-version launch
// table, and the recents list.
type StatsModel struct {
	settings *config.Settings

	table  table.Model
	width  int
	height int
	keys   statsKeyMap
}

type statsKeyMap struct {
	Reset key.Binding
}

func defaultStatsKeyMap() statsKeyMap {
	return statsKeyMap{
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset statistics"),
		),
	}
}

// NewStatsModel creates the statistics tab over the shared settings.
func NewStatsModel(settings *config.Settings) *StatsModel {
	columns := []table.Column{
		{Title: "Version", Width: 28},
		{Title: "Launches", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorText)
	styles.Selected = styles.Selected.
		Foreground(ColorPrimary).
		Bold(true)
	t.SetStyles(styles)

	m := &StatsModel{
		settings: settings,
		table:    t,
		keys:     defaultStatsKeyMap(),
	}
	m.Refresh()
	return m
}

// Refresh rebuilds the table from the current counters. The app calls
// this when the tab becomes visible; launch results refresh it too.
func (m *StatsModel) Refresh() {
	counts := m.settings.Statistics.VersionCounts
	type row struct {
		id string
		n  int
	}
	rows := make([]row, 0, len(counts))
	for id, n := range counts {
		rows = append(rows, row{id: id, n: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].n != rows[j].n {
			return rows[i].n > rows[j].n
		}
		return rows[i].id < rows[j].id
	})

	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{r.id, strconv.Itoa(r.n)}
	}
	m.table.SetRows(out)
}

// SetSize updates dimensions.
func (m *StatsModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := height - 12
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)

	versionWidth := width - 18
	if versionWidth < 16 {
		versionWidth = 16
	}
	if versionWidth > 48 {
		versionWidth = 48
	}
	m.table.SetColumns([]table.Column{
		{Title: "Version", Width: versionWidth},
		{Title: "Launches", Width: 10},
	})
}

// Init implements tea.Model.
func (m *StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *StatsModel) Update(msg tea.Msg) (*StatsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case GameStarted, GameExited:
		m.Refresh()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Reset) {
			m.settings.Statistics = core.Statistics{VersionCounts: map[string]int{}}
			m.Refresh()
			return m, tea.Batch(
				flash("Statistics reset", false),
				func() tea.Msg { return SettingsChanged{} },
			)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// formatPlaytime renders accumulated seconds as hours and minutes.
func formatPlaytime(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// View implements tea.Model.
func (m *StatsModel) View() string {
	stats := m.settings.Statistics

	mostUsed := stats.MostUsedVersion
	if mostUsed == "" {
		mostUsed = "-"
	}
	lastLaunch := "never"
	if t, ok := stats.LastLaunchTime(); ok {
		lastLaunch = fmt.Sprintf("%s (%s)", stats.LastLaunch, humanize.Time(t))
	}

	rows := []string{
		LabelStyle.Render("Launches   ") + ValueStyle.Render(strconv.Itoa(stats.TotalLaunches)),
		LabelStyle.Render("Playtime   ") + ValueStyle.Render(formatPlaytime(stats.TotalPlaytime)),
		LabelStyle.Render("Most used  ") + ValueStyle.Render(mostUsed),
		LabelStyle.Render("Last launch") + " " + ValueStyle.Render(lastLaunch),
	}
	summary := BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	sections := []string{
		TitleStyle.Render("Statistics"),
		summary,
	}

	if len(m.table.Rows()) > 0 {
		sections = append(sections, m.table.View())
	} else {
		sections = append(sections, HelpStyle.Render("No launches recorded yet."))
	}

	if len(m.settings.RecentVersions) > 0 {
		recent := m.settings.RecentVersions
		shown := make([]string, len(recent))
		for i, id := range recent {
			// most recent last in storage, first on screen
			shown[len(recent)-1-i] = id
		}
		sections = append(sections,
			LabelStyle.Render("Recent ")+HelpStyle.Render(strings.Join(shown, ", ")))
	}

	sections = append(sections, helpView([]string{"[R] reset statistics"}, m.width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
