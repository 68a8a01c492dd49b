package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quasar/mclaunch/internal/config"
)

func TestFormatPlaytime(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{59, "59s"},
		{60, "1m 0s"},
		{95, "1m 35s"},
		{3599, "59m 59s"},
		{3600, "1h 0m"},
		{7265, "2h 1m"},
		{176400, "49h 0m"},
	}

	for _, tt := range tests {
		if got := formatPlaytime(tt.seconds); got != tt.want {
			t.Errorf("formatPlaytime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestStatsModel_RefreshOrdersByLaunchCount(t *testing.T) {
	settings := config.Default()
	settings.Statistics.VersionCounts = map[string]int{
		"1.20.1": 2,
		"1.21.4": 5,
		"24w40b": 2,
	}
	m := NewStatsModel(settings)

	rows := m.table.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	wantOrder := []string{"1.21.4", "1.20.1", "24w40b"}
	for i, want := range wantOrder {
		if rows[i][0] != want {
			t.Errorf("row %d = %q, want %q", i, rows[i][0], want)
		}
	}
	if rows[0][1] != "5" {
		t.Errorf("top row count = %q, want %q", rows[0][1], "5")
	}
}

func TestStatsModel_ResetKeyClearsCounters(t *testing.T) {
	settings := config.Default()
	settings.Statistics.RecordLaunch("1.21.4", time.Now())
	settings.Statistics.RecordLaunch("1.21.4", time.Now())
	settings.Statistics.AddPlaytime(300 * time.Second)
	m := NewStatsModel(settings)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}})
	if settings.Statistics.TotalLaunches != 0 {
		t.Errorf("TotalLaunches = %d, want 0", settings.Statistics.TotalLaunches)
	}
	if settings.Statistics.TotalPlaytime != 0 {
		t.Errorf("TotalPlaytime = %d, want 0", settings.Statistics.TotalPlaytime)
	}
	if settings.Statistics.VersionCounts == nil {
		t.Error("VersionCounts nil after reset")
	}
	if len(m.table.Rows()) != 0 {
		t.Errorf("rows after reset = %d, want 0", len(m.table.Rows()))
	}
	if cmd == nil {
		t.Error("reset produced no command")
	}
}

func TestStatsModel_RefreshOnGameResult(t *testing.T) {
	settings := config.Default()
	m := NewStatsModel(settings)
	if got := len(m.table.Rows()); got != 0 {
		t.Fatalf("rows before any launch = %d, want 0", got)
	}

	settings.Statistics.RecordLaunch("1.21.4", time.Now())
	m, _ = m.Update(GameStarted{ID: "1.21.4"})
	if got := len(m.table.Rows()); got != 1 {
		t.Errorf("rows after launch = %d, want 1", got)
	}
}
