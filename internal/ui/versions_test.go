package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quasar/mclaunch/internal/catalog"
	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/core"
)

func testCatalog() []catalog.Entry {
	return []catalog.Entry{
		{ID: "1.21.4", Type: core.VersionTypeRelease, Installed: true},
		{ID: "25w07a", Type: core.VersionTypeSnapshot},
		{ID: "1.20.1", Type: core.VersionTypeRelease},
		{ID: "24w40b", Type: core.VersionTypeSnapshot, Favorite: true},
		{ID: "b1.8.1", Type: core.VersionTypeOldBeta, Installed: true},
	}
}

func TestVersionsModel_HidesSnapshotsByDefault(t *testing.T) {
	m := NewVersionsModel(config.Default())
	m.SetCatalog(testCatalog(), "1.21.4")

	// Releases always show; non-releases only when installed or
	// favorited.
	items := m.list.Items()
	if len(items) != 4 {
		t.Fatalf("visible items = %d, want 4", len(items))
	}
	for _, item := range items {
		entry := item.(entryItem).entry
		if entry.ID == "25w07a" {
			t.Error("plain snapshot visible without snapshot mode")
		}
	}
}

func TestVersionsModel_SnapshotToggleShowsEverything(t *testing.T) {
	m := NewVersionsModel(config.Default())
	m.SetCatalog(testCatalog(), "1.21.4")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if got := len(m.list.Items()); got != 5 {
		t.Errorf("visible items with snapshots = %d, want 5", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if got := len(m.list.Items()); got != 4 {
		t.Errorf("visible items after toggling back = %d, want 4", got)
	}
}

func TestVersionsModel_SelectUpdatesSettings(t *testing.T) {
	settings := config.Default()
	m := NewVersionsModel(settings)
	m.SetCatalog(testCatalog(), "1.21.4")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if settings.SelectedVersion != "1.21.4" {
		t.Errorf("SelectedVersion = %q, want %q", settings.SelectedVersion, "1.21.4")
	}
	if cmd == nil {
		t.Fatal("select produced no command")
	}
	if _, ok := cmd().(SettingsChanged); !ok {
		t.Errorf("select emitted %T, want SettingsChanged", cmd())
	}
}

func TestVersionsModel_InstallKeyEmitsRequest(t *testing.T) {
	m := NewVersionsModel(config.Default())
	m.SetCatalog(testCatalog(), "1.21.4")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	if cmd == nil {
		t.Fatal("install key produced no command")
	}
	req, ok := cmd().(RequestInstall)
	if !ok {
		t.Fatalf("install key emitted %T, want RequestInstall", cmd())
	}
	if req.ID != "1.21.4" {
		t.Errorf("RequestInstall.ID = %q, want %q", req.ID, "1.21.4")
	}
}

func TestVersionsModel_DeleteOnlyForInstalled(t *testing.T) {
	m := NewVersionsModel(config.Default())
	m.SetCatalog([]catalog.Entry{
		{ID: "1.20.1", Type: core.VersionTypeRelease},
	}, "")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd != nil {
		t.Errorf("delete on uninstalled entry emitted %T, want nothing", cmd())
	}
}

func TestVersionsModel_FavoriteTogglePersists(t *testing.T) {
	settings := config.Default()
	m := NewVersionsModel(settings)
	m.SetCatalog(testCatalog(), "1.21.4")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if len(settings.FavoriteVersions) != 1 || settings.FavoriteVersions[0] != "1.21.4" {
		t.Errorf("FavoriteVersions = %v, want [1.21.4]", settings.FavoriteVersions)
	}
	if !m.entries[0].Favorite {
		t.Error("catalog entry not marked favorite")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if len(settings.FavoriteVersions) != 0 {
		t.Errorf("FavoriteVersions after untoggle = %v, want empty", settings.FavoriteVersions)
	}
}

func TestVersionsModel_InstalledCount(t *testing.T) {
	m := NewVersionsModel(config.Default())
	m.SetCatalog(testCatalog(), "1.21.4")

	if got := m.InstalledCount(); got != 2 {
		t.Errorf("InstalledCount() = %d, want 2", got)
	}
}

func TestNextLoader_Cycles(t *testing.T) {
	tests := []struct {
		current core.LoaderType
		want    core.LoaderType
	}{
		{core.LoaderVanilla, core.LoaderFabric},
		{core.LoaderFabric, core.LoaderForge},
		{core.LoaderForge, core.LoaderQuilt},
		{core.LoaderQuilt, core.LoaderVanilla},
		{core.LoaderType("bogus"), core.LoaderVanilla},
	}

	for _, tt := range tests {
		if got := nextLoader(tt.current); got != tt.want {
			t.Errorf("nextLoader(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}
