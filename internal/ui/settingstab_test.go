package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quasar/mclaunch/internal/config"
)

func TestSettingsCommit_Username(t *testing.T) {
	settings := config.Default()
	m := NewSettingsModel(settings)

	cmd := m.commit(fieldUsername, "  Steve  ")
	if settings.Username != "Steve" {
		t.Errorf("Username = %q, want %q", settings.Username, "Steve")
	}
	if _, ok := cmd().(SettingsChanged); !ok {
		t.Errorf("commit emitted %T, want SettingsChanged", cmd())
	}

	cmd = m.commit(fieldUsername, "   ")
	if f, ok := cmd().(Flash); !ok || !f.IsError {
		t.Errorf("empty username emitted %#v, want error flash", cmd())
	}
	if settings.Username != "Steve" {
		t.Errorf("Username = %q after rejected edit, want %q", settings.Username, "Steve")
	}
}

func TestSettingsCommit_RAMClampsAndRejects(t *testing.T) {
	settings := config.Default()
	m := NewSettingsModel(settings)

	m.commit(fieldRAM, "99999")
	if settings.AllocatedRAM != 16384 {
		t.Errorf("AllocatedRAM = %d, want clamped to 16384", settings.AllocatedRAM)
	}

	m.commit(fieldRAM, "256")
	if settings.AllocatedRAM != 1024 {
		t.Errorf("AllocatedRAM = %d, want clamped to 1024", settings.AllocatedRAM)
	}

	cmd := m.commit(fieldRAM, "lots")
	if f, ok := cmd().(Flash); !ok || !f.IsError {
		t.Errorf("bad number emitted %#v, want error flash", cmd())
	}
	if settings.AllocatedRAM != 1024 {
		t.Errorf("AllocatedRAM = %d after rejected edit, want 1024", settings.AllocatedRAM)
	}
}

func TestSettingsCommit_WindowSize(t *testing.T) {
	settings := config.Default()
	m := NewSettingsModel(settings)

	m.commit(fieldWidth, "1280")
	if settings.WindowWidth != 1280 {
		t.Errorf("WindowWidth = %d, want 1280", settings.WindowWidth)
	}

	cmd := m.commit(fieldHeight, "-5")
	if f, ok := cmd().(Flash); !ok || !f.IsError {
		t.Errorf("negative size emitted %#v, want error flash", cmd())
	}

	cmd = m.commit(fieldHeight, "tall")
	if f, ok := cmd().(Flash); !ok || !f.IsError {
		t.Errorf("bad size emitted %#v, want error flash", cmd())
	}
}

func TestSettingsDisplayValue(t *testing.T) {
	settings := config.Default()
	m := NewSettingsModel(settings)

	if got := m.displayValue(fieldJavaPath); got != "(auto)" {
		t.Errorf("empty java path = %q, want %q", got, "(auto)")
	}
	settings.JavaPath = "/usr/bin/java"
	if got := m.displayValue(fieldJavaPath); got != "/usr/bin/java" {
		t.Errorf("java path = %q", got)
	}

	if got := m.displayValue(fieldRAM); got != "4096 MB" {
		t.Errorf("ram = %q, want %q", got, "4096 MB")
	}

	if got := m.displayValue(fieldJVMArgs); got != "(none)" {
		t.Errorf("empty jvm args = %q, want %q", got, "(none)")
	}
	settings.CustomJVMArgs = "-Xss1M\n-Dfoo=bar"
	if got := m.displayValue(fieldJVMArgs); got != "-Xss1M -Dfoo=bar" {
		t.Errorf("jvm args = %q, want single line", got)
	}

	if got := m.displayValue(fieldFullscreen); got != "off" {
		t.Errorf("fullscreen = %q, want %q", got, "off")
	}
}

func TestSettingsStartEdit_TogglesThemeInPlace(t *testing.T) {
	defer ApplyTheme("dark")

	settings := config.Default()
	settings.Theme = "light"
	m := NewSettingsModel(settings)
	m.cursor = fieldTheme

	cmd := m.startEdit()
	if settings.Theme != "dark" {
		t.Errorf("Theme = %q, want %q", settings.Theme, "dark")
	}
	if m.Editing() {
		t.Error("theme toggle entered edit mode")
	}
	if _, ok := cmd().(SettingsChanged); !ok {
		t.Errorf("theme toggle emitted %T, want SettingsChanged", cmd())
	}
}

func TestSettingsModel_PathPromptEmitsRequests(t *testing.T) {
	settings := config.Default()
	m := NewSettingsModel(settings)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	if !m.Editing() {
		t.Fatal("import key did not open the path prompt")
	}
	m.input.SetValue("/tmp/backup.json")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("prompt enter produced no command")
	}
	req, ok := cmd().(RequestSettingsImport)
	if !ok {
		t.Fatalf("prompt emitted %T, want RequestSettingsImport", cmd())
	}
	if req.Path != "/tmp/backup.json" {
		t.Errorf("import path = %q", req.Path)
	}

	// Empty path cancels without a request.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m.input.SetValue("")
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Errorf("empty path emitted %T, want nothing", cmd())
	}
	if m.Editing() {
		t.Error("still in prompt mode after enter")
	}
}
