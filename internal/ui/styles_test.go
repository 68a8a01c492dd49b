package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestBuildHelpText_SingleLine(t *testing.T) {
	items := []string{"[a] one", "[b] two", "[c] three"}
	result := buildHelpText(items, 100)

	if strings.Contains(result, "\n") {
		t.Errorf("Expected single line, got: %q", result)
	}
	if !strings.Contains(result, "[a] one") {
		t.Error("Missing first item")
	}
	if !strings.Contains(result, " • ") {
		t.Error("Missing separator")
	}
}

func TestBuildHelpText_MultiLine(t *testing.T) {
	items := []string{"[enter] launch", "[n] new", "[f] folder", "[d] delete", "[q] quit"}
	result := buildHelpText(items, 40)

	lines := strings.Split(result, "\n")
	if len(lines) < 2 {
		t.Errorf("Expected multiple lines for narrow width, got: %q", result)
	}
	for _, line := range lines {
		if len(line) > 40 {
			t.Errorf("Line exceeds max width: %q (len=%d)", line, len(line))
		}
	}
}

func TestBuildHelpText_ItemsStayTogether(t *testing.T) {
	items := []string{"[enter] launch game", "[n] new"}
	result := buildHelpText(items, 25)

	if !strings.Contains(result, "[enter] launch game") {
		t.Error("First item was split")
	}
	if !strings.Contains(result, "[n] new") {
		t.Error("Second item was split")
	}
}

func TestBuildHelpText_EmptyItems(t *testing.T) {
	result := buildHelpText([]string{}, 80)
	if result != "" {
		t.Errorf("Expected empty result for empty items, got: %q", result)
	}
}

func TestBuildHelpText_VerySmallWidth(t *testing.T) {
	items := []string{"[a] test", "[b] item"}
	result := buildHelpText(items, 5)

	// Each item lands on its own line rather than being cut.
	if !strings.Contains(result, "[a] test") || !strings.Contains(result, "[b] item") {
		t.Error("Items should still appear in output")
	}
}

func TestBuildHelpText_DefaultWidth(t *testing.T) {
	items := []string{"[a] test"}
	result := buildHelpText(items, 0)

	if result != "[a] test" {
		t.Errorf("Expected item to appear unchanged, got: %q", result)
	}
}

func TestApplyTheme_SwapsNeutrals(t *testing.T) {
	defer ApplyTheme("dark")

	ApplyTheme("light")
	lightText := ColorText

	ApplyTheme("dark")
	if ColorText == lightText {
		t.Error("Expected text color to change between themes")
	}
	if ColorText != lipgloss.Color("#FAFAFA") {
		t.Errorf("Unexpected dark theme text color: %v", ColorText)
	}
}

func TestApplyTheme_UnknownNameFallsBackToDark(t *testing.T) {
	defer ApplyTheme("dark")

	ApplyTheme("light")
	ApplyTheme("solarized")
	if ColorText != lipgloss.Color("#FAFAFA") {
		t.Errorf("Unknown theme should use dark neutrals, got: %v", ColorText)
	}
}
