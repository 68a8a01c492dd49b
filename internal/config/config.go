package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// SettingsFileName is the settings document inside the data dir.
const SettingsFileName = "launcher_settings.json"

// SettingsPath locates the settings document under dataDir.
func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, SettingsFileName)
}

// DefaultDataDir resolves where launcher state lives.
func DefaultDataDir() string {
	// Check for portable mode first
	exe, _ := os.Executable()
	portablePath := filepath.Join(filepath.Dir(exe), "data")
	if _, err := os.Stat(portablePath); err == nil {
		return portablePath
	}

	// Use XDG/platform-specific directories
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mclaunch")
	}

	home, _ := os.UserHomeDir()
	switch {
	case os.Getenv("APPDATA") != "": // Windows
		return filepath.Join(os.Getenv("APPDATA"), "mclaunch")
	case runtime.GOOS == "darwin":
		return filepath.Join(home, "Library", "Application Support", "mclaunch")
	default: // Linux
		return filepath.Join(home, ".local", "share", "mclaunch")
	}
}

// DefaultGameDir resolves the platform-standard game directory the
// installed versions, mods and assets live under.
func DefaultGameDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, ".minecraft")
		}
		return filepath.Join(home, ".minecraft")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "minecraft")
	default:
		return filepath.Join(home, ".minecraft")
	}
}

// EnsureGameDirs creates the game directory skeleton the launcher
// reads and writes.
func EnsureGameDirs(gameDir string) error {
	dirs := []string{
		gameDir,
		filepath.Join(gameDir, "versions"),
		filepath.Join(gameDir, "libraries"),
		filepath.Join(gameDir, "assets"),
		filepath.Join(gameDir, "mods"),
		filepath.Join(gameDir, "mods", "disabled"),
		filepath.Join(gameDir, "resourcepacks"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
