// Package mods manages the mods and resourcepacks folders of the game
// directory. Mods are disabled by moving them into a disabled
// subfolder, so the game never sees them but nothing is lost.
package mods

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skratchdot/open-golang/open"
)

// openPath opens a folder in the system file browser. Swapped in
// tests.
var openPath = open.Run

// Mod is one mod jar, enabled or not.
type Mod struct {
	Name    string
	Path    string
	Enabled bool
	Size    int64
}

// Resourcepack is one pack: a zip file or an unpacked directory.
type Resourcepack struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Manager operates on the mods and resourcepacks folders under one
// game directory.
type Manager struct {
	gameDir string
}

// NewManager creates a manager for gameDir.
func NewManager(gameDir string) *Manager {
	return &Manager{gameDir: gameDir}
}

// ModsDir is where enabled mods live.
func (m *Manager) ModsDir() string {
	return filepath.Join(m.gameDir, "mods")
}

func (m *Manager) disabledDir() string {
	return filepath.Join(m.ModsDir(), "disabled")
}

// PacksDir is the resourcepacks folder.
func (m *Manager) PacksDir() string {
	return filepath.Join(m.gameDir, "resourcepacks")
}

// List returns every mod, enabled and disabled, sorted by name.
func (m *Manager) List() ([]Mod, error) {
	var mods []Mod

	collect := func(dir string, enabled bool) error {
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jar") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			mods = append(mods, Mod{
				Name:    entry.Name(),
				Path:    filepath.Join(dir, entry.Name()),
				Enabled: enabled,
				Size:    info.Size(),
			})
		}
		return nil
	}

	if err := collect(m.ModsDir(), true); err != nil {
		return nil, err
	}
	if err := collect(m.disabledDir(), false); err != nil {
		return nil, err
	}

	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
	return mods, nil
}

// Add copies a jar from sourcePath into the mods folder.
func (m *Manager) Add(sourcePath string) (Mod, error) {
	if !strings.HasSuffix(sourcePath, ".jar") {
		return Mod{}, fmt.Errorf("%s is not a jar file", filepath.Base(sourcePath))
	}

	name := filepath.Base(sourcePath)
	dest := filepath.Join(m.ModsDir(), name)
	size, err := copyFile(sourcePath, dest)
	if err != nil {
		return Mod{}, fmt.Errorf("adding mod %s: %w", name, err)
	}
	return Mod{Name: name, Path: dest, Enabled: true, Size: size}, nil
}

// Remove deletes a mod by name, wherever it currently sits.
func (m *Manager) Remove(name string) error {
	for _, dir := range []string{m.ModsDir(), m.disabledDir()} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return os.Remove(path)
		}
	}
	return fmt.Errorf("no mod named %s", name)
}

// Toggle flips a mod between enabled and disabled by moving its file.
// It reports the new state.
func (m *Manager) Toggle(name string) (bool, error) {
	enabled := filepath.Join(m.ModsDir(), name)
	disabled := filepath.Join(m.disabledDir(), name)

	if _, err := os.Stat(enabled); err == nil {
		if err := os.MkdirAll(m.disabledDir(), 0755); err != nil {
			return false, err
		}
		if err := os.Rename(enabled, disabled); err != nil {
			return false, fmt.Errorf("disabling %s: %w", name, err)
		}
		return false, nil
	}

	if _, err := os.Stat(disabled); err == nil {
		if err := os.Rename(disabled, enabled); err != nil {
			return false, fmt.Errorf("enabling %s: %w", name, err)
		}
		return true, nil
	}

	return false, fmt.Errorf("no mod named %s", name)
}

// OpenFolder shows the mods folder in the system file browser.
func (m *Manager) OpenFolder() error {
	if err := os.MkdirAll(m.ModsDir(), 0755); err != nil {
		return err
	}
	return openPath(m.ModsDir())
}

// Packs lists the resourcepacks folder: zip packs and unpacked
// directories, sorted by name.
func (m *Manager) Packs() ([]Resourcepack, error) {
	entries, err := os.ReadDir(m.PacksDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading resourcepacks: %w", err)
	}

	var packs []Resourcepack
	for _, entry := range entries {
		if !entry.IsDir() && !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		packs = append(packs, Resourcepack{
			Name:  entry.Name(),
			Path:  filepath.Join(m.PacksDir(), entry.Name()),
			IsDir: entry.IsDir(),
			Size:  info.Size(),
		})
	}

	sort.Slice(packs, func(i, j int) bool { return packs[i].Name < packs[j].Name })
	return packs, nil
}

// AddPack copies a zip pack into the resourcepacks folder.
func (m *Manager) AddPack(sourcePath string) (Resourcepack, error) {
	if !strings.HasSuffix(sourcePath, ".zip") {
		return Resourcepack{}, fmt.Errorf("%s is not a zip file", filepath.Base(sourcePath))
	}

	name := filepath.Base(sourcePath)
	dest := filepath.Join(m.PacksDir(), name)
	size, err := copyFile(sourcePath, dest)
	if err != nil {
		return Resourcepack{}, fmt.Errorf("adding resourcepack %s: %w", name, err)
	}
	return Resourcepack{Name: name, Path: dest, Size: size}, nil
}

// RemovePack deletes a pack by name. Directory packs are removed
// recursively.
func (m *Manager) RemovePack(name string) error {
	path := filepath.Join(m.PacksDir(), name)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("no resourcepack named %s", name)
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// OpenPacksFolder shows the resourcepacks folder in the system file
// browser.
func (m *Manager) OpenPacksFolder() error {
	if err := os.MkdirAll(m.PacksDir(), 0755); err != nil {
		return err
	}
	return openPath(m.PacksDir())
}

func copyFile(src, dest string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, err
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	size, err := io.Copy(out, in)
	if err != nil {
		os.Remove(dest)
		return 0, err
	}
	return size, out.Close()
}
