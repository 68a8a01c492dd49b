// Package config persists launcher settings as a flat JSON document.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quasar/mclaunch/internal/core"
)

// Settings is the launcher_settings.json document. Keys written by
// other tools or newer builds survive a load/save cycle untouched (see
// extra); the rest of the launcher only ever reads the fields below.
type Settings struct {
	SelectedVersion      string                  `json:"selected_version"`
	SelectedModLoader    core.LoaderType         `json:"selected_mod_loader"`
	JavaPath             string                  `json:"java_path"`
	AllocatedRAM         int                     `json:"allocated_ram"`
	Username             string                  `json:"username"`
	WindowWidth          int                     `json:"window_width"`
	WindowHeight         int                     `json:"window_height"`
	Fullscreen           bool                    `json:"fullscreen"`
	CustomJVMArgs        string                  `json:"custom_jvm_args"` // newline-separated
	ServerIP             string                  `json:"server_ip"`
	ServerPort           string                  `json:"server_port"`
	FavoriteVersions     []string                `json:"favorite_versions"`
	RecentVersions       []string                `json:"recent_versions"`
	Theme                string                  `json:"theme"`
	Statistics           core.Statistics         `json:"statistics"`
	Profiles             map[string]core.Profile `json:"profiles"`
	SavedServers         []string                `json:"saved_servers"`
	DisabledMods         []string                `json:"disabled_mods"`
	EnabledResourcepacks []string                `json:"enabled_resourcepacks"`
	CurrentProfile       string                  `json:"current_profile"`

	extra map[string]json.RawMessage
}

// knownKeys mirrors the json tags above. TestKnownKeysComplete keeps
// the two in sync.
var knownKeys = []string{
	"selected_version", "selected_mod_loader", "java_path",
	"allocated_ram", "username", "window_width", "window_height",
	"fullscreen", "custom_jvm_args", "server_ip", "server_port",
	"favorite_versions", "recent_versions", "theme", "statistics",
	"profiles", "saved_servers", "disabled_mods",
	"enabled_resourcepacks", "current_profile",
}

// Default returns the settings a fresh install starts from.
func Default() *Settings {
	return &Settings{
		SelectedModLoader:    core.LoaderVanilla,
		AllocatedRAM:         4096,
		Username:             "Player",
		WindowWidth:          854,
		WindowHeight:         480,
		ServerPort:           core.DefaultServerPort,
		Theme:                "light",
		Statistics:           core.Statistics{VersionCounts: map[string]int{}},
		Profiles:             map[string]core.Profile{},
		FavoriteVersions:     []string{},
		RecentVersions:       []string{},
		SavedServers:         []string{},
		DisabledMods:         []string{},
		EnabledResourcepacks: []string{},
	}
}

type settingsAlias Settings

// UnmarshalJSON overlays the document onto the current values, so
// loading over Default() keeps defaults for absent keys. Unknown keys
// accumulate in extra.
func (s *Settings) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, (*settingsAlias)(s)); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range knownKeys {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil
	}
	if s.extra == nil {
		s.extra = make(map[string]json.RawMessage, len(raw))
	}
	for k, v := range raw {
		s.extra[k] = v
	}
	return nil
}

// MarshalJSON emits the known keys plus any preserved unknown ones.
func (s *Settings) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal((*settingsAlias)(s))
	if err != nil {
		return nil, err
	}
	if len(s.extra) == 0 {
		return known, nil
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(known, &out); err != nil {
		return nil, err
	}
	for k, v := range s.extra {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// Load reads the settings document at path. A missing file yields
// defaults; a corrupt one is an error so the caller can decide whether
// to overwrite it.
func Load(path string) (*Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// Save writes the document to path. Export is the same operation with
// a user-chosen destination.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Reset discards every customization, including preserved unknown
// keys, returning the document to what a fresh install starts from.
func (s *Settings) Reset() {
	*s = *Default()
}

// Import merges the document at path over the current settings. Keys
// present in the file win; everything else keeps its current value,
// and unknown keys from both sides are preserved.
func (s *Settings) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// LaunchRequest snapshots the current settings into a resolver input.
// RAM is clamped here so a hand-edited file cannot produce an
// allocation outside the supported range.
func (s *Settings) LaunchRequest() core.LaunchRequest {
	javaPath := strings.TrimSpace(s.JavaPath)
	if javaPath == "" {
		javaPath = "java"
	}
	return core.LaunchRequest{
		BaseVersion:   s.SelectedVersion,
		ModLoader:     core.ParseLoader(string(s.SelectedModLoader)),
		Username:      s.Username,
		RAMMegabytes:  core.ClampRAM(s.AllocatedRAM),
		CustomJVMArgs: SplitJVMArgs(s.CustomJVMArgs),
		WindowWidth:   s.WindowWidth,
		WindowHeight:  s.WindowHeight,
		Fullscreen:    s.Fullscreen,
		ServerHost:    s.ServerIP,
		ServerPort:    s.ServerPort,
		JavaPath:      javaPath,
	}
}

// SplitJVMArgs splits the newline-separated custom_jvm_args value into
// one flag per entry. Entries are not trimmed here; the resolver trims
// and drops blanks.
func SplitJVMArgs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(strings.TrimSpace(raw), "\n")
}

// IsFavorite reports whether id is in favorite_versions.
func (s *Settings) IsFavorite(id string) bool {
	for _, f := range s.FavoriteVersions {
		if f == id {
			return true
		}
	}
	return false
}

// ToggleFavorite flips id's favorite state and reports the new state.
func (s *Settings) ToggleFavorite(id string) bool {
	for i, f := range s.FavoriteVersions {
		if f == id {
			s.FavoriteVersions = append(s.FavoriteVersions[:i], s.FavoriteVersions[i+1:]...)
			return false
		}
	}
	s.FavoriteVersions = append(s.FavoriteVersions, id)
	return true
}

// AddServer stores "host:port" in saved_servers. An empty port gets the
// default. Reports the entry and whether it was newly added.
func (s *Settings) AddServer(host, port string) (string, bool) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", false
	}
	port = strings.TrimSpace(port)
	if port == "" {
		port = core.DefaultServerPort
	}
	entry := host + ":" + port
	for _, e := range s.SavedServers {
		if e == entry {
			return entry, false
		}
	}
	s.SavedServers = append(s.SavedServers, entry)
	return entry, true
}

// RemoveServer deletes an exact saved_servers entry.
func (s *Settings) RemoveServer(entry string) {
	for i, e := range s.SavedServers {
		if e == entry {
			s.SavedServers = append(s.SavedServers[:i], s.SavedServers[i+1:]...)
			return
		}
	}
}

// SplitServerAddress parses a saved_servers entry into host and port,
// defaulting the port when the entry has none.
func SplitServerAddress(entry string) (host, port string) {
	host, port, ok := strings.Cut(entry, ":")
	if !ok || strings.TrimSpace(port) == "" {
		port = core.DefaultServerPort
	}
	return host, port
}

// SaveProfile snapshots the current selection under name.
func (s *Settings) SaveProfile(name string, at time.Time) {
	if s.Profiles == nil {
		s.Profiles = make(map[string]core.Profile)
	}
	s.Profiles[name] = core.NewProfile(
		s.SelectedVersion,
		s.AllocatedRAM,
		core.ParseLoader(string(s.SelectedModLoader)),
		s.Username,
		at,
	)
	s.CurrentProfile = name
}

// ApplyProfile copies a stored profile back into the live selection.
func (s *Settings) ApplyProfile(name string) bool {
	p, ok := s.Profiles[name]
	if !ok {
		return false
	}
	s.SelectedVersion = p.Version
	s.AllocatedRAM = p.RAM
	s.SelectedModLoader = p.ModLoader
	s.Username = p.Username
	s.CurrentProfile = name
	return true
}

// DeleteProfile removes a stored profile, clearing current_profile if
// it pointed at it.
func (s *Settings) DeleteProfile(name string) {
	delete(s.Profiles, name)
	if s.CurrentProfile == name {
		s.CurrentProfile = ""
	}
}

// ExportProfile writes {name: profile} to path.
func (s *Settings) ExportProfile(name, path string) error {
	p, ok := s.Profiles[name]
	if !ok {
		return fmt.Errorf("no profile named %q", name)
	}
	data, err := json.MarshalIndent(map[string]core.Profile{name: p}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportProfiles merges a {name: profile} document into the profiles
// map, overwriting same-named entries.
func (s *Settings) ImportProfiles(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var imported map[string]core.Profile
	if err := json.Unmarshal(data, &imported); err != nil {
		return 0, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if s.Profiles == nil {
		s.Profiles = make(map[string]core.Profile, len(imported))
	}
	for name, p := range imported {
		s.Profiles[name] = p
	}
	return len(imported), nil
}
