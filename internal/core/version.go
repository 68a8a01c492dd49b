// Package core holds the launcher's domain model: version identity,
// launch resolution, and the recents/statistics tracker.
package core

import (
	"strings"
	"unicode"
)

// VersionType represents the type of Minecraft version
type VersionType string

const (
	VersionTypeRelease  VersionType = "release"
	VersionTypeSnapshot VersionType = "snapshot"
	VersionTypeOldBeta  VersionType = "old_beta"
	VersionTypeOldAlpha VersionType = "old_alpha"
	// VersionTypeModded marks ids found on disk but unknown to the
	// remote manifest (loader profiles, custom builds).
	VersionTypeModded VersionType = "modded"
)

// LoaderType represents the mod loader type
type LoaderType string

const (
	LoaderVanilla LoaderType = "vanilla"
	LoaderFabric  LoaderType = "fabric"
	LoaderForge   LoaderType = "forge"
	LoaderQuilt   LoaderType = "quilt"
)

// Loaders lists the selectable loaders in display order.
func Loaders() []LoaderType {
	return []LoaderType{LoaderVanilla, LoaderFabric, LoaderForge, LoaderQuilt}
}

// ParseLoader normalizes a stored loader name, defaulting to vanilla.
func ParseLoader(s string) LoaderType {
	switch LoaderType(strings.ToLower(strings.TrimSpace(s))) {
	case LoaderFabric:
		return LoaderFabric
	case LoaderForge:
		return LoaderForge
	case LoaderQuilt:
		return LoaderQuilt
	default:
		return LoaderVanilla
	}
}

// VersionID identifies a game version or a derived loader build. It is
// only constructed through ParseVersionID, so holding one means the
// selection already passed validation.
type VersionID string

func (v VersionID) String() string { return string(v) }

// placeholderToken is the selection widget's prompt text. It leaks into
// stored settings when nothing was ever picked.
const placeholderToken = "value"

// ParseVersionID validates a raw version selection. It rejects empty
// input, the widget placeholder, and strings without any digit (version
// ids always carry at least one, UI labels never do).
func ParseVersionID(raw string) (VersionID, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, placeholderToken) {
		return "", &InvalidVersionError{Value: raw}
	}
	if !strings.ContainsFunc(s, unicode.IsDigit) {
		return "", &InvalidVersionError{Value: raw}
	}
	return VersionID(s), nil
}

// Variant names a loader build of a base version. The canonical id is
// "<loader>-<base>"; LegacyID keeps the reversed spelling older
// installs used on disk.
type Variant struct {
	Base   VersionID
	Loader LoaderType
}

func (v Variant) ID() VersionID {
	return VersionID(string(v.Loader) + "-" + string(v.Base))
}

func (v Variant) LegacyID() VersionID {
	return VersionID(string(v.Base) + "-" + string(v.Loader))
}

// InstalledSet is the set of version ids present on disk at one point
// in time. Callers rebuild it per resolution instead of caching it.
type InstalledSet map[VersionID]struct{}

// NewInstalledSet builds a set from the given ids.
func NewInstalledSet(ids ...VersionID) InstalledSet {
	s := make(InstalledSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s InstalledSet) Add(id VersionID) { s[id] = struct{}{} }

func (s InstalledSet) Has(id VersionID) bool {
	_, ok := s[id]
	return ok
}

func (s InstalledSet) Len() int { return len(s) }
