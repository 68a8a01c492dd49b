// Package catalog merges the remote version manifest with the versions
// installed on disk into one displayable list.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/quasar/mclaunch/internal/core"
)

// Entry is one row of the version list.
type Entry struct {
	ID          core.VersionID
	Type        core.VersionType
	ReleaseTime time.Time
	Installed   bool
	Favorite    bool
}

// ScanInstalled derives the installed set from disk. A version counts
// as installed iff versions/<id>/<id>.json exists. The set is rebuilt
// on every call so it always reflects the current disk state.
func ScanInstalled(versionsDir string) core.InstalledSet {
	set := core.NewInstalledSet()

	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return set
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id := e.Name()
		if _, err := os.Stat(filepath.Join(versionsDir, id, id+".json")); err == nil {
			set.Add(core.VersionID(id))
		}
	}
	return set
}

// Merge combines manifest versions with the installed set. Installed
// ids the manifest does not know (loader profiles, custom builds) are
// tagged modded. The result is sorted newest first.
func Merge(manifest *core.VersionManifest, installed core.InstalledSet, favorites []string) []Entry {
	favs := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		favs[f] = struct{}{}
	}
	isFav := func(id core.VersionID) bool {
		_, ok := favs[id.String()]
		return ok
	}

	var entries []Entry
	seen := make(map[core.VersionID]struct{})
	if manifest != nil {
		entries = make([]Entry, 0, len(manifest.Versions)+installed.Len())
		for _, v := range manifest.Versions {
			seen[v.ID] = struct{}{}
			entries = append(entries, Entry{
				ID:          v.ID,
				Type:        v.Type,
				ReleaseTime: v.ReleaseTime,
				Installed:   installed.Has(v.ID),
				Favorite:    isFav(v.ID),
			})
		}
	}
	for id := range installed {
		if _, ok := seen[id]; ok {
			continue
		}
		entries = append(entries, Entry{
			ID:        id,
			Type:      core.VersionTypeModded,
			Installed: true,
			Favorite:  isFav(id),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})
	return entries
}

// less orders entries newest first. Entries with a release time come
// before undated (modded) ones; undated entries fall back to id
// comparison.
func less(a, b Entry) bool {
	aZero, bZero := a.ReleaseTime.IsZero(), b.ReleaseTime.IsZero()
	switch {
	case !aZero && !bZero:
		if !a.ReleaseTime.Equal(b.ReleaseTime) {
			return a.ReleaseTime.After(b.ReleaseTime)
		}
		return CompareIDs(a.ID.String(), b.ID.String()) > 0
	case aZero != bZero:
		return bZero
	default:
		return CompareIDs(a.ID.String(), b.ID.String()) > 0
	}
}

// CompareIDs compares version ids numerically when both parse as
// versions ("1.9" sorts below "1.10"), falling back to a plain string
// comparison for composite or snapshot ids.
func CompareIDs(a, b string) int {
	av, aErr := semver.NewVersion(a)
	bv, bErr := semver.NewVersion(b)
	if aErr == nil && bErr == nil {
		return av.Compare(bv)
	}
	return strings.Compare(a, b)
}

// Filter returns the entries whose id contains the query,
// case-insensitively. An empty query returns the input unchanged.
func Filter(entries []Entry, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}
	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.ID.String()), query) {
			out = append(out, e)
		}
	}
	return out
}
