package core

import "time"

// RecentVersionsMax bounds the recently-launched list.
const RecentVersionsMax = 10

// statsTimeLayout matches the timestamp format older settings files
// already contain.
const statsTimeLayout = "2006-01-02 15:04:05"

// Statistics aggregates launch history. It is stored inside the
// settings document and must only be updated after the backend confirms
// a process actually started.
type Statistics struct {
	TotalLaunches   int            `json:"total_launches"`
	TotalPlaytime   int64          `json:"total_playtime"` // seconds
	MostUsedVersion string         `json:"most_used_version"`
	LastLaunch      string         `json:"last_launch"`
	VersionCounts   map[string]int `json:"version_counts"`
}

// RecordLaunch counts a confirmed start of the given version.
func (s *Statistics) RecordLaunch(id VersionID, at time.Time) {
	if s.VersionCounts == nil {
		s.VersionCounts = make(map[string]int)
	}
	s.TotalLaunches++
	s.VersionCounts[id.String()]++
	s.LastLaunch = at.Format(statsTimeLayout)
	s.MostUsedVersion = s.mostUsed()
}

// mostUsed picks the highest launch count, ties broken by id so the
// result does not depend on map order.
func (s *Statistics) mostUsed() string {
	best := ""
	bestCount := 0
	for id, n := range s.VersionCounts {
		if n > bestCount || (n == bestCount && bestCount > 0 && id < best) {
			best = id
			bestCount = n
		}
	}
	return best
}

// AddPlaytime accumulates time between a confirmed start and the
// process exiting.
func (s *Statistics) AddPlaytime(d time.Duration) {
	if d > 0 {
		s.TotalPlaytime += int64(d / time.Second)
	}
}

// LastLaunchTime parses the stored timestamp for display.
func (s *Statistics) LastLaunchTime() (time.Time, bool) {
	if s.LastLaunch == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(statsTimeLayout, s.LastLaunch, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PushRecent appends id to the recents list, most recent last. An id
// already present moves to the end instead of duplicating, and the
// list is trimmed to RecentVersionsMax from the front.
func PushRecent(recents []string, id VersionID) []string {
	out := make([]string, 0, len(recents)+1)
	for _, r := range recents {
		if r != id.String() {
			out = append(out, r)
		}
	}
	out = append(out, id.String())
	if len(out) > RecentVersionsMax {
		out = out[len(out)-RecentVersionsMax:]
	}
	return out
}
