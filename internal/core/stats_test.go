package core

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func TestPushRecent_MoveToEnd(t *testing.T) {
	recents := []string{"1.19.4", "1.20.1", "1.21"}

	got := PushRecent(recents, "1.20.1")
	want := []string{"1.19.4", "1.21", "1.20.1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PushRecent = %v, want %v", got, want)
	}
}

func TestPushRecent_Bounded(t *testing.T) {
	var recents []string
	for i := 0; i < 12; i++ {
		recents = PushRecent(recents, VersionID(fmt.Sprintf("1.%d", i)))
	}

	if len(recents) != RecentVersionsMax {
		t.Fatalf("len = %d, want %d", len(recents), RecentVersionsMax)
	}
	if recents[0] != "1.2" {
		t.Errorf("oldest = %q, want 1.2", recents[0])
	}
	if recents[len(recents)-1] != "1.11" {
		t.Errorf("newest = %q, want 1.11", recents[len(recents)-1])
	}
}

func TestStatistics_RecordLaunch(t *testing.T) {
	var stats Statistics
	at := time.Date(2024, 3, 15, 18, 30, 0, 0, time.Local)

	stats.RecordLaunch("1.20.1", at)
	stats.RecordLaunch("1.20.1", at.Add(time.Hour))
	stats.RecordLaunch("fabric-1.20.1", at.Add(2*time.Hour))

	if stats.TotalLaunches != 3 {
		t.Errorf("TotalLaunches = %d, want 3", stats.TotalLaunches)
	}
	if stats.VersionCounts["1.20.1"] != 2 {
		t.Errorf("count for 1.20.1 = %d, want 2", stats.VersionCounts["1.20.1"])
	}
	if stats.MostUsedVersion != "1.20.1" {
		t.Errorf("MostUsedVersion = %q, want 1.20.1", stats.MostUsedVersion)
	}
	if stats.LastLaunch != "2024-03-15 20:30:00" {
		t.Errorf("LastLaunch = %q", stats.LastLaunch)
	}

	parsed, ok := stats.LastLaunchTime()
	if !ok {
		t.Fatal("LastLaunchTime not parseable")
	}
	if !parsed.Equal(at.Add(2 * time.Hour)) {
		t.Errorf("LastLaunchTime = %v", parsed)
	}
}

func TestStatistics_MostUsedTieBreak(t *testing.T) {
	var stats Statistics
	now := time.Now()

	stats.RecordLaunch("1.21", now)
	stats.RecordLaunch("1.20.1", now)

	if stats.MostUsedVersion != "1.20.1" {
		t.Errorf("MostUsedVersion = %q, want lexicographic tie-break 1.20.1", stats.MostUsedVersion)
	}
}

func TestStatistics_AddPlaytime(t *testing.T) {
	var stats Statistics

	stats.AddPlaytime(90 * time.Second)
	stats.AddPlaytime(-5 * time.Second)

	if stats.TotalPlaytime != 90 {
		t.Errorf("TotalPlaytime = %d, want 90", stats.TotalPlaytime)
	}
}

func TestStatistics_LastLaunchTimeEmpty(t *testing.T) {
	var stats Statistics

	if _, ok := stats.LastLaunchTime(); ok {
		t.Error("expected no timestamp for zero statistics")
	}
}
