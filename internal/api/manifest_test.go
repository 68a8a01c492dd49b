package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasar/mclaunch/internal/core"
)

func manifestJSON(detailsURL string) string {
	return fmt.Sprintf(`{
		"latest": {"release": "1.20.1", "snapshot": "24w14a"},
		"versions": [
			{"id": "24w14a", "type": "snapshot", "url": "%s/24w14a.json", "releaseTime": "2024-04-03T10:00:00+00:00"},
			{"id": "1.20.1", "type": "release", "url": "%s/1.20.1.json", "releaseTime": "2023-06-12T10:00:00+00:00"}
		]
	}`, detailsURL, detailsURL)
}

func TestGetManifest_CachedWithinTTL(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, manifestJSON("http://unused.invalid"))
	}))
	defer srv.Close()

	c := NewManifestClient(t.TempDir())
	c.manifestURL = srv.URL

	if _, err := c.GetManifest(context.Background()); err != nil {
		t.Fatalf("first GetManifest failed: %v", err)
	}
	manifest, err := c.GetManifest(context.Background())
	if err != nil {
		t.Fatalf("second GetManifest failed: %v", err)
	}

	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (TTL cache)", hits)
	}
	if manifest.Latest.Release != "1.20.1" {
		t.Errorf("Latest.Release = %q", manifest.Latest.Release)
	}
	if len(manifest.Versions) != 2 {
		t.Errorf("len(Versions) = %d, want 2", len(manifest.Versions))
	}
}

func TestGetManifest_RefetchesAfterTTL(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, manifestJSON("http://unused.invalid"))
	}))
	defer srv.Close()

	c := NewManifestClient(t.TempDir())
	c.manifestURL = srv.URL
	c.manifestTTL = time.Nanosecond

	if _, err := c.GetManifest(context.Background()); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, err := c.GetManifest(context.Background()); err != nil {
		t.Fatal(err)
	}

	if hits != 2 {
		t.Errorf("server hits = %d, want 2", hits)
	}
}

func TestFindEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, manifestJSON("http://unused.invalid"))
	}))
	defer srv.Close()

	c := NewManifestClient(t.TempDir())
	c.manifestURL = srv.URL

	entry, err := c.FindEntry(context.Background(), "1.20.1")
	if err != nil {
		t.Fatalf("FindEntry failed: %v", err)
	}
	if entry.Type != core.VersionTypeRelease {
		t.Errorf("Type = %q, want release", entry.Type)
	}

	if _, err := c.FindEntry(context.Background(), "9.9.9"); err == nil {
		t.Error("expected error for unknown version")
	}
}

func TestResolveDetails_OnlineThenOffline(t *testing.T) {
	dataDir := t.TempDir()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	mux.HandleFunc("/manifest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, manifestJSON(srv.URL))
	})
	mux.HandleFunc("/1.20.1.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "1.20.1", "type": "release", "mainClass": "net.minecraft.client.main.Main", "assets": "5"}`)
	})

	c := NewManifestClient(dataDir)
	c.manifestURL = srv.URL + "/manifest"

	details, err := c.ResolveDetails(context.Background(), "1.20.1", false)
	if err != nil {
		t.Fatalf("online ResolveDetails failed: %v", err)
	}
	if details.MainClass != "net.minecraft.client.main.Main" {
		t.Errorf("MainClass = %q", details.MainClass)
	}

	// The fetch should have left a disk cache usable offline.
	srv.Close()
	cached, err := c.ResolveDetails(context.Background(), "1.20.1", true)
	if err != nil {
		t.Fatalf("offline ResolveDetails failed: %v", err)
	}
	if cached.ID != "1.20.1" {
		t.Errorf("cached ID = %q", cached.ID)
	}

	cachePath := filepath.Join(dataDir, "cache", "versions", "1.20.1.json")
	if _, err := c.loadDetails("1.20.1"); err != nil {
		t.Errorf("cache file %s unreadable: %v", cachePath, err)
	}
}
