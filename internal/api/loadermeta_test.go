package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quasar/mclaunch/internal/core"
)

func TestLoaderBuilds_Fabric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/versions/loader/1.20.1" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[
			{"loader": {"version": "0.16.0-beta.1", "stable": false}},
			{"loader": {"version": "0.15.11", "stable": true}}
		]`)
	}))
	defer srv.Close()

	c := NewLoaderMetaClient()
	c.fabricBase = srv.URL

	builds, err := c.LoaderBuilds(context.Background(), core.LoaderFabric, "1.20.1")
	if err != nil {
		t.Fatalf("LoaderBuilds failed: %v", err)
	}
	if len(builds) != 2 {
		t.Fatalf("len(builds) = %d, want 2", len(builds))
	}
	if builds[1].Version != "0.15.11" || !builds[1].Stable {
		t.Errorf("builds[1] = %+v", builds[1])
	}
}

func TestLoaderBuilds_UnsupportedLoader(t *testing.T) {
	c := NewLoaderMetaClient()

	_, err := c.LoaderBuilds(context.Background(), core.LoaderForge, "1.20.1")
	var unsupported *core.LoaderUnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want *LoaderUnsupportedError", err)
	}
	if unsupported.Loader != core.LoaderForge {
		t.Errorf("Loader = %q", unsupported.Loader)
	}
}

func TestPickBuild(t *testing.T) {
	tests := []struct {
		name    string
		builds  []LoaderBuild
		want    string
		wantErr bool
	}{
		{"First stable wins", []LoaderBuild{{"0.16.0-beta.1", false}, {"0.15.11", true}, {"0.15.10", true}}, "0.15.11", false},
		{"No stable flag falls back to newest", []LoaderBuild{{"0.26.4", false}, {"0.26.3", false}}, "0.26.4", false},
		{"Empty", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PickBuild(tt.builds)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("PickBuild failed: %v", err)
			}
			if got.Version != tt.want {
				t.Errorf("PickBuild = %q, want %q", got.Version, tt.want)
			}
		})
	}
}

func TestLoaderProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/versions/loader/1.20.1/0.15.11/profile/json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"id": "fabric-loader-0.15.11-1.20.1",
			"inheritsFrom": "1.20.1",
			"type": "release",
			"mainClass": "net.fabricmc.loader.impl.launch.knot.KnotClient",
			"libraries": [
				{"name": "net.fabricmc:fabric-loader:0.15.11", "url": "https://maven.fabricmc.net/"}
			]
		}`)
	}))
	defer srv.Close()

	c := NewLoaderMetaClient()
	c.fabricBase = srv.URL

	details, err := c.LoaderProfile(context.Background(), core.LoaderFabric, "1.20.1", "0.15.11")
	if err != nil {
		t.Fatalf("LoaderProfile failed: %v", err)
	}
	if details.InheritsFrom != "1.20.1" {
		t.Errorf("InheritsFrom = %q", details.InheritsFrom)
	}
	if details.MainClass != "net.fabricmc.loader.impl.launch.knot.KnotClient" {
		t.Errorf("MainClass = %q", details.MainClass)
	}
	if len(details.Libraries) != 1 || details.Libraries[0].URL != "https://maven.fabricmc.net/" {
		t.Errorf("Libraries = %+v", details.Libraries)
	}
}

func TestResolveProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/versions/loader/1.20.1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"loader": {"version": "0.15.11", "stable": true}}]`)
	})
	mux.HandleFunc("/versions/loader/1.20.1/0.15.11/profile/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "fabric-loader-0.15.11-1.20.1", "inheritsFrom": "1.20.1", "mainClass": "knot"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewLoaderMetaClient()
	c.fabricBase = srv.URL

	details, err := c.ResolveProfile(context.Background(), core.LoaderFabric, "1.20.1")
	if err != nil {
		t.Fatalf("ResolveProfile failed: %v", err)
	}
	if details.InheritsFrom != "1.20.1" {
		t.Errorf("InheritsFrom = %q", details.InheritsFrom)
	}
}
