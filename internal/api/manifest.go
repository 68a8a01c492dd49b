// Package api contains HTTP clients for external services.
// Each API client is self-contained and handles its own caching.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/quasar/mclaunch/internal/core"
)

const versionManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

// newHTTPClient builds the retrying client every api client shares.
func newHTTPClient() *http.Client {
	retry := retryablehttp.NewClient()
	retry.RetryMax = 3
	retry.HTTPClient.Timeout = 30 * time.Second
	retry.Logger = nil
	return retry.StandardClient()
}

// ManifestClient fetches the remote version manifest and per-version
// metadata, with a short in-memory TTL for the manifest and a disk
// cache for version details.
type ManifestClient struct {
	httpClient       *http.Client
	manifestURL      string
	manifest         *core.VersionManifest
	manifestFetched  time.Time
	manifestTTL      time.Duration
	versionCacheRoot string
}

// NewManifestClient creates a manifest client caching under dataDir.
func NewManifestClient(dataDir string) *ManifestClient {
	return &ManifestClient{
		httpClient:       newHTTPClient(),
		manifestURL:      versionManifestURL,
		manifestTTL:      5 * time.Minute,
		versionCacheRoot: filepath.Join(dataDir, "cache", "versions"),
	}
}

// NewManifestClientFor is NewManifestClient pointed at a custom
// manifest url, for mirrors and tests.
func NewManifestClientFor(manifestURL, dataDir string) *ManifestClient {
	c := NewManifestClient(dataDir)
	c.manifestURL = manifestURL
	return c
}

// GetManifest fetches the version manifest, reusing the cached copy
// while it is fresh.
func (c *ManifestClient) GetManifest(ctx context.Context) (*core.VersionManifest, error) {
	if c.manifest != nil && time.Since(c.manifestFetched) < c.manifestTTL {
		return c.manifest, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.manifestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var manifest core.VersionManifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	c.manifest = &manifest
	c.manifestFetched = time.Now()

	return &manifest, nil
}

// LatestRelease returns the latest release version id.
func (c *ManifestClient) LatestRelease(ctx context.Context) (core.VersionID, error) {
	manifest, err := c.GetManifest(ctx)
	if err != nil {
		return "", err
	}
	return core.VersionID(manifest.Latest.Release), nil
}

// FindEntry finds a version by id in the manifest.
func (c *ManifestClient) FindEntry(ctx context.Context, id core.VersionID) (*core.ManifestEntry, error) {
	manifest, err := c.GetManifest(ctx)
	if err != nil {
		return nil, err
	}

	for _, v := range manifest.Versions {
		if v.ID == id {
			return &v, nil
		}
	}

	return nil, fmt.Errorf("version not found: %s", id)
}

// GetDetails fetches the full metadata for a manifest entry.
func (c *ManifestClient) GetDetails(ctx context.Context, entry *core.ManifestEntry) (*core.VersionDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching version details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var details core.VersionDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("decoding version details: %w", err)
	}

	return &details, nil
}

// ResolveDetails resolves version details with a minimal disk cache.
// If offline is true, it only reads from disk.
func (c *ManifestClient) ResolveDetails(ctx context.Context, id core.VersionID, offline bool) (*core.VersionDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offline {
		return c.loadDetails(id)
	}

	entry, err := c.FindEntry(ctx, id)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	details, err := c.GetDetails(ctx, entry)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	_ = c.saveDetails(id, details)

	return details, nil
}

func (c *ManifestClient) loadDetails(id core.VersionID) (*core.VersionDetails, error) {
	data, err := os.ReadFile(c.detailsPath(id))
	if err != nil {
		return nil, err
	}

	var details core.VersionDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("decoding cached version details: %w", err)
	}

	return &details, nil
}

func (c *ManifestClient) saveDetails(id core.VersionID, details *core.VersionDetails) error {
	if details == nil {
		return nil
	}

	if err := os.MkdirAll(c.versionCacheRoot, 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encoding version details: %w", err)
	}

	return os.WriteFile(c.detailsPath(id), data, 0o644)
}

func (c *ManifestClient) detailsPath(id core.VersionID) string {
	return filepath.Join(c.versionCacheRoot, fmt.Sprintf("%s.json", id))
}
