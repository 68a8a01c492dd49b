package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/quasar/mclaunch/internal/core"
)

const (
	fabricMetaURL = "https://meta.fabricmc.net/v2"
	quiltMetaURL  = "https://meta.quiltmc.org/v3"
)

// LoaderMetaClient talks to the fabric and quilt meta services. Both
// expose loader builds per game version and a ready-made launcher
// profile JSON; forge has no such service.
type LoaderMetaClient struct {
	httpClient *http.Client
	fabricBase string
	quiltBase  string
}

// NewLoaderMetaClient creates a loader meta client.
func NewLoaderMetaClient() *LoaderMetaClient {
	return &LoaderMetaClient{
		httpClient: newHTTPClient(),
		fabricBase: fabricMetaURL,
		quiltBase:  quiltMetaURL,
	}
}

// NewLoaderMetaClientFor overrides both meta service urls, for mirrors
// and tests.
func NewLoaderMetaClientFor(fabricBase, quiltBase string) *LoaderMetaClient {
	c := NewLoaderMetaClient()
	c.fabricBase = fabricBase
	c.quiltBase = quiltBase
	return c
}

// LoaderBuild is one loader release compatible with a game version.
type LoaderBuild struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

type loaderBuildEntry struct {
	Loader LoaderBuild `json:"loader"`
}

func (c *LoaderMetaClient) base(loader core.LoaderType) (string, error) {
	switch loader {
	case core.LoaderFabric:
		return c.fabricBase, nil
	case core.LoaderQuilt:
		return c.quiltBase, nil
	default:
		return "", &core.LoaderUnsupportedError{Loader: loader}
	}
}

// LoaderBuilds lists loader releases for the given game version,
// newest first.
func (c *LoaderMetaClient) LoaderBuilds(ctx context.Context, loader core.LoaderType, game core.VersionID) ([]LoaderBuild, error) {
	base, err := c.base(loader)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/versions/loader/%s", base, game)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s builds: %w", loader, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var entries []loaderBuildEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding %s builds: %w", loader, err)
	}

	builds := make([]LoaderBuild, len(entries))
	for i, e := range entries {
		builds[i] = e.Loader
	}
	return builds, nil
}

// PickBuild chooses the newest stable build, or the newest build when
// the service does not flag stability (quilt).
func PickBuild(builds []LoaderBuild) (LoaderBuild, error) {
	if len(builds) == 0 {
		return LoaderBuild{}, fmt.Errorf("no loader builds available")
	}
	for _, b := range builds {
		if b.Stable {
			return b, nil
		}
	}
	return builds[0], nil
}

// LoaderProfile fetches the launcher profile JSON for a specific
// loader build. The returned details inherit from the base game
// version and list the loader's libraries with maven base URLs.
func (c *LoaderMetaClient) LoaderProfile(ctx context.Context, loader core.LoaderType, game core.VersionID, build string) (*core.VersionDetails, error) {
	base, err := c.base(loader)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/versions/loader/%s/%s/profile/json", base, game, build)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s profile: %w", loader, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var details core.VersionDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("decoding %s profile: %w", loader, err)
	}

	return &details, nil
}

// ResolveProfile picks a build and fetches its profile in one step.
func (c *LoaderMetaClient) ResolveProfile(ctx context.Context, loader core.LoaderType, game core.VersionID) (*core.VersionDetails, error) {
	builds, err := c.LoaderBuilds(ctx, loader, game)
	if err != nil {
		return nil, err
	}
	build, err := PickBuild(builds)
	if err != nil {
		return nil, fmt.Errorf("%s for %s: %w", loader, game, err)
	}
	return c.LoaderProfile(ctx, loader, game, build.Version)
}
