// Package install provisions game versions under the game directory:
// version metadata, the client jar, libraries, assets, and mod loader
// profiles.
package install

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quasar/mclaunch/internal/api"
	"github.com/quasar/mclaunch/internal/core"
	"github.com/quasar/mclaunch/internal/download"
	"github.com/quasar/mclaunch/internal/launch"
)

const assetBaseURL = "https://resources.download.minecraft.net"

// Status reports installation progress.
type Status struct {
	Step     string
	Progress float64
	Message  string
	Done     bool
	Err      error
}

// Installer installs and removes game versions.
type Installer struct {
	gameDir   string
	assetBase string
	manifests *api.ManifestClient
	meta      *api.LoaderMetaClient
	downloads *download.Manager
}

// New creates an installer writing under gameDir.
func New(gameDir string, manifests *api.ManifestClient, meta *api.LoaderMetaClient) *Installer {
	return &Installer{
		gameDir:   gameDir,
		assetBase: assetBaseURL,
		manifests: manifests,
		meta:      meta,
		downloads: download.NewManager(8),
	}
}

// sendStatus sends without blocking so a slow consumer cannot stall an
// install.
func (i *Installer) sendStatus(ch chan<- Status, s Status) {
	if ch == nil {
		return
	}
	select {
	case ch <- s:
	default:
	}
}

func (i *Installer) versionDir(id core.VersionID) string {
	return filepath.Join(i.gameDir, "versions", id.String())
}

func (i *Installer) manifestPath(id core.VersionID) string {
	return filepath.Join(i.versionDir(id), id.String()+".json")
}

// Installed reports whether a version's manifest is present on disk.
func (i *Installer) Installed(id core.VersionID) bool {
	_, err := os.Stat(i.manifestPath(id))
	return err == nil
}

// InstallVersion installs a vanilla version: metadata, client jar,
// libraries, and assets. Already-present files are verified and
// skipped, so reinstalling doubles as a repair.
func (i *Installer) InstallVersion(ctx context.Context, id core.VersionID, status chan<- Status) error {
	i.sendStatus(status, Status{Step: "metadata", Message: fmt.Sprintf("Fetching metadata for %s", id)})

	entry, err := i.manifests.FindEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", id, err)
	}

	// The version manifest is downloaded as-is so every field survives,
	// including ones this launcher does not read.
	err = i.runBatch(ctx, "metadata", "Downloading version metadata", status, []download.Item{{
		URL:   entry.URL,
		Path:  i.manifestPath(id),
		SHA1:  entry.SHA1,
		Label: id.String() + ".json",
	}})
	if err != nil {
		return err
	}

	details, err := i.readManifest(id)
	if err != nil {
		return err
	}

	if details.Downloads != nil && details.Downloads.Client != nil {
		client := details.Downloads.Client
		err = i.runBatch(ctx, "client", "Downloading client jar", status, []download.Item{{
			URL:   client.URL,
			Path:  filepath.Join(i.versionDir(id), id.String()+".jar"),
			SHA1:  client.SHA1,
			Size:  client.Size,
			Label: id.String() + ".jar",
		}})
		if err != nil {
			return err
		}
	}

	if err := i.runBatch(ctx, "libraries", "Downloading libraries", status, i.libraryItems(details.Libraries)); err != nil {
		return err
	}

	if err := i.installAssets(ctx, details, status); err != nil {
		return err
	}

	i.sendStatus(status, Status{Step: "done", Progress: 1, Message: fmt.Sprintf("Installed %s", id), Done: true})
	return nil
}

// InstallLoader installs a mod loader profile for variant, making sure
// the base version it inherits from is present too. The profile is
// stored under the variant's composite id.
func (i *Installer) InstallLoader(ctx context.Context, variant core.Variant, status chan<- Status) error {
	if variant.Loader == core.LoaderVanilla {
		return i.InstallVersion(ctx, variant.Base, status)
	}

	if !i.Installed(variant.Base) {
		if err := i.InstallVersion(ctx, variant.Base, status); err != nil {
			return err
		}
	}

	i.sendStatus(status, Status{Step: "loader", Message: fmt.Sprintf("Resolving %s for %s", variant.Loader, variant.Base)})

	profile, err := i.meta.ResolveProfile(ctx, variant.Loader, variant.Base)
	if err != nil {
		return err
	}

	// Store the profile under the id the rest of the launcher uses to
	// refer to this variant.
	id := variant.ID()
	profile.ID = id
	profile.InheritsFrom = variant.Base

	if err := i.writeManifest(id, profile); err != nil {
		return err
	}

	items := i.loaderLibraryItems(variant.Loader, profile.Libraries)
	if err := i.runBatch(ctx, "libraries", "Downloading loader libraries", status, items); err != nil {
		return err
	}

	i.sendStatus(status, Status{Step: "done", Progress: 1, Message: fmt.Sprintf("Installed %s", id), Done: true})
	return nil
}

// DeleteVersion removes a version's directory. Libraries and assets
// stay, since other versions share them.
func (i *Installer) DeleteVersion(id core.VersionID) error {
	if id == "" {
		return fmt.Errorf("no version to delete")
	}
	if err := os.RemoveAll(i.versionDir(id)); err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	return nil
}

func (i *Installer) readManifest(id core.VersionID) (*core.VersionDetails, error) {
	data, err := os.ReadFile(i.manifestPath(id))
	if err != nil {
		return nil, fmt.Errorf("reading manifest for %s: %w", id, err)
	}
	var details core.VersionDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("parsing manifest for %s: %w", id, err)
	}
	return &details, nil
}

func (i *Installer) writeManifest(id core.VersionID, details *core.VersionDetails) error {
	if err := os.MkdirAll(i.versionDir(id), 0755); err != nil {
		return fmt.Errorf("creating version dir: %w", err)
	}
	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(i.manifestPath(id), data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// libraryItems lists the library artifacts that apply on this platform.
func (i *Installer) libraryItems(libraries []core.Library) []download.Item {
	var items []download.Item
	for idx := range libraries {
		lib := &libraries[idx]
		if !launch.LibraryApplies(lib) {
			continue
		}
		if lib.Downloads == nil || lib.Downloads.Artifact == nil {
			continue
		}
		artifact := lib.Downloads.Artifact
		if artifact.URL == "" || artifact.Path == "" {
			continue
		}
		items = append(items, download.Item{
			URL:   artifact.URL,
			Path:  filepath.Join(i.gameDir, "libraries", filepath.FromSlash(artifact.Path)),
			SHA1:  artifact.SHA1,
			Size:  artifact.Size,
			Label: lib.Name,
		})
	}
	return items
}

// loaderLibraryItems lists maven-coordinate libraries from a loader
// profile. These carry a repository url instead of a full artifact.
func (i *Installer) loaderLibraryItems(loader core.LoaderType, libraries []core.Library) []download.Item {
	var items []download.Item
	for idx := range libraries {
		lib := &libraries[idx]
		if lib.Downloads != nil && lib.Downloads.Artifact != nil {
			if item, ok := artifactItem(i.gameDir, lib); ok {
				items = append(items, item)
			}
			continue
		}

		rel := launch.MavenPath(lib.Name)
		if rel == "" {
			continue
		}
		base := strings.TrimSuffix(lib.URL, "/")
		if base == "" {
			base = defaultMavenBase(loader)
		}
		items = append(items, download.Item{
			URL:   base + "/" + rel,
			Path:  filepath.Join(i.gameDir, "libraries", filepath.FromSlash(rel)),
			Label: lib.Name,
		})
	}
	return items
}

func artifactItem(gameDir string, lib *core.Library) (download.Item, bool) {
	artifact := lib.Downloads.Artifact
	if artifact.URL == "" || artifact.Path == "" {
		return download.Item{}, false
	}
	return download.Item{
		URL:   artifact.URL,
		Path:  filepath.Join(gameDir, "libraries", filepath.FromSlash(artifact.Path)),
		SHA1:  artifact.SHA1,
		Size:  artifact.Size,
		Label: lib.Name,
	}, true
}

func defaultMavenBase(loader core.LoaderType) string {
	if loader == core.LoaderQuilt {
		return "https://maven.quiltmc.org/repository/release"
	}
	return "https://maven.fabricmc.net"
}

// assetIndex mirrors the object list inside an asset index file.
type assetIndex struct {
	Objects map[string]assetObject `json:"objects"`
}

type assetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// installAssets downloads the asset index and then every object it
// names. Objects are content-addressed, so versions share most of them
// and repeat installs skip nearly everything.
func (i *Installer) installAssets(ctx context.Context, details *core.VersionDetails, status chan<- Status) error {
	ref := details.AssetIndex
	if ref == nil || ref.URL == "" {
		return nil
	}

	indexPath := filepath.Join(i.gameDir, "assets", "indexes", ref.ID+".json")
	err := i.runBatch(ctx, "assets", "Downloading asset index", status, []download.Item{{
		URL:   ref.URL,
		Path:  indexPath,
		SHA1:  ref.SHA1,
		Size:  ref.Size,
		Label: ref.ID + ".json",
	}})
	if err != nil {
		return err
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("reading asset index: %w", err)
	}
	var index assetIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("parsing asset index: %w", err)
	}

	items := make([]download.Item, 0, len(index.Objects))
	for name, obj := range index.Objects {
		if len(obj.Hash) < 2 {
			continue
		}
		prefix := obj.Hash[:2]
		items = append(items, download.Item{
			URL:   fmt.Sprintf("%s/%s/%s", i.assetBase, prefix, obj.Hash),
			Path:  filepath.Join(i.gameDir, "assets", "objects", prefix, obj.Hash),
			SHA1:  obj.Hash,
			Size:  obj.Size,
			Label: name,
		})
	}
	return i.runBatch(ctx, "assets", "Downloading assets", status, items)
}

// runBatch downloads a set of items, forwarding manager progress to the
// status channel, and fails if any item failed.
func (i *Installer) runBatch(ctx context.Context, step, message string, status chan<- Status, items []download.Item) error {
	if len(items) == 0 {
		return nil
	}

	progress := make(chan download.Progress)
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for p := range progress {
			fraction := 0.0
			if p.TotalItems > 0 {
				fraction = float64(p.CompletedItems+p.FailedItems) / float64(p.TotalItems)
			}
			i.sendStatus(status, Status{
				Step:     step,
				Progress: fraction,
				Message:  fmt.Sprintf("%s (%d/%d)", message, p.CompletedItems, p.TotalItems),
			})
		}
	}()

	result, err := i.downloads.Download(ctx, items, progress)
	close(progress)
	<-forwarded
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%s: %d of %d files failed: %w", step, result.Failed, len(items), errors.Join(result.Errors...))
	}
	return ctx.Err()
}
