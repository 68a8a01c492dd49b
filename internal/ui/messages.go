// Package ui contains the tab views and the messages they exchange
// with the application model.
package ui

import (
	"time"

	"github.com/quasar/mclaunch/internal/catalog"
	"github.com/quasar/mclaunch/internal/core"
	"github.com/quasar/mclaunch/internal/install"
	"github.com/quasar/mclaunch/internal/java"
	"github.com/quasar/mclaunch/internal/launch"
	"github.com/quasar/mclaunch/internal/mods"
)

// Requests emitted by tab views for the application to act on.
type (
	// RequestLaunch asks for a launch with the current settings.
	RequestLaunch struct{}

	// RequestInstall asks for an install of one catalog entry.
	RequestInstall struct {
		ID core.VersionID
	}

	// RequestInstallLoader asks for a mod loader install on top of a
	// base version, using the currently selected loader.
	RequestInstallLoader struct {
		Base core.VersionID
	}

	// RequestDelete asks for removal of an installed version.
	RequestDelete struct {
		ID core.VersionID
	}

	// RequestRefresh asks for a catalog reload.
	RequestRefresh struct{}

	// RequestJavaDetect asks for a rescan of Java runtimes.
	RequestJavaDetect struct{}

	// RequestLogExport asks for the activity log to be written to a
	// file.
	RequestLogExport struct{}

	// RequestSettingsImport asks for a settings document at Path to be
	// merged over the current one.
	RequestSettingsImport struct {
		Path string
	}

	// RequestSettingsExport asks for the settings document to be
	// written to Path.
	RequestSettingsExport struct {
		Path string
	}

	// RequestSettingsReset asks for the settings to go back to
	// defaults.
	RequestSettingsReset struct{}

	// SettingsChanged notes that settings were edited and should be
	// persisted.
	SettingsChanged struct{}
)

// Results delivered by application commands back into the views.
type (
	// CatalogLoaded carries the merged version catalog.
	CatalogLoaded struct {
		Entries []catalog.Entry
		Latest  core.VersionID
		Err     error
	}

	// JavaDetected carries the runtimes found on the system.
	JavaDetected struct {
		Runtimes []java.Runtime
	}

	// InstallProgress is a live install status update.
	InstallProgress struct {
		Status install.Status
	}

	// InstallFinished ends an install flow.
	InstallFinished struct {
		ID  core.VersionID
		Err error
	}

	// GameStarted confirms the game process is running.
	GameStarted struct {
		ID      core.VersionID
		Command string
	}

	// GameExited reports the outcome of a play session.
	GameExited struct {
		ID     core.VersionID
		Played time.Duration
		Err    error
	}

	// LaunchFailed reports a launch that never reached a running
	// process.
	LaunchFailed struct {
		Err error
	}

	// GameLog is one line of game output.
	GameLog struct {
		Line launch.LogLine
	}

	// ModsLoaded carries the scanned mod list.
	ModsLoaded struct {
		Mods []mods.Mod
		Err  error
	}

	// PacksLoaded carries the scanned resourcepack list.
	PacksLoaded struct {
		Packs []mods.Resourcepack
		Err   error
	}

	// Flash is a transient status bar notice.
	Flash struct {
		Text    string
		IsError bool
	}
)
