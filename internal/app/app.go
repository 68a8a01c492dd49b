// Package app contains the main Bubbletea application model.
// It owns the settings document, routes messages between the tabs, and
// runs the launch and install workflows in background goroutines.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kballard/go-shellquote"

	"github.com/quasar/mclaunch/internal/api"
	"github.com/quasar/mclaunch/internal/catalog"
	"github.com/quasar/mclaunch/internal/config"
	"github.com/quasar/mclaunch/internal/core"
	"github.com/quasar/mclaunch/internal/install"
	"github.com/quasar/mclaunch/internal/java"
	"github.com/quasar/mclaunch/internal/launch"
	"github.com/quasar/mclaunch/internal/mods"
	"github.com/quasar/mclaunch/internal/ui"
)

// flashDuration is how long a status bar notice stays up.
const flashDuration = 4 * time.Second

// Model is the main application model.
type Model struct {
	settings     *config.Settings
	settingsPath string
	dataDir      string
	gameDir      string

	// Core services
	manifests *api.ManifestClient
	meta      *api.LoaderMetaClient
	installer *install.Installer
	backend   *launch.Backend

	// Tab models
	active     ui.Tab
	play       *ui.PlayModel
	versions   *ui.VersionsModel
	modsView   *ui.ModsModel
	packs      *ui.PacksModel
	servers    *ui.ServersModel
	profiles   *ui.ProfilesModel
	stats      *ui.StatsModel
	configView *ui.SettingsModel

	// Install state: one install in flight, progress over installCh.
	installCh  chan install.Status
	installing core.VersionID
	installErr error

	// Game state: log lines and the exit report arrive over gameEvents
	// while a session is running.
	gameEvents chan tea.Msg

	// Status bar notice
	flash    ui.Flash
	flashSeq int

	keys   keyMap
	width  int
	height int
	ready  bool
}

// keyMap defines the global keybindings.
type keyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
	}
}

// New creates the application model over an already-loaded settings
// document.
func New(settings *config.Settings, settingsPath, dataDir, gameDir string) *Model {
	manifests := api.NewManifestClient(dataDir)
	meta := api.NewLoaderMetaClient()
	manager := mods.NewManager(gameDir)

	return &Model{
		settings:     settings,
		settingsPath: settingsPath,
		dataDir:      dataDir,
		gameDir:      gameDir,

		manifests: manifests,
		meta:      meta,
		installer: install.New(gameDir, manifests, meta),
		backend:   launch.NewBackend(gameDir),

		play:       ui.NewPlayModel(settings),
		versions:   ui.NewVersionsModel(settings),
		modsView:   ui.NewModsModel(manager, settings),
		packs:      ui.NewPacksModel(manager, settings),
		servers:    ui.NewServersModel(settings),
		profiles:   ui.NewProfilesModel(settings, dataDir),
		stats:      ui.NewStatsModel(settings),
		configView: ui.NewSettingsModel(settings),

		keys: defaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.versions.Init(),
		m.modsView.Init(),
		m.packs.Init(),
		m.refreshCatalog(),
		m.detectJava(),
	)
}

// installFlowDone says the install status channel closed.
type installFlowDone struct{}

// gameEventsDone says the game event channel closed without a session.
type gameEventsDone struct{}

// flashExpired clears a status notice once it is stale.
type flashExpired struct{ seq int }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Tab bar and footer take one line each.
		content := msg.Height - 2
		m.play.SetSize(msg.Width, content)
		m.versions.SetSize(msg.Width, content)
		m.modsView.SetSize(msg.Width, content)
		m.packs.SetSize(msg.Width, content)
		m.servers.SetSize(msg.Width, content)
		m.profiles.SetSize(msg.Width, content)
		m.stats.SetSize(msg.Width, content)
		m.configView.SetSize(msg.Width, content)
		return m, nil

	// Requests from the tabs
	case ui.RequestLaunch:
		if m.gameEvents != nil {
			return m, func() tea.Msg {
				return ui.LaunchFailed{Err: errors.New("the game is already running")}
			}
		}
		return m, m.startLaunch()

	case ui.RequestInstall:
		id := msg.ID
		return m, m.beginInstall(id, func(ch chan<- install.Status) error {
			return m.installer.InstallVersion(context.Background(), id, ch)
		})

	case ui.RequestInstallLoader:
		loader := m.settings.SelectedModLoader
		if loader == core.LoaderVanilla {
			return m, m.flashCmd("Pick a mod loader first ('m' on the Versions tab)", true)
		}
		variant := core.Variant{Base: msg.Base, Loader: loader}
		return m, m.beginInstall(variant.ID(), func(ch chan<- install.Status) error {
			return m.installer.InstallLoader(context.Background(), variant, ch)
		})

	case ui.RequestDelete:
		if err := m.installer.DeleteVersion(msg.ID); err != nil {
			return m, m.flashCmd(err.Error(), true)
		}
		return m, tea.Batch(
			m.flashCmd("Deleted "+msg.ID.String(), false),
			m.refreshCatalog(),
		)

	case ui.RequestRefresh:
		return m, m.refreshCatalog()

	case ui.RequestJavaDetect:
		return m, m.detectJava()

	case ui.RequestLogExport:
		return m, m.exportLog()

	case ui.RequestSettingsImport:
		if err := m.settings.Import(msg.Path); err != nil {
			return m, m.flashCmd(err.Error(), true)
		}
		ui.ApplyTheme(m.settings.Theme)
		m.refreshSettingsTabs()
		return m, tea.Batch(
			m.saveSettings(),
			m.refreshCatalog(),
			m.flashCmd("Imported settings from "+msg.Path, false),
		)

	case ui.RequestSettingsExport:
		if err := m.settings.Save(msg.Path); err != nil {
			return m, m.flashCmd(err.Error(), true)
		}
		return m, m.flashCmd("Exported settings to "+msg.Path, false)

	case ui.RequestSettingsReset:
		m.settings.Reset()
		ui.ApplyTheme(m.settings.Theme)
		m.refreshSettingsTabs()
		return m, tea.Batch(
			m.saveSettings(),
			m.refreshCatalog(),
			m.flashCmd("Settings reset to defaults", false),
		)

	case ui.SettingsChanged:
		return m, m.saveSettings()

	// Catalog results
	case ui.CatalogLoaded:
		cmds := []tea.Cmd{m.updateAll(msg)}
		m.play.SetInstalledCount(m.versions.InstalledCount())
		if msg.Err != nil {
			cmds = append(cmds, m.flashCmd("Working offline: "+msg.Err.Error(), true))
		}
		return m, tea.Batch(cmds...)

	// Install progress - continue subscription
	case ui.InstallProgress:
		if msg.Status.Err != nil {
			m.installErr = msg.Status.Err
		}
		return m, tea.Batch(m.updateAll(msg), m.waitForInstallStatus())

	case installFlowDone:
		id, err := m.installing, m.installErr
		m.installCh = nil
		m.installing = ""
		m.installErr = nil

		cmds := []tea.Cmd{m.updateAll(ui.InstallFinished{ID: id, Err: err})}
		if err != nil {
			cmds = append(cmds, m.flashCmd("Install of "+id.String()+" failed", true))
		} else {
			cmds = append(cmds, m.flashCmd("Installed "+id.String(), false), m.refreshCatalog())
		}
		return m, tea.Batch(cmds...)

	// Game session results
	case ui.GameStarted:
		m.settings.RecentVersions = core.PushRecent(m.settings.RecentVersions, msg.ID)
		m.settings.Statistics.RecordLaunch(msg.ID, time.Now())
		return m, tea.Batch(m.updateAll(msg), m.saveSettings())

	case ui.GameLog:
		return m, tea.Batch(m.updateAll(msg), m.waitForGameEvent())

	case ui.GameExited:
		m.gameEvents = nil
		m.settings.Statistics.AddPlaytime(msg.Played)
		return m, tea.Batch(m.updateAll(msg), m.saveSettings())

	case gameEventsDone:
		m.gameEvents = nil
		return m, nil

	case ui.LaunchFailed:
		return m, tea.Batch(m.updateAll(msg), m.flashCmd(msg.Err.Error(), true))

	case ui.JavaDetected:
		var cmds []tea.Cmd
		if m.settings.JavaPath == "" && len(msg.Runtimes) > 0 {
			if best := java.Best(msg.Runtimes, 0); best != nil {
				m.settings.JavaPath = best.Path
				cmds = append(cmds, m.saveSettings())
			}
		}
		cmds = append(cmds, m.updateAll(msg))
		return m, tea.Batch(cmds...)

	// Status bar notices
	case ui.Flash:
		m.flash = msg
		m.flashSeq++
		seq := m.flashSeq
		return m, tea.Tick(flashDuration, func(time.Time) tea.Msg {
			return flashExpired{seq: seq}
		})

	case flashExpired:
		if msg.seq == m.flashSeq {
			m.flash = ui.Flash{}
		}
		return m, nil

	// Global key handlers, then the active tab
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if !m.activeEditing() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.NextTab):
				m.setActive(m.active.Next())
				return m, nil
			case key.Matches(msg, m.keys.PrevTab):
				m.setActive(m.active.Prev())
				return m, nil
			}
			if tab, ok := tabForDigit(msg.String()); ok {
				m.setActive(tab)
				return m, nil
			}
		}
		return m, m.updateActive(msg)

	case tea.MouseMsg:
		return m, m.updateActive(msg)
	}

	// Everything else (spinner ticks, progress frames, cursor blinks,
	// loaded mods and packs) fans out; each tab ignores what it does
	// not know.
	return m, m.updateAll(msg)
}

// setActive switches tabs, refreshing views that render derived state.
func (m *Model) setActive(tab ui.Tab) {
	m.active = tab
	switch tab {
	case ui.TabStats:
		m.stats.Refresh()
	case ui.TabServers:
		m.servers.Refresh()
	case ui.TabProfiles:
		m.profiles.Refresh()
	}
}

// tabForDigit maps the number row onto tabs.
func tabForDigit(s string) (ui.Tab, bool) {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '8' {
		return ui.Tab(s[0] - '1'), true
	}
	return 0, false
}

// activeEditing reports whether the active tab has a text input
// capturing keystrokes, which suspends the global bindings.
func (m *Model) activeEditing() bool {
	switch m.active {
	case ui.TabVersions:
		return m.versions.Editing()
	case ui.TabMods:
		return m.modsView.Editing()
	case ui.TabPacks:
		return m.packs.Editing()
	case ui.TabServers:
		return m.servers.Editing()
	case ui.TabProfiles:
		return m.profiles.Editing()
	case ui.TabSettings:
		return m.configView.Editing()
	}
	return false
}

// updateActive routes a message to the active tab only.
func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.active {
	case ui.TabPlay:
		m.play, cmd = m.play.Update(msg)
	case ui.TabVersions:
		m.versions, cmd = m.versions.Update(msg)
	case ui.TabMods:
		m.modsView, cmd = m.modsView.Update(msg)
	case ui.TabPacks:
		m.packs, cmd = m.packs.Update(msg)
	case ui.TabServers:
		m.servers, cmd = m.servers.Update(msg)
	case ui.TabProfiles:
		m.profiles, cmd = m.profiles.Update(msg)
	case ui.TabStats:
		m.stats, cmd = m.stats.Update(msg)
	case ui.TabSettings:
		m.configView, cmd = m.configView.Update(msg)
	}
	return cmd
}

// updateAll routes a message to every tab.
func (m *Model) updateAll(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, 8)
	var cmd tea.Cmd

	m.play, cmd = m.play.Update(msg)
	cmds = append(cmds, cmd)
	m.versions, cmd = m.versions.Update(msg)
	cmds = append(cmds, cmd)
	m.modsView, cmd = m.modsView.Update(msg)
	cmds = append(cmds, cmd)
	m.packs, cmd = m.packs.Update(msg)
	cmds = append(cmds, cmd)
	m.servers, cmd = m.servers.Update(msg)
	cmds = append(cmds, cmd)
	m.profiles, cmd = m.profiles.Update(msg)
	cmds = append(cmds, cmd)
	m.stats, cmd = m.stats.Update(msg)
	cmds = append(cmds, cmd)
	m.configView, cmd = m.configView.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

// refreshSettingsTabs rebuilds the tabs that cache list items derived
// from the settings document.
func (m *Model) refreshSettingsTabs() {
	m.servers.Refresh()
	m.profiles.Refresh()
	m.stats.Refresh()
}

// refreshCatalog loads the remote manifest and merges it with the
// installed scan. With the network down the installed versions still
// show, so offline play keeps working.
func (m *Model) refreshCatalog() tea.Cmd {
	manifests := m.manifests
	versionsDir := filepath.Join(m.gameDir, "versions")
	favorites := append([]string(nil), m.settings.FavoriteVersions...)

	return func() tea.Msg {
		manifest, err := manifests.GetManifest(context.Background())
		installed := catalog.ScanInstalled(versionsDir)

		var latest core.VersionID
		if manifest != nil {
			latest = core.VersionID(manifest.Latest.Release)
		}
		return ui.CatalogLoaded{
			Entries: catalog.Merge(manifest, installed, favorites),
			Latest:  latest,
			Err:     err,
		}
	}
}

// detectJava probes the system for runtimes in the background.
func (m *Model) detectJava() tea.Cmd {
	return func() tea.Msg {
		return ui.JavaDetected{Runtimes: java.Detect()}
	}
}

// saveSettings persists the document. Failures surface as a notice
// instead of an error state; the in-memory settings stay live.
func (m *Model) saveSettings() tea.Cmd {
	if err := m.settings.Save(m.settingsPath); err != nil {
		return m.flashCmd("Saving settings: "+err.Error(), true)
	}
	return nil
}

// exportLog writes the activity log under the data dir.
func (m *Model) exportLog() tea.Cmd {
	path := filepath.Join(m.dataDir, "logs",
		"activity-"+time.Now().Format("20060102-150405")+".log")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return m.flashCmd(err.Error(), true)
	}
	if err := os.WriteFile(path, []byte(m.play.LogText()), 0644); err != nil {
		return m.flashCmd(err.Error(), true)
	}
	return m.flashCmd("Log saved to "+path, false)
}

func (m *Model) flashCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return ui.Flash{Text: text, IsError: isError} }
}

// beginInstall starts run in a goroutine with a fresh status channel.
// The terminal error, if any, is delivered as a final status before the
// channel closes, so the subscription loop always observes it.
func (m *Model) beginInstall(id core.VersionID, run func(chan<- install.Status) error) tea.Cmd {
	if m.installCh != nil {
		return m.flashCmd("An install is already running", true)
	}

	ch := make(chan install.Status, 16)
	m.installCh = ch
	m.installing = id
	m.installErr = nil

	go func() {
		if err := run(ch); err != nil {
			ch <- install.Status{Step: "error", Message: err.Error(), Err: err}
		}
		close(ch)
	}()

	return m.waitForInstallStatus()
}

// waitForInstallStatus delivers the next install status. Update
// re-issues it after each message until the channel closes.
func (m *Model) waitForInstallStatus() tea.Cmd {
	ch := m.installCh
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		status, ok := <-ch
		if !ok {
			return installFlowDone{}
		}
		return ui.InstallProgress{Status: status}
	}
}

// startLaunch resolves the current settings against the installed set
// and starts the game. The command itself returns the first terminal
// message (started or failed); log lines and the exit report flow over
// gameEvents afterwards.
func (m *Model) startLaunch() tea.Cmd {
	events := make(chan tea.Msg, 256)
	m.gameEvents = events

	req := m.settings.LaunchRequest()
	versionsDir := filepath.Join(m.gameDir, "versions")
	backend := m.backend

	run := func() tea.Msg {
		installed := catalog.ScanInstalled(versionsDir)
		resolved, err := core.Resolve(req, installed)
		if err != nil {
			close(events)
			return ui.LaunchFailed{Err: err}
		}

		cmd, err := backend.Command(resolved, req.Username)
		if err != nil {
			close(events)
			return ui.LaunchFailed{Err: err}
		}

		logs := make(chan launch.LogLine, 256)
		proc, err := backend.Start(cmd, logs)
		if err != nil {
			close(events)
			return ui.LaunchFailed{Err: err}
		}

		// Forward game output. Sends never block; a slow consumer
		// drops lines rather than stalling the game's pipes.
		go func() {
			for line := range logs {
				select {
				case events <- ui.GameLog{Line: line}:
				default:
				}
			}
		}()

		// Wait blocks until the stream goroutines finish, so closing
		// logs afterwards cannot race a send.
		go func() {
			played, err := proc.Wait()
			close(logs)
			events <- ui.GameExited{
				ID:     resolved.EffectiveVersion,
				Played: played,
				Err:    err,
			}
			close(events)
		}()

		return ui.GameStarted{
			ID:      resolved.EffectiveVersion,
			Command: shellquote.Join(cmd.Args...),
		}
	}

	return tea.Batch(run, m.waitForGameEvent())
}

// waitForGameEvent delivers the next game event. Update re-issues it
// after each log line; the exit report ends the subscription.
func (m *Model) waitForGameEvent() tea.Cmd {
	events := m.gameEvents
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		msg, ok := <-events
		if !ok {
			return gameEventsDone{}
		}
		return msg
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.active {
	case ui.TabPlay:
		content = m.play.View()
	case ui.TabVersions:
		content = m.versions.View()
	case ui.TabMods:
		content = m.modsView.View()
	case ui.TabPacks:
		content = m.packs.View()
	case ui.TabServers:
		content = m.servers.View()
	case ui.TabProfiles:
		content = m.profiles.View()
	case ui.TabStats:
		content = m.stats.View()
	case ui.TabSettings:
		content = m.configView.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		ui.RenderTabBar(m.active, m.width),
		content,
		m.footerView(),
	)
}

func (m *Model) footerView() string {
	if m.flash.Text != "" {
		if m.flash.IsError {
			return ui.ErrorStyle.Render(m.flash.Text)
		}
		return ui.SuccessStyle.Render(m.flash.Text)
	}
	return ui.HelpStyle.Render("tab/shift+tab switch • 1-8 jump • q quit")
}
