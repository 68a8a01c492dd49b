// Package launch turns a resolved launch into a runnable game process.
package launch

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/quasar/mclaunch/internal/core"
)

// maxInheritDepth caps inheritsFrom chains; real profiles are one or
// two levels deep.
const maxInheritDepth = 5

// Backend assembles launch commands from the manifests installed under
// the game directory and starts the game process.
type Backend struct {
	GameDir string
}

// NewBackend creates a backend over gameDir.
func NewBackend(gameDir string) *Backend {
	return &Backend{GameDir: gameDir}
}

// merged is a version's metadata with its inheritsFrom chain applied.
type merged struct {
	details *core.VersionDetails
	jarID   core.VersionID // version whose client jar goes on the classpath
}

// LoadDetails reads versions/<id>/<id>.json and resolves its
// inheritance chain. A missing manifest is classified as not-found so
// the caller can tell it apart from a malformed one.
func (b *Backend) LoadDetails(id core.VersionID) (*core.VersionDetails, error) {
	m, err := b.loadMerged(id, 0)
	if err != nil {
		return nil, err
	}
	return m.details, nil
}

func (b *Backend) loadMerged(id core.VersionID, depth int) (*merged, error) {
	if depth >= maxInheritDepth {
		return nil, &core.BackendError{Version: id, Err: fmt.Errorf("inheritance deeper than %d levels", maxInheritDepth)}
	}

	path := filepath.Join(b.GameDir, "versions", id.String(), id.String()+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &core.BackendError{Version: id, NotFound: true, Err: err}
	}
	if err != nil {
		return nil, &core.BackendError{Version: id, Err: err}
	}

	var details core.VersionDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, &core.BackendError{Version: id, Err: fmt.Errorf("parsing manifest: %w", err)}
	}

	m := &merged{details: &details, jarID: id}
	if details.Downloads == nil || details.Downloads.Client == nil {
		// No own client jar; a parent has to provide one.
		m.jarID = ""
	}

	if details.InheritsFrom == "" {
		return m, nil
	}

	parent, err := b.loadMerged(details.InheritsFrom, depth+1)
	if err != nil {
		return nil, err
	}
	return mergeDetails(parent, m), nil
}

// mergeDetails overlays a child profile onto its parent: the child wins
// where it sets a value, argument lists concatenate, and the child's
// libraries go first on the classpath.
func mergeDetails(parent, child *merged) *merged {
	p, c := parent.details, child.details

	out := *p
	out.ID = c.ID
	out.InheritsFrom = ""
	if c.Type != "" {
		out.Type = c.Type
	}
	if c.MainClass != "" {
		out.MainClass = c.MainClass
	}
	if c.MinecraftArguments != "" {
		out.MinecraftArguments = c.MinecraftArguments
	}
	if c.Arguments != nil {
		if p.Arguments == nil {
			out.Arguments = c.Arguments
		} else {
			out.Arguments = &core.Arguments{
				Game: append(append([]interface{}{}, p.Arguments.Game...), c.Arguments.Game...),
				JVM:  append(append([]interface{}{}, p.Arguments.JVM...), c.Arguments.JVM...),
			}
		}
	}
	out.Libraries = append(append([]core.Library{}, c.Libraries...), p.Libraries...)
	if c.AssetIndex != nil {
		out.AssetIndex = c.AssetIndex
	}
	if c.Assets != "" {
		out.Assets = c.Assets
	}
	if c.Downloads != nil {
		out.Downloads = c.Downloads
	}
	if c.JavaVersion != nil {
		out.JavaVersion = c.JavaVersion
	}

	jarID := child.jarID
	if jarID == "" {
		jarID = parent.jarID
	}
	return &merged{details: &out, jarID: jarID}
}

// Command builds the full java invocation for a resolved launch. The
// returned command is not started; Start does that.
func (b *Backend) Command(resolved *core.ResolvedLaunch, username string) (*exec.Cmd, error) {
	m, err := b.loadMerged(resolved.EffectiveVersion, 0)
	if err != nil {
		return nil, err
	}
	details := m.details
	if details.MainClass == "" {
		return nil, &core.BackendError{Version: resolved.EffectiveVersion, Err: fmt.Errorf("manifest has no main class")}
	}

	features := &featureSet{customResolution: resolved.Resolution != nil}
	replacements := b.replacements(m, resolved, username)

	args := make([]string, 0, 32)
	args = append(args, resolved.JVMArguments...)

	if details.Arguments != nil && len(details.Arguments.JVM) > 0 {
		args = append(args, processArguments(details.Arguments.JVM, replacements, features)...)
	} else {
		// Legacy manifests leave the JVM side to the launcher.
		if runtime.GOOS == "darwin" {
			args = append(args, "-XstartOnFirstThread")
		}
		args = append(args, "-Djava.library.path="+replacements["${natives_directory}"])
		args = append(args, "-cp", replacements["${classpath}"])
	}

	args = append(args, details.MainClass)

	if details.Arguments != nil && len(details.Arguments.Game) > 0 {
		args = append(args, processArguments(details.Arguments.Game, replacements, features)...)
	} else if details.MinecraftArguments != "" {
		for _, arg := range strings.Split(details.MinecraftArguments, " ") {
			args = append(args, replaceVars(arg, replacements))
		}
		if resolved.Resolution != nil {
			args = append(args,
				"--width", fmt.Sprintf("%d", resolved.Resolution.Width),
				"--height", fmt.Sprintf("%d", resolved.Resolution.Height),
			)
		}
	}

	if resolved.ServerJoin != nil {
		args = append(args, "--server", resolved.ServerJoin.Host, "--port", resolved.ServerJoin.Port)
	}

	cmd := exec.Command(resolved.ExecutablePath, args...)
	cmd.Dir = b.GameDir
	return cmd, nil
}

func (b *Backend) replacements(m *merged, resolved *core.ResolvedLaunch, username string) map[string]string {
	details := m.details

	assetsRoot := filepath.Join(b.GameDir, "assets")
	assetIndexID := details.Assets
	if details.AssetIndex != nil {
		assetIndexID = details.AssetIndex.ID
	}

	repl := map[string]string{
		"${auth_player_name}":  username,
		"${auth_uuid}":         OfflineUUID(username),
		"${auth_access_token}": "0",
		"${auth_session}":      "0",
		"${auth_xuid}":         "0",
		"${clientid}":          "0",
		"${user_type}":         "legacy",
		"${user_properties}":   "{}",
		"${version_name}":      details.ID.String(),
		"${version_type}":      string(details.Type),
		"${game_directory}":    b.GameDir,
		"${assets_root}":       assetsRoot,
		"${game_assets}":       filepath.Join(assetsRoot, "virtual", "legacy"),
		"${assets_index_name}": assetIndexID,
		"${natives_directory}": filepath.Join(b.GameDir, "versions", details.ID.String(), "natives"),
		"${launcher_name}":     "mclaunch",
		"${launcher_version}":  "1.0",
		"${classpath}":         b.classpath(m),
	}
	if resolved.Resolution != nil {
		repl["${resolution_width}"] = fmt.Sprintf("%d", resolved.Resolution.Width)
		repl["${resolution_height}"] = fmt.Sprintf("%d", resolved.Resolution.Height)
	}
	return repl
}

// classpath joins every applicable library with the client jar, using
// the platform separator.
func (b *Backend) classpath(m *merged) string {
	librariesDir := filepath.Join(b.GameDir, "libraries")

	var paths []string
	seen := make(map[string]struct{})
	for _, lib := range m.details.Libraries {
		if !LibraryApplies(&lib) {
			continue
		}
		rel := libraryPath(&lib)
		if rel == "" {
			continue
		}
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}
		paths = append(paths, filepath.Join(librariesDir, rel))
	}

	if m.jarID != "" {
		paths = append(paths, filepath.Join(b.GameDir, "versions", m.jarID.String(), m.jarID.String()+".jar"))
	}

	separator := ":"
	if runtime.GOOS == "windows" {
		separator = ";"
	}
	return strings.Join(paths, separator)
}

// libraryPath resolves a library's jar path relative to libraries/.
// Vanilla manifests carry it directly; loader profiles only name a
// maven coordinate.
func libraryPath(lib *core.Library) string {
	if lib.Downloads != nil && lib.Downloads.Artifact != nil {
		return filepath.FromSlash(lib.Downloads.Artifact.Path)
	}
	return filepath.FromSlash(MavenPath(lib.Name))
}

// MavenPath converts "group:artifact:version" into the conventional
// repository path. Coordinates with a classifier keep it as a suffix.
func MavenPath(name string) string {
	parts := strings.Split(name, ":")
	if len(parts) < 3 {
		return ""
	}
	group, artifact, version := parts[0], parts[1], parts[2]
	file := artifact + "-" + version
	if len(parts) > 3 {
		file += "-" + parts[3]
	}
	return strings.ReplaceAll(group, ".", "/") + "/" + artifact + "/" + version + "/" + file + ".jar"
}

// OfflineUUID derives a stable player id from the username, the way
// offline-mode servers do.
func OfflineUUID(username string) string {
	return uuid.NewMD5(uuid.Nil, []byte("OfflinePlayer:"+username)).String()
}

type featureSet struct {
	customResolution bool
}

func (f *featureSet) enabled(features *core.Features) bool {
	if features == nil {
		return true
	}
	// Any requested feature we do not provide disables the rule.
	if features.IsDemoUser || features.HasQuickPlays || features.IsQuickPlaySingle ||
		features.IsQuickPlayMulti || features.IsQuickPlayRealms {
		return false
	}
	if features.HasCustomRes {
		return f.customResolution
	}
	return true
}

// processArguments flattens a modern argument list: plain strings pass
// through substitution, rule-gated entries are kept only when their
// rules match the current OS and feature set.
func processArguments(list []interface{}, replacements map[string]string, features *featureSet) []string {
	var out []string
	for _, raw := range list {
		switch v := raw.(type) {
		case string:
			out = append(out, replaceVars(v, replacements))
		case map[string]interface{}:
			if !ruleEntryApplies(v, features) {
				continue
			}
			switch value := v["value"].(type) {
			case string:
				out = append(out, replaceVars(value, replacements))
			case []interface{}:
				for _, item := range value {
					if s, ok := item.(string); ok {
						out = append(out, replaceVars(s, replacements))
					}
				}
			}
		}
	}
	return out
}

// ruleEntryApplies re-decodes an argument entry's rules and evaluates
// them like library rules, with feature checks on top.
func ruleEntryApplies(entry map[string]interface{}, features *featureSet) bool {
	rawRules, ok := entry["rules"]
	if !ok {
		return true
	}
	data, err := json.Marshal(rawRules)
	if err != nil {
		return false
	}
	var rules []core.Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return false
	}

	allowed := false
	for _, rule := range rules {
		applies := osRuleApplies(rule.OS) && features.enabled(rule.Features)
		if applies {
			allowed = rule.Action == "allow"
		}
	}
	return allowed
}

func replaceVars(s string, replacements map[string]string) string {
	result := s
	for k, v := range replacements {
		result = strings.ReplaceAll(result, k, v)
	}
	return result
}

// LibraryApplies evaluates a library's OS rules for the current
// platform.
func LibraryApplies(lib *core.Library) bool {
	if len(lib.Rules) == 0 {
		return true
	}

	allowed := false
	for _, rule := range lib.Rules {
		if osRuleApplies(rule.OS) {
			allowed = rule.Action == "allow"
		}
	}
	return allowed
}

func osRuleApplies(osRule *core.OSRule) bool {
	if osRule == nil || osRule.Name == "" {
		return true
	}

	osName := runtime.GOOS
	// Map Go OS names to Mojang names
	if osName == "darwin" {
		osName = "osx"
	}
	return osRule.Name == osName
}
