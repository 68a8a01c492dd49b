package launch

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/quasar/mclaunch/internal/core"
)

func writeManifest(t *testing.T, gameDir string, id string, content string) {
	t.Helper()
	dir := filepath.Join(gameDir, "versions", id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, id+".json"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func currentOSName() string {
	if runtime.GOOS == "darwin" {
		return "osx"
	}
	return runtime.GOOS
}

const modernManifest = `{
	"id": "1.20.1",
	"type": "release",
	"mainClass": "net.minecraft.client.main.Main",
	"assets": "5",
	"assetIndex": {"id": "5", "url": "https://example.com/5.json"},
	"downloads": {"client": {"url": "https://example.com/client.jar", "sha1": "abc", "size": 1}},
	"libraries": [
		{"name": "com.mojang:brigadier:1.1.8", "downloads": {"artifact": {"path": "com/mojang/brigadier/1.1.8/brigadier-1.1.8.jar", "url": "https://example.com/b.jar"}}},
		{"name": "org.example:never:1.0", "downloads": {"artifact": {"path": "org/example/never/1.0/never-1.0.jar", "url": "https://example.com/n.jar"}}, "rules": [{"action": "allow", "os": {"name": "zos"}}]}
	],
	"arguments": {
		"jvm": [
			"-Djava.library.path=${natives_directory}",
			"-cp",
			"${classpath}"
		],
		"game": [
			"--username", "${auth_player_name}",
			"--version", "${version_name}",
			"--gameDir", "${game_directory}",
			"--assetIndex", "${assets_index_name}",
			"--uuid", "${auth_uuid}",
			{"rules": [{"action": "allow", "features": {"has_custom_resolution": true}}], "value": ["--width", "${resolution_width}", "--height", "${resolution_height}"]},
			{"rules": [{"action": "allow", "features": {"is_quick_play_multiplayer": true}}], "value": ["--quickPlayMultiplayer", "${quickPlayMultiplayer}"]}
		]
	}
}`

func modernResolved() *core.ResolvedLaunch {
	return &core.ResolvedLaunch{
		EffectiveVersion: "1.20.1",
		JVMArguments:     []string{"-Xmx4096M", "-Xms2048M"},
		ExecutablePath:   "java",
	}
}

func TestCommandModernManifest(t *testing.T) {
	gameDir := t.TempDir()
	writeManifest(t, gameDir, "1.20.1", modernManifest)

	b := NewBackend(gameDir)
	cmd, err := b.Command(modernResolved(), "Steve")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}

	args := cmd.Args
	if args[1] != "-Xmx4096M" || args[2] != "-Xms2048M" {
		t.Fatalf("memory flags not first, got %v", args[1:3])
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "net.minecraft.client.main.Main") {
		t.Errorf("main class missing from %q", joined)
	}
	if !strings.Contains(joined, "--username Steve") {
		t.Errorf("username not substituted: %q", joined)
	}
	if !strings.Contains(joined, "--version 1.20.1") {
		t.Errorf("version not substituted: %q", joined)
	}
	if !strings.Contains(joined, "--uuid "+OfflineUUID("Steve")) {
		t.Errorf("uuid not substituted: %q", joined)
	}
	if strings.Contains(joined, "--width") {
		t.Errorf("resolution args present without a resolution: %q", joined)
	}
	if strings.Contains(joined, "--quickPlayMultiplayer") {
		t.Errorf("quick play args should never apply: %q", joined)
	}

	// Classpath carries the applicable library and the client jar, not
	// the rule-excluded one.
	var classpath string
	for i, a := range args {
		if a == "-cp" && i+1 < len(args) {
			classpath = args[i+1]
		}
	}
	if classpath == "" {
		t.Fatal("no -cp in args")
	}
	wantLib := filepath.Join(gameDir, "libraries", "com", "mojang", "brigadier", "1.1.8", "brigadier-1.1.8.jar")
	wantJar := filepath.Join(gameDir, "versions", "1.20.1", "1.20.1.jar")
	if !strings.Contains(classpath, wantLib) {
		t.Errorf("classpath missing library: %q", classpath)
	}
	if !strings.Contains(classpath, wantJar) {
		t.Errorf("classpath missing client jar: %q", classpath)
	}
	if strings.Contains(classpath, "never-1.0.jar") {
		t.Errorf("rule-excluded library on classpath: %q", classpath)
	}

	if cmd.Dir != gameDir {
		t.Errorf("Dir = %q, want %q", cmd.Dir, gameDir)
	}
}

func TestCommandResolutionFeature(t *testing.T) {
	gameDir := t.TempDir()
	writeManifest(t, gameDir, "1.20.1", modernManifest)

	resolved := modernResolved()
	resolved.Resolution = &core.Resolution{Width: 1920, Height: 1080}

	b := NewBackend(gameDir)
	cmd, err := b.Command(resolved, "Steve")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}

	joined := strings.Join(cmd.Args, " ")
	if !strings.Contains(joined, "--width 1920") || !strings.Contains(joined, "--height 1080") {
		t.Errorf("resolution args missing: %q", joined)
	}
}

func TestCommandServerJoin(t *testing.T) {
	gameDir := t.TempDir()
	writeManifest(t, gameDir, "1.20.1", modernManifest)

	resolved := modernResolved()
	resolved.ServerJoin = &core.ServerJoin{Host: "mc.example.com", Port: "25599"}

	b := NewBackend(gameDir)
	cmd, err := b.Command(resolved, "Steve")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}

	joined := strings.Join(cmd.Args, " ")
	if !strings.Contains(joined, "--server mc.example.com --port 25599") {
		t.Errorf("server join args missing: %q", joined)
	}
}

func TestCommandInheritsFrom(t *testing.T) {
	gameDir := t.TempDir()
	writeManifest(t, gameDir, "1.20.1", modernManifest)
	writeManifest(t, gameDir, "fabric-1.20.1", `{
		"id": "fabric-1.20.1",
		"inheritsFrom": "1.20.1",
		"type": "release",
		"mainClass": "net.fabricmc.loader.impl.launch.knot.KnotClient",
		"libraries": [
			{"name": "net.fabricmc:fabric-loader:0.15.11", "url": "https://maven.fabricmc.net/"}
		],
		"arguments": {"jvm": [], "game": []}
	}`)

	resolved := modernResolved()
	resolved.EffectiveVersion = "fabric-1.20.1"

	b := NewBackend(gameDir)
	cmd, err := b.Command(resolved, "Steve")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}

	joined := strings.Join(cmd.Args, " ")
	if !strings.Contains(joined, "net.fabricmc.loader.impl.launch.knot.KnotClient") {
		t.Errorf("loader main class missing: %q", joined)
	}
	if strings.Contains(joined, "net.minecraft.client.main.Main") {
		t.Errorf("parent main class should be overridden: %q", joined)
	}
	// Parent game arguments carry through.
	if !strings.Contains(joined, "--username Steve") {
		t.Errorf("inherited game args missing: %q", joined)
	}

	var classpath string
	for i, a := range cmd.Args {
		if a == "-cp" && i+1 < len(cmd.Args) {
			classpath = cmd.Args[i+1]
		}
	}
	wantLoader := filepath.Join(gameDir, "libraries", "net", "fabricmc", "fabric-loader", "0.15.11", "fabric-loader-0.15.11.jar")
	if !strings.Contains(classpath, wantLoader) {
		t.Errorf("loader library missing from classpath: %q", classpath)
	}
	// The profile has no client download, so the base jar is used.
	wantJar := filepath.Join(gameDir, "versions", "1.20.1", "1.20.1.jar")
	if !strings.Contains(classpath, wantJar) {
		t.Errorf("base client jar missing from classpath: %q", classpath)
	}
}

func TestCommandLegacyArguments(t *testing.T) {
	gameDir := t.TempDir()
	writeManifest(t, gameDir, "1.7.10", `{
		"id": "1.7.10",
		"type": "release",
		"mainClass": "net.minecraft.client.main.Main",
		"minecraftArguments": "--username ${auth_player_name} --version ${version_name} --gameDir ${game_directory}",
		"downloads": {"client": {"url": "https://example.com/c.jar", "sha1": "x", "size": 1}},
		"libraries": []
	}`)

	resolved := &core.ResolvedLaunch{
		EffectiveVersion: "1.7.10",
		JVMArguments:     []string{"-Xmx2048M", "-Xms1024M"},
		Resolution:       &core.Resolution{Width: 854, Height: 480},
		ExecutablePath:   "java",
	}

	b := NewBackend(gameDir)
	cmd, err := b.Command(resolved, "Alex")
	if err != nil {
		t.Fatalf("Command: %v", err)
	}

	joined := strings.Join(cmd.Args, " ")
	if !strings.Contains(joined, "-Djava.library.path=") {
		t.Errorf("natives path missing in legacy mode: %q", joined)
	}
	if !strings.Contains(joined, "--username Alex --version 1.7.10") {
		t.Errorf("legacy args not substituted: %q", joined)
	}
	// Legacy manifests have no resolution placeholders, so the flags
	// are appended directly.
	if !strings.Contains(joined, "--width 854 --height 480") {
		t.Errorf("resolution not appended for legacy manifest: %q", joined)
	}
}

func TestCommandMissingManifest(t *testing.T) {
	b := NewBackend(t.TempDir())
	_, err := b.Command(&core.ResolvedLaunch{EffectiveVersion: "1.99.0", ExecutablePath: "java"}, "Steve")
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
	var be *core.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("want BackendError, got %T", err)
	}
	if !be.NotFound {
		t.Error("NotFound should be set for a missing manifest")
	}
}

func TestCommandCorruptManifest(t *testing.T) {
	gameDir := t.TempDir()
	writeManifest(t, gameDir, "1.20.1", `{not json`)

	b := NewBackend(gameDir)
	_, err := b.Command(modernResolved(), "Steve")
	var be *core.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("want BackendError, got %T", err)
	}
	if be.NotFound {
		t.Error("a corrupt manifest is not a missing one")
	}
}

func TestInheritanceCycle(t *testing.T) {
	gameDir := t.TempDir()
	writeManifest(t, gameDir, "a", `{"id": "a", "inheritsFrom": "b", "mainClass": "M"}`)
	writeManifest(t, gameDir, "b", `{"id": "b", "inheritsFrom": "a", "mainClass": "M"}`)

	b := NewBackend(gameDir)
	_, err := b.LoadDetails("a")
	var be *core.BackendError
	if !errors.As(err, &be) {
		t.Fatalf("want BackendError for cycle, got %v", err)
	}
}

func TestOSGatedLibrary(t *testing.T) {
	lib := &core.Library{
		Name:  "org.example:native:1.0",
		Rules: []core.Rule{{Action: "allow", OS: &core.OSRule{Name: currentOSName()}}},
	}
	if !LibraryApplies(lib) {
		t.Error("library gated on the current OS should apply")
	}

	lib.Rules = []core.Rule{{Action: "allow", OS: &core.OSRule{Name: "zos"}}}
	if LibraryApplies(lib) {
		t.Error("library gated on another OS should not apply")
	}

	lib.Rules = []core.Rule{
		{Action: "allow"},
		{Action: "disallow", OS: &core.OSRule{Name: currentOSName()}},
	}
	if LibraryApplies(lib) {
		t.Error("later disallow should win")
	}
}

func TestMavenPath(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"net.fabricmc:fabric-loader:0.15.11", "net/fabricmc/fabric-loader/0.15.11/fabric-loader-0.15.11.jar"},
		{"org.ow2.asm:asm:9.7", "org/ow2/asm/asm/9.7/asm-9.7.jar"},
		{"org.lwjgl:lwjgl:3.3.2:natives-linux", "org/lwjgl/lwjgl/3.3.2/lwjgl-3.3.2-natives-linux.jar"},
		{"not-a-coordinate", ""},
	}
	for _, tt := range tests {
		if got := MavenPath(tt.name); got != tt.want {
			t.Errorf("MavenPath(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestOfflineUUID(t *testing.T) {
	a := OfflineUUID("Steve")
	b := OfflineUUID("Steve")
	c := OfflineUUID("Alex")
	if a != b {
		t.Errorf("uuid not stable: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different names should map to different ids")
	}
	if len(a) != 36 {
		t.Errorf("unexpected uuid format: %q", a)
	}
}

func TestStartUnknownExecutable(t *testing.T) {
	b := NewBackend(t.TempDir())
	cmd := exec.Command(filepath.Join(t.TempDir(), "no-such-java"), "-version")

	_, err := b.Start(cmd, nil)
	if err == nil {
		t.Fatal("expected start to fail")
	}
	var pse *core.ProcessStartError
	if !errors.As(err, &pse) {
		t.Fatalf("want ProcessStartError, got %T", err)
	}
	if pse.Path == "" {
		t.Error("ProcessStartError should carry the executable path")
	}
}

func TestProcessStreamsAndWaits(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}

	b := NewBackend(t.TempDir())
	cmd := exec.Command("sh", "-c", `echo "plain chatter"; echo "ERROR: something broke"; echo "oops" 1>&2`)

	logs := make(chan LogLine, 16)
	p, err := b.Start(cmd, logs)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	elapsed, err := p.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed < 0 || elapsed > time.Minute {
		t.Errorf("implausible elapsed time %v", elapsed)
	}
	close(logs)

	var texts []string
	for line := range logs {
		texts = append(texts, line.Level+"|"+line.Text)
	}
	joined := strings.Join(texts, "\n")
	if strings.Contains(joined, "plain chatter") {
		t.Errorf("uninteresting stdout should be dropped: %q", joined)
	}
	if !strings.Contains(joined, "error|ERROR: something broke") {
		t.Errorf("error line missing or misclassified: %q", joined)
	}
	if !strings.Contains(joined, "error|oops") {
		t.Errorf("stderr line missing: %q", joined)
	}
}
