// Package java finds and validates Java runtimes on the system.
package java

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// probeTimeout bounds a single "java -version" invocation.
const probeTimeout = 5 * time.Second

var versionRegex = regexp.MustCompile(`(?:java|openjdk) version "([^"]+)"`)

// Runtime is one usable Java installation.
type Runtime struct {
	Path    string // java executable
	Version string // full version string
	Major   int    // 8, 17, 21, ...
	Is64Bit bool
	Vendor  string // OpenJDK, Eclipse Adoptium, ...
}

// String renders the runtime for display.
func (r *Runtime) String() string {
	arch := "32-bit"
	if r.Is64Bit {
		arch = "64-bit"
	}
	vendor := r.Vendor
	if vendor == "" {
		vendor = "Unknown"
	}
	return fmt.Sprintf("Java %d (%s, %s)", r.Major, vendor, arch)
}

// Detect returns every runtime it can find: JAVA_HOME, PATH, then the
// usual per-OS install locations. Results are deduplicated by resolved
// path.
func Detect() []Runtime {
	var found []Runtime
	seen := make(map[string]bool)

	add := func(javaPath string) {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		rt, err := Probe(ctx, javaPath)
		if err != nil || seen[rt.Path] {
			return
		}
		seen[rt.Path] = true
		found = append(found, *rt)
	}

	if javaHome := os.Getenv("JAVA_HOME"); javaHome != "" {
		if p := javaExecutable(javaHome); p != "" {
			add(p)
		}
	}

	if p, err := exec.LookPath("java"); err == nil {
		add(p)
	}

	for _, dir := range searchDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if p := javaExecutable(filepath.Join(dir, entry.Name())); p != "" {
				add(p)
			}
		}
	}

	return found
}

// Probe runs "java -version" on path and parses what comes back. It is
// also the validation behind an explicitly configured java path.
func Probe(ctx context.Context, path string) (*Runtime, error) {
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		realPath = path
	}

	cmd := exec.CommandContext(ctx, realPath, "-version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("running %s -version: %w", realPath, err)
	}

	return parseProbe(realPath, string(output))
}

// Best picks the runtime to launch with: the oldest 64-bit one that
// still meets requiredMajor, so the game gets the Java it was built
// against. With no match it falls back to the newest 64-bit runtime.
func Best(runtimes []Runtime, requiredMajor int) *Runtime {
	var best *Runtime
	for i := range runtimes {
		rt := &runtimes[i]
		if !rt.Is64Bit || rt.Major < requiredMajor {
			continue
		}
		if best == nil || rt.Major < best.Major {
			best = rt
		}
	}
	if best != nil {
		return best
	}

	for i := range runtimes {
		rt := &runtimes[i]
		if rt.Is64Bit && (best == nil || rt.Major > best.Major) {
			best = rt
		}
	}
	return best
}

func searchDirs() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Library/Java/JavaVirtualMachines",
			"/System/Library/Java/JavaVirtualMachines",
			filepath.Join(os.Getenv("HOME"), ".sdkman/candidates/java"),
			filepath.Join(os.Getenv("HOME"), ".jenv/versions"),
		}
	case "linux":
		return []string{
			"/usr/lib/jvm",
			"/usr/lib64/jvm",
			"/usr/java",
			filepath.Join(os.Getenv("HOME"), ".sdkman/candidates/java"),
			filepath.Join(os.Getenv("HOME"), ".jenv/versions"),
		}
	case "windows":
		return []string{
			`C:\Program Files\Java`,
			`C:\Program Files\Eclipse Adoptium`,
			`C:\Program Files\Zulu`,
			`C:\Program Files\Microsoft\jdk`,
		}
	default:
		return nil
	}
}

// javaExecutable locates the java binary under an installation root,
// covering both the plain and the macOS bundle layout.
func javaExecutable(dir string) string {
	name := "java"
	if runtime.GOOS == "windows" {
		name = "java.exe"
	}

	candidates := []string{
		filepath.Join(dir, "bin", name),
		filepath.Join(dir, "Contents", "Home", "bin", name),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func parseProbe(path, output string) (*Runtime, error) {
	rt := &Runtime{Path: path}

	// Typical first lines:
	//   openjdk version "21.0.1" 2023-10-17
	//   java version "1.8.0_391"
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		if matches := versionRegex.FindStringSubmatch(line); len(matches) > 1 {
			rt.Version = matches[1]
			rt.Major = parseMajor(matches[1])
		}

		if strings.Contains(line, "64-Bit") || strings.Contains(line, "amd64") || strings.Contains(line, "x86_64") {
			rt.Is64Bit = true
		}

		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "graalvm"):
			rt.Vendor = "GraalVM"
		case strings.Contains(lower, "azul"):
			rt.Vendor = "Azul Zulu"
		case strings.Contains(lower, "adoptium") || strings.Contains(lower, "temurin"):
			rt.Vendor = "Eclipse Adoptium"
		case strings.Contains(lower, "oracle"):
			rt.Vendor = "Oracle"
		case strings.Contains(lower, "microsoft"):
			rt.Vendor = "Microsoft"
		case strings.Contains(lower, "openjdk") && rt.Vendor == "":
			rt.Vendor = "OpenJDK"
		}
	}

	// Modern unix builds rarely announce the architecture.
	if runtime.GOOS != "windows" && !rt.Is64Bit {
		rt.Is64Bit = true
	}

	if rt.Version == "" {
		return nil, fmt.Errorf("no version in output of %s", path)
	}
	return rt, nil
}

// parseMajor handles both the legacy 1.8.0_x scheme and the modern
// one.
func parseMajor(version string) int {
	if strings.HasPrefix(version, "1.") {
		parts := strings.Split(version, ".")
		if len(parts) >= 2 {
			v, _ := strconv.Atoi(parts[1])
			return v
		}
	}

	parts := strings.Split(version, ".")
	if len(parts) >= 1 {
		v, _ := strconv.Atoi(parts[0])
		return v
	}
	return 0
}
