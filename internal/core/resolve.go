package core

import (
	"fmt"
	"strings"
)

// RAM allocation bounds in megabytes, applied when a request is built
// from settings.
const (
	MinRAMMegabytes = 1024
	MaxRAMMegabytes = 16384
)

// DefaultServerPort is used when a server host is set without a port.
const DefaultServerPort = "25565"

// ClampRAM bounds a requested allocation to [MinRAMMegabytes, MaxRAMMegabytes].
func ClampRAM(mb int) int {
	if mb < MinRAMMegabytes {
		return MinRAMMegabytes
	}
	if mb > MaxRAMMegabytes {
		return MaxRAMMegabytes
	}
	return mb
}

// LaunchRequest is the input to Resolve, built fresh from current
// settings at every launch attempt and never persisted.
type LaunchRequest struct {
	BaseVersion   string // raw selection text, validated during resolve
	ModLoader     LoaderType
	Username      string
	RAMMegabytes  int
	CustomJVMArgs []string // one flag per entry
	WindowWidth   int
	WindowHeight  int
	Fullscreen    bool
	ServerHost    string
	ServerPort    string
	JavaPath      string
}

// Resolution is the window size hint passed to the game.
type Resolution struct {
	Width  int
	Height int
}

// ServerJoin asks the game to connect to a server on startup.
type ServerJoin struct {
	Host string
	Port string
}

// ResolvedLaunch is the transient output of Resolve, consumed by the
// launch backend and discarded.
type ResolvedLaunch struct {
	EffectiveVersion VersionID
	JVMArguments     []string
	Resolution       *Resolution
	ServerJoin       *ServerJoin
	ExecutablePath   string
}

// Resolve maps a request plus the current installed set to the concrete
// launch parameters, or fails with a classified error. It is pure: no
// I/O, no retained state, safe to call from any goroutine.
//
// When a non-vanilla loader is requested the installed set is probed
// for the canonical "<loader>-<base>" id, then the legacy
// "<base>-<loader>" spelling. If neither is present the base version
// is attempted as-is; it still has to be installed.
func Resolve(req LaunchRequest, installed InstalledSet) (*ResolvedLaunch, error) {
	base, err := ParseVersionID(req.BaseVersion)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Username) == "" {
		return nil, &MissingUsernameError{}
	}

	effective := base
	if req.ModLoader != LoaderVanilla {
		variant := Variant{Base: base, Loader: req.ModLoader}
		switch {
		case installed.Has(variant.ID()):
			effective = variant.ID()
		case installed.Has(variant.LegacyID()):
			effective = variant.LegacyID()
		}
	}

	if !installed.Has(effective) {
		missing := effective
		if req.ModLoader != LoaderVanilla {
			missing = Variant{Base: base, Loader: req.ModLoader}.ID()
		}
		return nil, &VersionNotInstalledError{Version: missing}
	}

	args := make([]string, 0, 2+len(req.CustomJVMArgs))
	args = append(args,
		fmt.Sprintf("-Xmx%dM", req.RAMMegabytes),
		fmt.Sprintf("-Xms%dM", req.RAMMegabytes/2),
	)
	for _, arg := range req.CustomJVMArgs {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		args = append(args, arg)
	}

	resolved := &ResolvedLaunch{
		EffectiveVersion: effective,
		JVMArguments:     args,
		ExecutablePath:   req.JavaPath,
	}
	if req.Fullscreen || (req.WindowWidth > 0 && req.WindowHeight > 0) {
		// Fullscreen reuses the configured window size as a hint
		// rather than querying the display.
		resolved.Resolution = &Resolution{Width: req.WindowWidth, Height: req.WindowHeight}
	}
	if host := strings.TrimSpace(req.ServerHost); host != "" {
		port := strings.TrimSpace(req.ServerPort)
		if port == "" {
			port = DefaultServerPort
		}
		resolved.ServerJoin = &ServerJoin{Host: host, Port: port}
	}
	return resolved, nil
}
