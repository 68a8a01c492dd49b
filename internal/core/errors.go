package core

import (
	"fmt"
	"strings"
)

// Classified launch failures. Each carries the offending value so the
// UI can show it; none is fatal to the application.

// InvalidVersionError reports a selection that is not a version id.
type InvalidVersionError struct {
	Value string
}

func (e *InvalidVersionError) Error() string {
	if strings.TrimSpace(e.Value) == "" {
		return "no version selected"
	}
	return fmt.Sprintf("invalid version selection %q", e.Value)
}

// MissingUsernameError reports an empty username after trimming.
type MissingUsernameError struct{}

func (e *MissingUsernameError) Error() string {
	return "username is empty"
}

// VersionNotInstalledError reports that the version to launch has no
// manifest on disk. Version is the id the user asked for, which for a
// loader request is the canonical composite rather than the base.
type VersionNotInstalledError struct {
	Version VersionID
}

func (e *VersionNotInstalledError) Error() string {
	return fmt.Sprintf("version %s is not installed", e.Version)
}

// BackendError reports a failure while assembling the launch command.
type BackendError struct {
	Version  VersionID
	NotFound bool
	Err      error
}

func (e *BackendError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("version %s not found by the launch backend", e.Version)
	}
	return fmt.Sprintf("building command for %s: %v", e.Version, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ProcessStartError reports that the game process could not be started,
// typically because the java executable does not exist.
type ProcessStartError struct {
	Path string
	Err  error
}

func (e *ProcessStartError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Path, e.Err)
}

func (e *ProcessStartError) Unwrap() error { return e.Err }

// LoaderUnsupportedError reports a loader install request this launcher
// cannot service.
type LoaderUnsupportedError struct {
	Loader LoaderType
}

func (e *LoaderUnsupportedError) Error() string {
	return fmt.Sprintf("%s has no automated installer, run its official installer instead", e.Loader)
}
