package core

import "time"

// Profile is a named snapshot of launch preferences, stored in the
// settings document's profiles map.
type Profile struct {
	Version   string     `json:"version"`
	RAM       int        `json:"ram"`
	ModLoader LoaderType `json:"mod_loader"`
	Username  string     `json:"username"`
	Created   string     `json:"created"`
}

// NewProfile captures the given preferences with a creation timestamp.
func NewProfile(version string, ram int, loader LoaderType, username string, at time.Time) Profile {
	return Profile{
		Version:   version,
		RAM:       ram,
		ModLoader: loader,
		Username:  username,
		Created:   at.Format(time.RFC3339),
	}
}
