// Package config defines the installation configuration, its key=value file
// format, and the strict/relaxed validation profiles.
package config

import "fmt"

// Profile selects how strictly the configuration is validated and which
// provisioning steps run.
type Profile string

const (
	// ProfileProduction is the public production profile: strict validation,
	// firewall and TLS issuance enabled.
	ProfileProduction Profile = "production"

	// ProfileCloud is the cloud bootstrap profile: production semantics plus
	// a leading step that creates a non-root operator account.
	ProfileCloud Profile = "cloud"

	// ProfileDev is the relaxed local/dev profile: shorter passwords,
	// free-text domain, no firewall or TLS, reset enabled.
	ProfileDev Profile = "dev"
)

// Strict reports whether the profile enforces strict validation rules.
func (p Profile) Strict() bool {
	return p != ProfileDev
}

// ParseProfile converts a flag value into a Profile.
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case ProfileProduction, ProfileCloud, ProfileDev:
		return Profile(s), nil
	}
	return "", fmt.Errorf("unknown profile %q: must be production, cloud or dev", s)
}

// SchoolLevel is the institution-level enumeration.
type SchoolLevel string

// Institution levels of the Indonesian school system.
const (
	LevelSD  SchoolLevel = "SD"
	LevelSMP SchoolLevel = "SMP"
	LevelSMA SchoolLevel = "SMA"
	LevelSMK SchoolLevel = "SMK"
)

// SchoolLevels lists all valid institution levels in display order.
var SchoolLevels = []SchoolLevel{LevelSD, LevelSMP, LevelSMA, LevelSMK}

// DefaultTimezone is applied when TIMEZONE is absent from the input file.
const DefaultTimezone = "Asia/Jakarta"

// Config is the validated installation input. It is owned by the orchestrator
// for the duration of one run; rendered artifacts outlive it in the app
// directory.
type Config struct {
	Domain        string
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	SchoolName    string
	SchoolLevel   SchoolLevel
	DBPassword    string // optional; generated when absent
	Timezone      string

	// Profile is not part of the input file; it is selected on the command
	// line and recorded in the rendered env file.
	Profile Profile
}

// ApplyDefaults fills optional fields that have fixed defaults.
// Secret defaults are not applied here; absent secrets are generated by the
// credentials package so both input paths share one generation routine.
func (c *Config) ApplyDefaults() {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Profile == "" {
		c.Profile = ProfileProduction
	}
}
