package config

import (
	"fmt"
	"regexp"
)

// ValidationError reports one offending input field. Validation failures
// always surface before any side effect is performed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

var (
	// usernameRegex: alphanumeric plus underscore only. Length is checked
	// separately so the error message can name the actual rule broken.
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	// emailRegex is a deliberately loose addr-spec shape; the application
	// performs its own verification on first login.
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// domainRegex requires a hostname with at least one dot and a
	// two-letter-or-longer TLD. Only enforced under strict profiles.
	domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

	// safeTextRegex is the interpolation allowlist for free-text fields that
	// end up inside generated configs and shell commands. Anything outside
	// this class is rejected rather than escaped.
	safeTextRegex = regexp.MustCompile(`^[A-Za-z0-9 ._'\-]+$`)

	// timezoneRegex matches IANA zone names like Asia/Jakarta.
	timezoneRegex = regexp.MustCompile(`^[A-Za-z_]+(/[A-Za-z_\-+0-9]+)+$|^UTC$`)
)

// Password length floors per validation profile.
const (
	minPasswordStrict  = 8
	minPasswordRelaxed = 6
	minUsernameLen     = 4
)

// SafeText reports whether s is inside the character-class allowlist for
// interpolation into generated scripts and config files.
func SafeText(s string) bool {
	return s != "" && safeTextRegex.MatchString(s)
}

// Validate checks every field against the selected profile and returns a
// ValidationError naming the first offending field.
func (c *Config) Validate() error {
	if err := c.validateDomain(); err != nil {
		return err
	}
	if err := c.validateAdmin(); err != nil {
		return err
	}
	if err := c.validateSchool(); err != nil {
		return err
	}
	if c.DBPassword != "" {
		if err := validatePassword("DB_PASSWORD", c.DBPassword, c.Profile); err != nil {
			return err
		}
	}
	if c.Timezone != "" && !timezoneRegex.MatchString(c.Timezone) {
		return &ValidationError{Field: "TIMEZONE", Message: fmt.Sprintf("not an IANA timezone name: %q", c.Timezone)}
	}
	return nil
}

func (c *Config) validateDomain() error {
	return CheckDomain(c.Domain, c.Profile)
}

func (c *Config) validateAdmin() error {
	if err := CheckUsername(c.AdminUsername); err != nil {
		return err
	}
	if err := CheckEmail(c.AdminEmail); err != nil {
		return err
	}
	if c.AdminPassword != "" {
		if err := validatePassword("ADMIN_PASSWORD", c.AdminPassword, c.Profile); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateSchool() error {
	if err := CheckSchoolName(c.SchoolName); err != nil {
		return err
	}
	for _, level := range SchoolLevels {
		if c.SchoolLevel == level {
			return nil
		}
	}
	return &ValidationError{Field: "SCHOOL_LEVEL", Message: fmt.Sprintf("%q is not one of SD, SMP, SMA, SMK", c.SchoolLevel)}
}

// CheckDomain validates the domain for a profile. Strict profiles require a
// real hostname; relaxed profiles still refuse shell metacharacters because
// the value is interpolated into the rendered proxy config.
func CheckDomain(domain string, profile Profile) error {
	if domain == "" {
		return &ValidationError{Field: "DOMAIN", Message: "is required"}
	}
	if profile.Strict() && !domainRegex.MatchString(domain) {
		return &ValidationError{Field: "DOMAIN", Message: fmt.Sprintf("%q is not a valid hostname", domain)}
	}
	if !profile.Strict() && !SafeText(domain) {
		return &ValidationError{Field: "DOMAIN", Message: "contains characters unsafe for interpolation"}
	}
	return nil
}

// CheckUsername validates the administrator account name.
func CheckUsername(username string) error {
	if len(username) < minUsernameLen {
		return &ValidationError{Field: "ADMIN_USERNAME", Message: fmt.Sprintf("must be at least %d characters", minUsernameLen)}
	}
	if !usernameRegex.MatchString(username) {
		return &ValidationError{Field: "ADMIN_USERNAME", Message: "may only contain letters, digits and underscore"}
	}
	return nil
}

// CheckEmail validates the administrator email address.
func CheckEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return &ValidationError{Field: "ADMIN_EMAIL", Message: fmt.Sprintf("%q is not a valid email address", email)}
	}
	return nil
}

// CheckSchoolName validates the school display name against the
// interpolation allowlist.
func CheckSchoolName(name string) error {
	if !SafeText(name) {
		return &ValidationError{Field: "SCHOOL_NAME", Message: "must be letters, digits, spaces, dots, underscores, apostrophes or dashes"}
	}
	return nil
}

// CheckPassword validates an optional password; empty means one will be
// generated.
func CheckPassword(field, value string, profile Profile) error {
	if value == "" {
		return nil
	}
	return validatePassword(field, value, profile)
}

func validatePassword(field, value string, profile Profile) error {
	minLen := minPasswordRelaxed
	if profile.Strict() {
		minLen = minPasswordStrict
	}
	if len(value) < minLen {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", minLen)}
	}
	return nil
}
