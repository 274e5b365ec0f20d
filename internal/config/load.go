package config

import (
	"fmt"
	"os"
	"strings"
)

// Recognized keys of the input file, in the order they are documented.
var knownKeys = map[string]struct{}{
	"DOMAIN":         {},
	"ADMIN_USERNAME": {},
	"ADMIN_EMAIL":    {},
	"ADMIN_PASSWORD": {},
	"SCHOOL_NAME":    {},
	"SCHOOL_LEVEL":   {},
	"DB_PASSWORD":    {},
	"TIMEZONE":       {},
}

// LoadFile reads a key=value installation config from path.
// The format is flat sh-style: one KEY=value per line, # comments, blank
// lines ignored, optional surrounding double quotes on values.
func LoadFile(path string, profile Profile) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Profile = profile
	cfg.ApplyDefaults()
	return cfg, nil
}

// Parse parses the key=value config text.
func Parse(text string) (*Config, error) {
	cfg := &Config{}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("line %d", i+1),
				Message: fmt.Sprintf("not a KEY=value assignment: %q", line),
			}
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"`)

		if _, ok := knownKeys[key]; !ok {
			return nil, &ValidationError{
				Field:   key,
				Message: "unrecognized key",
			}
		}

		switch key {
		case "DOMAIN":
			cfg.Domain = value
		case "ADMIN_USERNAME":
			cfg.AdminUsername = value
		case "ADMIN_EMAIL":
			cfg.AdminEmail = value
		case "ADMIN_PASSWORD":
			cfg.AdminPassword = value
		case "SCHOOL_NAME":
			cfg.SchoolName = value
		case "SCHOOL_LEVEL":
			cfg.SchoolLevel = SchoolLevel(strings.ToUpper(value))
		case "DB_PASSWORD":
			cfg.DBPassword = value
		case "TIMEZONE":
			cfg.Timezone = value
		}
	}

	return cfg, nil
}

// FileContent renders the config back into the key=value file format, so the
// wizard writes exactly what LoadFile reads. Secrets that were left blank
// stay blank; they are generated at install time.
func (c *Config) FileContent() string {
	var b strings.Builder
	b.WriteString("# Sekolahku installation config. Used by: skdeploy install\n")
	fmt.Fprintf(&b, "DOMAIN=%s\n", c.Domain)
	fmt.Fprintf(&b, "ADMIN_USERNAME=%s\n", c.AdminUsername)
	fmt.Fprintf(&b, "ADMIN_EMAIL=%s\n", c.AdminEmail)
	fmt.Fprintf(&b, "ADMIN_PASSWORD=%s\n", c.AdminPassword)
	fmt.Fprintf(&b, "SCHOOL_NAME=%s\n", c.SchoolName)
	fmt.Fprintf(&b, "SCHOOL_LEVEL=%s\n", c.SchoolLevel)
	fmt.Fprintf(&b, "DB_PASSWORD=%s\n", c.DBPassword)
	fmt.Fprintf(&b, "TIMEZONE=%s\n", c.Timezone)
	return b.String()
}
