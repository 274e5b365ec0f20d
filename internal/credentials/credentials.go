// Package credentials generates and persists the one-time secrets of an
// installation: database password, admin password and application key.
//
// Secrets are written once to a permission-restricted artifact file and are
// never regenerated on an idempotent re-run unless the artifact is explicitly
// removed (reset). Both input paths, config file and interactive wizard,
// funnel through EnsureCredentials so generated secrets carry identical
// strength guarantees.
package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"github.com/sekolahku/skdeploy/internal/config"
	"github.com/sekolahku/skdeploy/internal/platform/host"
)

// Secret lengths. The character set is alphanumeric only so values are safe
// for shell and template interpolation without escaping.
const (
	dbPasswordLen    = 24
	adminPasswordLen = 16
	appKeyBytes      = 32

	// redactPrefixLen is how much of a secret any summary output may show.
	redactPrefixLen = 4
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Credentials is the persisted secrets artifact.
type Credentials struct {
	DBPassword    string
	AdminPassword string
	AppKey        string
}

// RandomPassword returns a cryptographically random alphanumeric string.
func RandomPassword(length int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(alphanumeric)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		b.WriteByte(alphanumeric[n.Int64()])
	}
	return b.String(), nil
}

// AppKey returns a fresh application key: a format tag over 32 random bytes.
func AppKey() (string, error) {
	raw := make([]byte, appKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}
	return "base64:" + base64.StdEncoding.EncodeToString(raw), nil
}

// Generate produces a full credentials set, keeping any secrets already
// supplied in the installation config.
func Generate(cfg *config.Config) (*Credentials, error) {
	creds := &Credentials{
		DBPassword:    cfg.DBPassword,
		AdminPassword: cfg.AdminPassword,
	}

	var err error
	if creds.DBPassword == "" {
		if creds.DBPassword, err = RandomPassword(dbPasswordLen); err != nil {
			return nil, err
		}
	}
	if creds.AdminPassword == "" {
		if creds.AdminPassword, err = RandomPassword(adminPasswordLen); err != nil {
			return nil, err
		}
	}
	if creds.AppKey, err = AppKey(); err != nil {
		return nil, err
	}
	return creds, nil
}

// Redacted returns a fixed-length prefix of a secret followed by a mask.
// This is the only form in which secrets may appear in logs or summaries
// after the one-time display.
func Redacted(secret string) string {
	if len(secret) <= redactPrefixLen {
		return "********"
	}
	return secret[:redactPrefixLen] + "********"
}

// EnsureCredentials loads the artifact at path if it exists, otherwise
// generates a fresh set and writes it with restrictive permissions.
// The second return value reports whether the artifact was created by this
// call; the caller shows secrets in full exactly once, on creation.
func EnsureCredentials(h host.Host, path string, cfg *config.Config) (*Credentials, bool, error) {
	if h.FileExists(path) {
		data, err := h.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read credentials artifact: %w", err)
		}
		creds, err := parseArtifact(string(data))
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", path, err)
		}
		return creds, false, nil
	}

	creds, err := Generate(cfg)
	if err != nil {
		return nil, false, err
	}
	if err := h.WriteFile(path, []byte(creds.artifact()), 0o600); err != nil {
		return nil, false, fmt.Errorf("failed to write credentials artifact: %w", err)
	}
	return creds, true, nil
}

func (c *Credentials) artifact() string {
	var b strings.Builder
	b.WriteString("# Sekolahku credentials. Keep this file safe; it is shown in full only once.\n")
	fmt.Fprintf(&b, "DB_PASSWORD=%s\n", c.DBPassword)
	fmt.Fprintf(&b, "ADMIN_PASSWORD=%s\n", c.AdminPassword)
	fmt.Fprintf(&b, "APP_KEY=%s\n", c.AppKey)
	return b.String()
}

func parseArtifact(text string) (*Credentials, error) {
	creds := &Credentials{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch key {
		case "DB_PASSWORD":
			creds.DBPassword = value
		case "ADMIN_PASSWORD":
			creds.AdminPassword = value
		case "APP_KEY":
			creds.AppKey = value
		}
	}
	if creds.DBPassword == "" || creds.AdminPassword == "" || creds.AppKey == "" {
		return nil, fmt.Errorf("credentials artifact is incomplete")
	}
	return creds, nil
}
