package credentials

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/skdeploy/internal/config"
	fakes "github.com/sekolahku/skdeploy/internal/testing"
)

var alphanumericRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func TestRandomPassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		pw, err := RandomPassword(24)
		require.NoError(t, err)
		assert.Len(t, pw, 24)
		assert.Regexp(t, alphanumericRe, pw, "must stay interpolation-safe")
		assert.False(t, seen[pw], "passwords must not repeat")
		seen[pw] = true
	}
}

func TestAppKeyFormat(t *testing.T) {
	key, err := AppKey()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "base64:"))
	assert.Greater(t, len(key), len("base64:")+40)
}

func TestGenerate_KeepsSuppliedSecrets(t *testing.T) {
	cfg := &config.Config{DBPassword: "supplied-db", AdminPassword: "supplied-admin"}

	creds, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, "supplied-db", creds.DBPassword)
	assert.Equal(t, "supplied-admin", creds.AdminPassword)
	assert.NotEmpty(t, creds.AppKey)
}

func TestGenerate_FillsAbsentSecrets(t *testing.T) {
	creds, err := Generate(&config.Config{})
	require.NoError(t, err)

	assert.Len(t, creds.DBPassword, 24)
	assert.Len(t, creds.AdminPassword, 16)
}

func TestEnsureCredentials_CreatesOnce(t *testing.T) {
	h := fakes.NewFakeHost()
	path := "/opt/sekolahku/credentials.txt"

	first, created, err := EnsureCredentials(h, path, &config.Config{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, os.FileMode(0o600), h.Perms[path], "artifact must be permission-restricted")

	// Second run loads the artifact verbatim, never regenerates.
	second, created, err := EnsureCredentials(h, path, &config.Config{})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, second)
}

func TestEnsureCredentials_IncompleteArtifact(t *testing.T) {
	h := fakes.NewFakeHost()
	path := "/opt/sekolahku/credentials.txt"
	require.NoError(t, h.WriteFile(path, []byte("DB_PASSWORD=x\n"), 0o600))

	_, _, err := EnsureCredentials(h, path, &config.Config{})
	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	assert.Equal(t, "abcd********", Redacted("abcdefghij"))
	assert.Equal(t, "********", Redacted("ab"))
	assert.NotContains(t, Redacted("topsecretvalue"), "secretvalue")
}

func TestGenerateKeyPair(t *testing.T) {
	kp, err := GenerateKeyPair(2048)
	require.NoError(t, err)

	assert.Contains(t, string(kp.PrivateKeyPEM), "RSA PRIVATE KEY")
	assert.True(t, strings.HasPrefix(string(kp.AuthorizedKey), "ssh-rsa "))
}
