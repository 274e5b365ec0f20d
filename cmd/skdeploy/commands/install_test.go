package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstall(t *testing.T) {
	cmd := Install()

	require.NotNil(t, cmd)
	assert.Equal(t, "install", cmd.Use)
	assert.Equal(t, "Install the school portal on this host", cmd.Short)
}

func TestInstall_ConfigFlag(t *testing.T) {
	cmd := Install()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag, "config flag should exist")
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, "sekolahku.conf", flag.DefValue)
}

func TestInstall_ProfileFlag(t *testing.T) {
	cmd := Install()

	flag := cmd.Flags().Lookup("profile")
	require.NotNil(t, flag, "profile flag should exist")
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "production", flag.DefValue)
}

func TestInstall_RunE(t *testing.T) {
	cmd := Install()
	assert.NotNil(t, cmd.RunE, "Install command should have RunE function")
}

func TestInit_Flags(t *testing.T) {
	cmd := Init()

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, "sekolahku.conf", output.DefValue)

	profile := cmd.Flags().Lookup("profile")
	require.NotNil(t, profile)
	assert.Equal(t, "production", profile.DefValue)
}
