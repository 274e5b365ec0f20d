package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagementCommands_HaveRunE(t *testing.T) {
	for _, cmd := range []struct {
		name string
		runE bool
	}{
		{Status().Use, Status().RunE != nil},
		{Logs().Use, Logs().RunE != nil},
		{Restart().Use, Restart().RunE != nil},
		{Stop().Use, Stop().RunE != nil},
		{Start().Use, Start().RunE != nil},
		{Update().Use, Update().RunE != nil},
		{Backup().Use, Backup().RunE != nil},
		{Shell().Use, Shell().RunE != nil},
		{Mysql().Use, Mysql().RunE != nil},
		{Reset().Use, Reset().RunE != nil},
	} {
		assert.True(t, cmd.runE, "%s should have a RunE function", cmd.name)
	}
}

func TestRestore_RequiresArchiveArgument(t *testing.T) {
	cmd := Restore()

	require.NotNil(t, cmd.Args)
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"backup.sql.gz"}))
	assert.Error(t, cmd.Args(cmd, []string{"a", "b"}))
}

func TestArtisan_PassesArgsThrough(t *testing.T) {
	cmd := Artisan()

	assert.True(t, cmd.DisableFlagParsing, "artisan must forward flags to the container")
	assert.NotNil(t, cmd.RunE)
}

func TestHighPerf_Subcommands(t *testing.T) {
	cmd := HighPerf()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["up"])
	assert.True(t, names["down"])
	assert.True(t, names["status"])
}

func TestReset_ForceFlag(t *testing.T) {
	cmd := Reset()

	flag := cmd.Flags().Lookup("force")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
