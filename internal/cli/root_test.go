package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"plan", "grid", "validate", "run", "replay", "test"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommandInvalidFormat(t *testing.T) {
	_, err := execute(NewRootCommand(), "--format", "xml", "validate", "x.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootCommandValidateThroughRoot(t *testing.T) {
	path := writeSmallSettings(t)

	out, err := execute(NewRootCommand(), "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Settings valid: 12 event(s)")
}

func TestRootCommandInvalidEnv(t *testing.T) {
	t.Setenv("MDAQ_LOG_LEVEL", "loud")
	path := writeSmallSettings(t)

	_, err := execute(NewRootCommand(), "run", "--db", t.TempDir()+"/x.db", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "MDAQ_LOG_LEVEL")
}
