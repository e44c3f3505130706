package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"up", "down", "version", "force", "goto"} {
		sub, _, err := cmd.Find([]string{"migrate", name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)
	_, err = parseSteps([]string{"two"})
	assert.Error(t, err)
}

func TestParseVersionAndTarget(t *testing.T) {
	v, err := parseVersion("1")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = parseVersion("-1")
	assert.Error(t, err)

	target, err := parseTarget("20240615")
	require.NoError(t, err)
	assert.Equal(t, uint(20240615), target)

	_, err = parseTarget("-2")
	assert.Error(t, err)
}
