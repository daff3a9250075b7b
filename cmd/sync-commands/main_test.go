package main

import (
	"testing"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *discord.Registry {
	t.Helper()
	noop := func(*discord.CommandContext) error { return nil }
	reg, err := discord.NewBuilder().
		Add(discord.NewCommand("ping", "Latencia", "utils", noop)).
		Add(discord.NewCommand("eval", "Eval", "dev", noop).AsDev()).
		Build()
	require.NoError(t, err)
	return reg
}

func TestSyncTargets(t *testing.T) {
	reg := testRegistry(t)

	targets := syncTargets(reg, "", "")
	require.Len(t, targets, 1)
	assert.Equal(t, "", targets[0].guildID)
	assert.Equal(t, "ping", targets[0].commands[0].Name)

	targets = syncTargets(reg, "", "dev")
	require.Len(t, targets, 2)
	assert.Equal(t, "dev", targets[1].guildID)
	assert.Equal(t, "eval", targets[1].commands[0].Name)

	targets = syncTargets(reg, "dev", "dev")
	require.Len(t, targets, 1)
	assert.Equal(t, "eval", targets[0].commands[0].Name)

	targets = syncTargets(reg, "other", "dev")
	require.Len(t, targets, 1)
	assert.Equal(t, "ping", targets[0].commands[0].Name)
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "clean", "sync"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("guild"))
}

func TestScope(t *testing.T) {
	assert.Equal(t, "global", scope(""))
	assert.Equal(t, "el servidor 1", scope("1"))
}
