package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopRun(*CommandContext) error  { return nil }
func noopExec(*MessageContext) error { return nil }
func stringOption(name string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: name,
	}
}

func TestCommandBuilder(t *testing.T) {
	cmd := NewCommand("kick", "Expulsa a un miembro", "mod", noopRun).
		WithExec(noopExec).
		WithAliases("expulsar").
		WithOptions(stringOption("razon")).
		WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers).
		WithTarget("usuario").
		WithCooldown(3 * time.Second)

	assert.True(t, cmd.IsSlash())
	assert.True(t, cmd.IsText())
	assert.True(t, cmd.GuildOnly, "a target implies a guild")
	assert.Equal(t, "usuario", cmd.TargetOption)
	assert.Equal(t, []string{"expulsar"}, cmd.Aliases)
	assert.Equal(t, "kick", cmd.Path())
	assert.Equal(t, 3*time.Second, cmd.Cooldown)
}

func TestTextOnlyCommand(t *testing.T) {
	cmd := NewTextCommand("banana", "Banana", "random", noopExec)
	assert.False(t, cmd.IsSlash())
	assert.True(t, cmd.IsText())

	voice := NewCommand("play", "Reproduce", "music", noopRun).RequiresVoice()
	assert.True(t, voice.InVoiceChannel)
	assert.True(t, voice.GuildOnly)

	dev := NewCommand("eval", "Eval", "dev", noopRun).AsDev()
	assert.True(t, dev.IsDev)
}

func TestToApplicationCommand(t *testing.T) {
	cmd := NewCommand("ban", "Banea", "mod", noopRun).
		WithOptions(stringOption("razon")).
		WithUserPermissions(discordgo.PermissionBanMembers).
		InGuild()

	appCmd := cmd.ToApplicationCommand()
	require.NotNil(t, appCmd)
	assert.Equal(t, "ban", appCmd.Name)
	assert.Equal(t, "Banea", appCmd.Description)
	assert.Len(t, appCmd.Options, 1)
	require.NotNil(t, appCmd.DefaultMemberPermissions)
	assert.Equal(t, int64(discordgo.PermissionBanMembers), *appCmd.DefaultMemberPermissions)
	require.NotNil(t, appCmd.DMPermission)
	assert.False(t, *appCmd.DMPermission)

	plain := NewCommand("ping", "Pong", "utils", noopRun).ToApplicationCommand()
	assert.Nil(t, plain.DefaultMemberPermissions)
	assert.Nil(t, plain.DMPermission)
}
