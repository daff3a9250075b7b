package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInvocation(t *testing.T) {
	inv, ok := ParseInvocation("ma!kick <@123> spamming", "ma!")
	require.True(t, ok)
	assert.Equal(t, "kick", inv.Name)
	assert.Equal(t, []string{"<@123>", "spamming"}, inv.Args)
	assert.Equal(t, "ma!", inv.Prefix)

	inv, ok = ParseInvocation("ma!KiCk   Foo  Bar", "ma!")
	require.True(t, ok)
	assert.Equal(t, "kick", inv.Name)
	assert.Equal(t, []string{"Foo", "Bar"}, inv.Args, "arguments keep their case")
	assert.Equal(t, "Foo Bar", inv.Rest(0))
	assert.Equal(t, "", inv.Rest(5))

	for _, content := range []string{"hola", "MA!kick", "ma!", "ma!   ", " ma!kick"} {
		_, ok := ParseInvocation(content, "ma!")
		assert.False(t, ok, content)
	}
	_, ok = ParseInvocation("kick", "")
	assert.False(t, ok)
}

func TestRegistryLookup(t *testing.T) {
	kick := NewCommand("kick", "Expulsa", "mod", noopRun).WithExec(noopExec).WithAliases("Expulsar")
	ping := NewCommand("ping", "Pong", "utils", noopRun)

	reg, err := NewBuilder().Add(kick, ping).Build()
	require.NoError(t, err)

	got, ok := reg.Lookup("KICK")
	require.True(t, ok)
	assert.Same(t, kick, got)

	again, _ := reg.Lookup("expulsar")
	assert.Same(t, got, again)

	_, ok = reg.Lookup("ping")
	assert.False(t, ok, "slash-only commands have no text key")

	p, ok := reg.LookupPath("ping")
	require.True(t, ok)
	assert.Same(t, ping, p)
	assert.Equal(t, 2, reg.Size())
}

func TestRegistryCommandsIsACopy(t *testing.T) {
	reg, err := NewBuilder().Add(NewCommand("ping", "Pong", "utils", noopRun)).Build()
	require.NoError(t, err)

	cmds := reg.Commands()
	cmds[0] = nil
	_ = append(cmds, NewCommand("extra", "x", "utils", noopRun))

	again := reg.Commands()
	require.Len(t, again, 1)
	assert.Equal(t, "ping", again[0].Name)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewBuilder().
		Add(NewTextCommand("kick", "a", "mod", noopExec)).
		Add(NewTextCommand("KICK", "b", "mod", noopExec)).
		Build()
	assert.ErrorIs(t, err, ErrDuplicateCommand)

	_, err = NewBuilder().
		Add(NewTextCommand("kick", "a", "mod", noopExec).WithAliases("k")).
		Add(NewTextCommand("k", "b", "mod", noopExec)).
		Build()
	assert.ErrorIs(t, err, ErrDuplicateCommand)

	_, err = NewBuilder().
		Add(NewCommand("ping", "a", "utils", noopRun)).
		Add(NewCommand("ping", "b", "utils", noopRun)).
		Build()
	assert.ErrorIs(t, err, ErrDuplicateCommand)

	_, err = NewBuilder().Add(&Command{Name: "empty"}).Build()
	assert.Error(t, err)
}

func TestRegistryGroups(t *testing.T) {
	prefixCmd := NewCommand("prefix", "Prefijo", "settings", noopRun)
	welcome := NewCommand("message", "Bienvenida", "settings", noopRun)
	eval := NewCommand("eval", "Eval", "dev", noopRun)

	reg, err := NewBuilder().
		AddGroup(Group{
			Name:            "settings",
			Description:     "Ajustes",
			GuildOnly:       true,
			UserPermissions: discordgo.PermissionManageGuild,
			Commands:        []*Command{prefixCmd},
			SubGroups: []SubGroup{{
				Name:        "welcome",
				Description: "Bienvenidas",
				Commands:    []*Command{welcome},
			}},
		}).
		AddGroup(Group{Name: "dev", Description: "Dev", Dev: true, Commands: []*Command{eval}}).
		Build()
	require.NoError(t, err)

	got, ok := reg.LookupPath("settings.welcome.message")
	require.True(t, ok)
	assert.Same(t, welcome, got)
	assert.True(t, welcome.GuildOnly)
	assert.Equal(t, "settings.prefix", prefixCmd.Path())

	global, dev := reg.ApplicationCommands()
	require.Len(t, global, 1)
	require.Len(t, dev, 1)
	assert.Equal(t, "settings", global[0].Name)
	require.Len(t, global[0].Options, 2)
	assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, global[0].Options[0].Type)
	assert.Equal(t, discordgo.ApplicationCommandOptionSubCommandGroup, global[0].Options[1].Type)

	cats := reg.Categories()
	assert.Len(t, cats["settings"], 2)
	assert.Equal(t, "dev", reg.Commands()[0].Category)
}

func TestCommandPath(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "settings",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Type: discordgo.ApplicationCommandOptionSubCommandGroup,
			Name: "welcome",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Type: discordgo.ApplicationCommandOptionSubCommand,
				Name: "channel",
			}},
		}},
	}
	assert.Equal(t, "settings.welcome.channel", CommandPath(data))

	data.Options[0] = &discordgo.ApplicationCommandInteractionDataOption{
		Type: discordgo.ApplicationCommandOptionSubCommand,
		Name: "prefix",
	}
	assert.Equal(t, "settings.prefix", CommandPath(data))

	assert.Equal(t, "ping", CommandPath(discordgo.ApplicationCommandInteractionData{Name: "ping"}))
}
