package utils

import (
	"testing"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *discord.Registry {
	t.Helper()
	noop := func(*discord.CommandContext) error { return nil }
	b := discord.NewBuilder()
	RegisterUtilsCommands(b)
	b.AddGroup(discord.Group{
		Name:        "mod",
		Description: "Moderación",
		Commands:    []*discord.Command{discord.NewCommand("ban", "Banea a un usuario", "mod", noop)},
	})
	b.Add(discord.NewCommand("eval", "Evalúa código", "dev", noop).AsDev())
	reg, err := b.Build()
	require.NoError(t, err)
	return reg
}

func TestRegisterUtilsCommands(t *testing.T) {
	reg := testRegistry(t)
	for _, name := range []string{"ping", "status", "help", "ayuda", "stats"} {
		cmd, ok := reg.Lookup(name)
		require.True(t, ok, name)
		assert.True(t, cmd.IsSlash(), name)
	}
	_, ok := reg.LookupPath("utils.help")
	assert.True(t, ok)
}

func TestHelpEmbedHidesDev(t *testing.T) {
	reg := testRegistry(t)
	e := discord.NewEmbeds(nil)

	embed := helpEmbed(e, reg.Commands(), "ma!", false)
	var names []string
	for _, f := range embed.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Mod", "Utils"}, names)
	assert.Contains(t, embed.Fields[1].Value, "`/utils ping` `ma!ping`")

	embed = helpEmbed(e, reg.Commands(), "ma!", true)
	assert.Len(t, embed.Fields, 3)
}

func TestLookupHelp(t *testing.T) {
	reg := testRegistry(t)

	cmd, ok := lookupHelp(reg, "/mod ban")
	require.True(t, ok)
	assert.Equal(t, "ban", cmd.Name)

	cmd, ok = lookupHelp(reg, "BAN")
	require.True(t, ok)
	assert.Equal(t, "mod.ban", cmd.Path())

	cmd, ok = lookupHelp(reg, "ayuda")
	require.True(t, ok)
	assert.Equal(t, "help", cmd.Name)

	_, ok = lookupHelp(reg, "nada")
	assert.False(t, ok)
}

func TestCommandEmbed(t *testing.T) {
	reg := testRegistry(t)
	cmd, _ := reg.Lookup("help")
	embed := commandEmbed(discord.NewEmbeds(nil), cmd, "!")

	values := map[string]string{}
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "utils", values["Categoría"])
	assert.Equal(t, "`!help (comando opcional)`", values["Sintaxis"])
	assert.Equal(t, "`ayuda`, `h`", values["Alias"])
}

func TestStatusText(t *testing.T) {
	text := statusText(botStatus{Database: "🟢 | Conectado", Guilds: 4})
	assert.Contains(t, text, "• Base de datos: 🟢 | Conectado")
	assert.Contains(t, text, "• Música: 🔴 No disponible")
	assert.Contains(t, text, "• Servidores: 4")
}

func TestPingText(t *testing.T) {
	assert.Equal(t, "🏓 Pong! Latencia: 42ms", pingText(42*time.Millisecond))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0 segundos", formatDuration(0))
	assert.Equal(t, "1 días, 2 horas, 5 segundos", formatDuration(26*time.Hour+5*time.Second))
}

func TestStatsEmbed(t *testing.T) {
	embed := statsEmbed(discord.NewEmbeds(nil), botStats{Version: "3.1.0", Guilds: 2, Members: 10, Commands: 7})
	require.Len(t, embed.Fields, 9)
	assert.Equal(t, "3.1.0", embed.Fields[0].Value)
	assert.Equal(t, "7", embed.Fields[8].Value)
}
