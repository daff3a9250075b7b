package tempvc

import (
	"errors"
	"testing"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTempVCCommands(t *testing.T) {
	b := discord.NewBuilder()
	RegisterTempVCCommands(b)
	reg, err := b.Build()
	require.NoError(t, err)

	for _, path := range []string{"tempvc.setup", "tempvc.limit", "tempvc.remove"} {
		cmd, ok := reg.LookupPath(path)
		require.True(t, ok, path)
		assert.True(t, cmd.GuildOnly, path)
	}
}

func TestNewGeneratorDefaults(t *testing.T) {
	gen := newGenerator("g1", "vc1", 0, "  ")
	assert.Equal(t, models.DefaultTempVCTemplate, gen.NameTemplate)
	assert.Equal(t, 0, gen.VCUserLimit)

	gen = newGenerator("g1", "vc1", 5, "Sala de {username}")
	assert.Equal(t, "Sala de {username}", gen.NameTemplate)
	assert.Equal(t, 5, gen.VCUserLimit)
}

func TestLimitResult(t *testing.T) {
	e := discord.NewEmbeds(nil)

	embed := limitResult(e, &models.TempVCGenerator{VCUserLimit: 3}, 8, nil)
	assert.Equal(t, "Generator settings successfully updated", embed.Title)
	assert.Equal(t, "limit: 3 -> 8", embed.Description)

	embed = limitResult(e, nil, 8, nil)
	assert.Equal(t, "limit: N/A -> 8", embed.Description)

	embed = limitResult(e, nil, 8, errors.New("boom"))
	assert.Equal(t, "Unexpected Error", embed.Title)
	assert.Equal(t, e.Color("error"), embed.Color)
}

func TestGeneratorMenu(t *testing.T) {
	gens := []*models.TempVCGenerator{
		{GeneratorID: "vc1", VCUserLimit: 2},
		{GeneratorID: "vc2"},
	}
	rows := generatorMenu("sel", gens, map[string]string{"vc1": "Crear sala"})
	menu := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)

	assert.Equal(t, "sel", menu.CustomID)
	require.Len(t, menu.Options, 2)
	assert.Equal(t, "Crear sala", menu.Options[0].Label)
	assert.Equal(t, "Límite actual: 2", menu.Options[0].Description)
	assert.Equal(t, "vc2", menu.Options[1].Label)
	assert.Equal(t, "Límite actual: Sin límite", menu.Options[1].Description)
}

func TestChannelNames(t *testing.T) {
	assert.Empty(t, channelNames(nil))
	names := channelNames(&discordgo.Guild{Channels: []*discordgo.Channel{{ID: "1", Name: "general"}}})
	assert.Equal(t, "general", names["1"])
}
