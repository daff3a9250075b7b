package tempvc

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func createSetupCommand() *discord.Command {
	return discord.NewCommand(
		"setup",
		"Convierte un canal de voz en generador de canales temporales",
		"tempvc",
		setupHandler,
	).WithOptions(
		generatorOption(true),
		limitOption("limit", "Máximo de usuarios por canal (0 sin límite)", false),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "Nombre de los canales, admite {username}",
			MaxLength:   100,
		},
	).WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels | discordgo.PermissionVoiceMoveMembers)
}

// newGenerator applies the defaults of a generator
func newGenerator(guildID, channelID string, limit int64, template string) models.TempVCGenerator {
	template = strings.TrimSpace(template)
	if template == "" {
		template = models.DefaultTempVCTemplate
	}
	return models.TempVCGenerator{
		GuildID:      guildID,
		GeneratorID:  channelID,
		VCUserLimit:  int(limit),
		NameTemplate: template,
	}
}

func setupHandler(ctx *discord.CommandContext) error {
	channel := ctx.GetChannelOption("channel")
	if channel == nil {
		return ctx.ReplyError("Ese canal no existe.", "")
	}
	limit, _ := ctx.GetIntOption("limit")

	gen := newGenerator(ctx.Interaction.GuildID, channel.ID, limit, ctx.GetStringOption("name"))
	if _, err := ctx.Client.Services.TempVC.SaveGenerator(ctx.Context, gen); err != nil {
		return fmt.Errorf("save generator: %w", err)
	}

	return ctx.ReplyEphemeralEmbed(ctx.Embeds.Success(
		"Generador configurado",
		fmt.Sprintf("Entra a <#%s> para crear un canal temporal.\n> **Límite:** %s\n> **Nombre:** `%s`",
			channel.ID, limitText(gen.VCUserLimit), gen.NameTemplate),
	))
}

func limitText(limit int) string {
	if limit == 0 {
		return "Sin límite"
	}
	return fmt.Sprint(limit)
}
