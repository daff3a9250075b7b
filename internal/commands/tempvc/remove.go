package tempvc

import (
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Deja de usar un canal como generador",
		"tempvc",
		removeHandler,
	).WithOptions(generatorOption(true)).
		WithUserPermissions(discordgo.PermissionManageChannels)
}

func removeHandler(ctx *discord.CommandContext) error {
	channel := ctx.GetChannelOption("channel")
	if channel == nil {
		return ctx.ReplyError("Ese canal no existe.", "")
	}

	removed, err := ctx.Client.Services.TempVC.RemoveGenerator(ctx.Context, ctx.Interaction.GuildID, channel.ID)
	if err != nil {
		return fmt.Errorf("remove generator: %w", err)
	}
	if !removed {
		return ctx.ReplyError("Ese canal no es un generador.", "")
	}
	return ctx.ReplyEphemeralEmbed(ctx.Embeds.Success("Generador eliminado", fmt.Sprintf("<#%s> ya no crea canales temporales.", channel.ID)))
}
