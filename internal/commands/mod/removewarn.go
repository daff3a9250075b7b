package mod

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/database"
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

// createRemoveWarnCommand creates the /mod removewarn subcommand
func createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Elimina una advertencia específica de un usuario",
		category,
		removeWarnHandler,
	).WithOptions(
		userOption("usuario", "Usuario del cual eliminar la advertencia", true),
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la advertencia a eliminar",
			Required:     true,
			Autocomplete: true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithAutoComplete(removeWarnAutoComplete)
}

func removeWarnHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	warnID := ctx.GetStringOption("id")
	if user == nil || warnID == "" {
		return ctx.ReplyError("Debes especificar un usuario y el ID de la advertencia.", "")
	}

	removed, err := ctx.Client.Services.Warnings.Remove(ctx.Context, ctx.Interaction.GuildID, warnID)
	if errors.Is(err, database.ErrInvalidWarningID) || (err == nil && !removed) {
		return ctx.ReplyError("No se encontró una advertencia con ese ID.", "")
	}
	if err != nil {
		return fmt.Errorf("remove warning: %w", err)
	}

	embed := ctx.Embeds.Success(
		"✅ Advertencia eliminada con éxito",
		fmt.Sprintf("La advertencia `%s` de **%s** ha sido eliminada.", warnID, user.String()),
	)
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text:    "Eliminado por " + ctx.User().String(),
		IconURL: ctx.User().AvatarURL(""),
	}
	return ctx.ReplyEmbed(embed)
}

// removeWarnAutoComplete suggests the newest warnings of the selected user
func removeWarnAutoComplete(ctx *discord.CommandContext) {
	choices := []*discordgo.ApplicationCommandOptionChoice{}

	if opt := ctx.GetOption("usuario"); opt != nil {
		userID, _ := opt.Value.(string)
		page, err := ctx.Client.Services.Warnings.List(ctx.Context, ctx.Interaction.GuildID, userID, "", 25)
		if err != nil {
			logger.Warn(fmt.Sprintf("Autocompletado de advertencias falló: %v", err), "CMD-RemoveWarn")
		}
		for _, w := range page.Warnings {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  utils.Truncate(w.ID+" - "+w.Reason, 100),
				Value: w.ID,
			})
		}
	}

	if err := ctx.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	}); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo responder al autocompletado: %v", err), "CMD-RemoveWarn")
	}
}
