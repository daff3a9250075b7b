package mod

import (
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createBanCommand creates the /mod ban subcommand
func createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a un usuario del servidor",
		category,
		banHandler,
	).WithOptions(
		userOption("usuario", "Usuario a banear", true),
		reasonOption("Razón del ban", false),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Días de mensajes a eliminar (0-7)",
			MinValue:    minValue(0),
			MaxValue:    7,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		WithTarget("usuario")
}

func banHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyError("Debes especificar un usuario.", "")
	}
	reason := reasonOr(ctx.GetStringOption("razon"))
	days, _ := ctx.GetIntOption("dias")

	if err := ctx.Session.GuildBanCreateWithReason(ctx.Interaction.GuildID, user.ID, reason, int(days)); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo banear a %s: %v", user.ID, err), "CMD-Ban")
		return ctx.ReplyError(discord.DenyBotHierarchy.Message(), "")
	}

	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("%s fue banead@ del servidor.", user.String()),
			IconURL: user.AvatarURL(""),
		},
		Description: "****Razón:**** " + reason,
		Color:       ctx.Embeds.Color("main"),
	})
}
