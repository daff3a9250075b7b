package mod

import (
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

// createKickCommand creates the /mod kick subcommand, also reachable as
// "<prefix>kick <@miembro> (razón opcional)"
func createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a un miembro del servidor",
		category,
		kickHandler,
	).WithExec(kickTextHandler).
		WithUsage("kick <@miembro> (razón opcional)").
		WithOptions(
			userOption("usuario", "Miembro a expulsar", true),
			reasonOption("Razón de la expulsión", false),
		).WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers).
		WithTarget("usuario")
}

// kickedEmbed announces a kick
func kickedEmbed(e *discord.Embeds, user *discordgo.User, reason string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("%s fue expulsad@ del servidor.", user.String()),
			IconURL: user.AvatarURL(""),
		},
		Description: "****Razón:**** " + reason,
		Color:       e.Color("main"),
	}
}

func kickHandler(ctx *discord.CommandContext) error {
	member := ctx.GetMemberOption("usuario")
	if member == nil || member.User == nil {
		return ctx.ReplyError("Ese miembro no existe.", "")
	}
	reason := reasonOr(ctx.GetStringOption("razon"))

	if err := ctx.Session.GuildMemberDeleteWithReason(ctx.Interaction.GuildID, member.User.ID, reason); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo expulsar a %s: %v", member.User.ID, err), "CMD-Kick")
		return ctx.ReplyError(discord.DenyBotHierarchy.Message(), "")
	}
	return ctx.ReplyEmbed(kickedEmbed(ctx.Embeds, member.User, reason))
}

func kickTextHandler(ctx *discord.MessageContext) error {
	if len(ctx.Args) == 0 {
		return ctx.ReplyError(
			"Debes de mencionar al miembro.",
			fmt.Sprintf("Intenta ingresando `%skick <@miembro> (razón opcional)`", ctx.Prefix),
		)
	}

	userID := utils.ParseMention(ctx.Args[0])
	if userID == "" {
		return ctx.ReplyError("Ese miembro no existe.", "")
	}
	member, err := ctx.Platform().Member(ctx.GuildID(), userID)
	if err != nil || member == nil || member.User == nil {
		return ctx.ReplyError("Ese miembro no existe.", "")
	}
	reason := reasonOr(ctx.Rest(1))

	if err := ctx.Delete(); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo borrar el mensaje de kick: %v", err), "CMD-Kick")
	}

	if err := ctx.Session.GuildMemberDeleteWithReason(ctx.GuildID(), member.User.ID, reason); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo expulsar a %s: %v", member.User.ID, err), "CMD-Kick")
		return ctx.SendError(discord.DenyBotHierarchy.Message(), "")
	}
	return ctx.SendEmbed(kickedEmbed(ctx.Embeds, member.User, reason))
}
