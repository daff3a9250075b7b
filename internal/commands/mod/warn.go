package mod

import (
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		category,
		warnHandler,
	).WithOptions(
		userOption("usuario", "Usuario a advertir", true),
		reasonOption("Razón de la advertencia", true),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithTarget("usuario")
}

func warnHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyError("Debes especificar un usuario.", "")
	}
	if user.Bot {
		return ctx.ReplyError("No puedes advertir a un bot.", "")
	}
	reason := ctx.GetStringOption("razon")
	if reason == "" {
		return ctx.ReplyError("Debes especificar una razón.", "")
	}

	warnings := ctx.Client.Services.Warnings
	w, err := warnings.Add(ctx.Context, ctx.Interaction.GuildID, user.ID, ctx.User().ID, reason)
	if err != nil {
		return fmt.Errorf("add warning: %w", err)
	}

	total, err := warnings.Count(ctx.Context, ctx.Interaction.GuildID, user.ID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo contar las advertencias de %s: %v", user.ID, err), "CMD-Warn")
	}

	embed := ctx.Embeds.Success(
		"✅ Advertencia registrada",
		fmt.Sprintf("**%s** ha sido advertido.\n\n> **Razón:** %s\n> **Moderador:** %s\n> **ID:** `%s`",
			user.String(), reason, ctx.User().Mention(), w.ID.Hex()),
	)
	if total > 0 {
		embed.Description += fmt.Sprintf("\n> 💫 **Cantidad de advertencias:** %d", total)
	}
	return ctx.ReplyEmbed(embed)
}
