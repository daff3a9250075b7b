package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

// maxTimeout is the longest timeout Discord accepts
const maxTimeout = 28 * 24 * time.Hour

// createMuteCommand creates the /mod mute subcommand
func createMuteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Silencia a un miembro temporalmente",
		category,
		muteHandler,
	).WithOptions(
		userOption("usuario", "Miembro a silenciar", true),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración, por ejemplo 1d 3h 5m",
			Required:    true,
		},
		reasonOption("Razón del silencio", false),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		WithTarget("usuario")
}

// muteDuration parses and bounds a timeout duration
func muteDuration(raw string) (time.Duration, bool) {
	d, ok := utils.ParseDuration(raw)
	if !ok || d < time.Minute || d > maxTimeout {
		return 0, false
	}
	return d, true
}

func muteHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyError("Debes especificar un usuario.", "")
	}
	d, ok := muteDuration(ctx.GetStringOption("duracion"))
	if !ok {
		return ctx.ReplyError("Duración inválida.", "Usa un valor entre `1m` y `28d`, por ejemplo `1d 3h 5m`.")
	}
	reason := reasonOr(ctx.GetStringOption("razon"))

	until := time.Now().Add(d)
	if err := ctx.Session.GuildMemberTimeout(ctx.Interaction.GuildID, user.ID, &until, discordgo.WithAuditLogReason(reason)); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo silenciar a %s: %v", user.ID, err), "CMD-Mute")
		return ctx.ReplyError(discord.DenyBotHierarchy.Message(), "")
	}

	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("%s fue silenciad@.", user.String()),
			IconURL: user.AvatarURL(""),
		},
		Description: fmt.Sprintf("****Razón:**** %s\n****Duración:**** %s (%s)", reason, utils.ConvertTime(d), utils.DiscordTimestamp(until, "R")),
		Color:       ctx.Embeds.Color("main"),
	})
}
