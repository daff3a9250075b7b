package mod

import (
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const unmuteNotice = "Lo siento, pero este comando aún está en desarrollo."

func createUnmuteCommand() *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Quita el silencio a un miembro",
		category,
		func(ctx *discord.CommandContext) error { return ctx.Reply(unmuteNotice) },
	).WithExec(func(ctx *discord.MessageContext) error {
		return ctx.Reply(unmuteNotice)
	}).WithBotPermissions(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages)
}
