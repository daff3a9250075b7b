package user

import (
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

func createRoleCommand() *discord.Command {
	return discord.NewCommand(
		"role",
		"Muestra información de un rol",
		"user",
		roleHandler,
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "role",
		Description: "Rol a consultar",
		Required:    true,
	})
}

// membersWithRole counts the cached members holding roleID
func membersWithRole(members []*discordgo.Member, roleID string) int {
	n := 0
	for _, m := range members {
		for _, r := range m.Roles {
			if r == roleID {
				n++
				break
			}
		}
	}
	return n
}

func roleHandler(ctx *discord.CommandContext) error {
	role := ctx.GetRoleOption("role")
	if role == nil {
		return ctx.ReplyError("Ese rol no existe.", "")
	}

	guild := ctx.Guild()
	members := 0
	if guild != nil {
		members = membersWithRole(guild.Members, role.ID)
	}
	return ctx.ReplyEmbed(utils.RoleInfoEmbed(guild, role, members))
}
