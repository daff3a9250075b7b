// Package settings provides the per-guild configuration commands.
package settings

import (
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// RegisterSettingsCommands adds the /settings group to the builder
func RegisterSettingsCommands(b *discord.Builder) {
	b.AddGroup(discord.Group{
		Name:            "settings",
		Description:     "Configuración del servidor",
		GuildOnly:       true,
		UserPermissions: discordgo.PermissionManageGuild,
		Commands: []*discord.Command{
			createPrefixCommand(),
		},
		SubGroups: []discord.SubGroup{{
			Name:        "welcome",
			Description: "Mensaje de bienvenida",
			Commands: []*discord.Command{
				createWelcomeMessageCommand(),
				createWelcomeChannelCommand(),
			},
		}},
	})
}
