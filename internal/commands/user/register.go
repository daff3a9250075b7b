// Package user provides the /user commands.
package user

import (
	"github.com/PancyStudios/MaBotGo/pkg/discord"
)

// RegisterUserCommands adds the /user group to the builder
func RegisterUserCommands(b *discord.Builder) {
	b.AddGroup(discord.Group{
		Name:        "user",
		Description: "Información de usuarios y roles",
		GuildOnly:   true,
		Commands: []*discord.Command{
			createAvatarCommand(),
			createRoleCommand(),
		},
	})
}
