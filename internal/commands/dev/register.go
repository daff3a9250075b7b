// Package dev holds commands reserved to the bot developers.
package dev

import (
	"github.com/PancyStudios/MaBotGo/pkg/discord"
)

// RegisterDevCommands adds the /dev group; it is published in the dev
// guild only
func RegisterDevCommands(b *discord.Builder) {
	b.AddGroup(discord.Group{
		Name:        "dev",
		Description: "Comandos de desarrollo",
		Dev:         true,
		Commands: []*discord.Command{
			createEvalCommand(),
		},
	})
}
