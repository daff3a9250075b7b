// Package utils holds the informational commands of the bot.
package utils

import (
	"github.com/PancyStudios/MaBotGo/pkg/discord"
)

// RegisterUtilsCommands adds the /utils group; every subcommand also
// answers as a text command
func RegisterUtilsCommands(b *discord.Builder) {
	b.AddGroup(discord.Group{
		Name:        "utils",
		Description: "Comandos de utilidad",
		Commands: []*discord.Command{
			createPingCommand(),
			createStatusCommand(),
			createHelpCommand(),
			createStatsCommand(),
		},
	})
}
