// Package mod provides moderation commands organized as subcommands under /mod.
// kick and unmute also answer prefixed text messages.
package mod

import (
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const (
	defaultReason = "No especificada"
	category      = "mod"
)

// RegisterModCommands adds the /mod group to the builder
func RegisterModCommands(b *discord.Builder) {
	b.AddGroup(discord.Group{
		Name:        "mod",
		Description: "Comandos de moderación",
		GuildOnly:   true,
		Commands: []*discord.Command{
			createBanCommand(),
			createKickCommand(),
			createMuteCommand(),
			createUnmuteCommand(),
			createWarnCommand(),
			createWarningsCommand(),
			createRemoveWarnCommand(),
		},
	})
}

func userOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func reasonOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "razon",
		Description: description,
		Required:    required,
		MaxLength:   512,
	}
}

func reasonOr(reason string) string {
	if reason == "" {
		return defaultReason
	}
	return reason
}

func minValue(v float64) *float64 {
	return &v
}
