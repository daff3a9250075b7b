// Package tempvc manages the voice channels that generate temporary channels.
package tempvc

import (
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const maxUserLimit = 99

// RegisterTempVCCommands adds the /tempvc group to the builder
func RegisterTempVCCommands(b *discord.Builder) {
	b.AddGroup(discord.Group{
		Name:            "tempvc",
		Description:     "Canales de voz temporales",
		GuildOnly:       true,
		UserPermissions: discordgo.PermissionManageChannels,
		Commands: []*discord.Command{
			createSetupCommand(),
			createLimitCommand(),
			createRemoveCommand(),
		},
	})
}

func limitOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	floor := 0.0
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
		MinValue:    &floor,
		MaxValue:    maxUserLimit,
	}
}

func generatorOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "channel",
		Description:  "Canal de voz generador",
		Required:     required,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice},
	}
}
