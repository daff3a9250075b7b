package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents dispatches prefixed text commands
func RegisterMessageEvents(ctx context.Context, client *discord.ExtendedClient) {
	discord.On(client.EventHandler, "MessageCreate", func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		if isBareMention(m.Content, s.State.User.ID) {
			replyMention(ctx, client, m)
			return
		}
		client.Dispatcher.HandleMessage(ctx, s, m)
	})
}

// isBareMention reports whether content only mentions the bot
func isBareMention(content, botID string) bool {
	content = strings.TrimSpace(content)
	return botID != "" && (content == "<@"+botID+">" || content == "<@!"+botID+">")
}

func mentionEmbed(e *discord.Embeds, prefix string) *discordgo.MessageEmbed {
	return e.Main("👋 ¡Hola!", fmt.Sprintf(
		"Mi prefijo en este servidor es `%s`.\nEscribe `%shelp` o `/utils help` para ver todos los comandos.",
		prefix, prefix,
	))
}

func replyMention(ctx context.Context, client *discord.ExtendedClient, m *discordgo.MessageCreate) {
	prefix := client.Prefixes.Resolve(ctx, m.GuildID)
	if _, err := client.Session.ChannelMessageSendEmbedReply(m.ChannelID, mentionEmbed(client.Embeds, prefix), m.Reference()); err != nil {
		logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "Message")
	}
}
