package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// joinWindow separates a fresh join from the GuildCreate burst sent on connect
const joinWindow = 10 * time.Second

// RegisterGuildEvents keeps the guild settings in step with the guilds the
// bot belongs to
func RegisterGuildEvents(client *discord.ExtendedClient) {
	discord.On(client.EventHandler, "GuildCreate", func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if !joinedRecently(g.JoinedAt, time.Now()) {
			return
		}
		logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := client.Services.Guilds.Ensure(ctx, g.ID); err != nil {
			logger.Error(fmt.Sprintf("Error creando la configuración de %s: %v", g.ID, err), "Guild")
		}

		if g.SystemChannelID == "" {
			return
		}
		if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, joinEmbed(client.Embeds, client.Prefixes.Global())); err != nil {
			logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
		}
	})

	discord.On(client.EventHandler, "GuildDelete", func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		// an outage also sends GuildDelete, flagged as unavailable
		if g.Unavailable {
			return
		}
		logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Services.Guilds.Delete(ctx, g.ID); err != nil {
			logger.Error(fmt.Sprintf("Error borrando la configuración de %s: %v", g.ID, err), "Guild")
		}
		if _, err := client.Services.Warnings.DeleteGuild(ctx, g.ID); err != nil {
			logger.Warn(fmt.Sprintf("Error borrando las advertencias de %s: %v", g.ID, err), "Guild")
		}
		client.Prefixes.Invalidate(g.ID)
	})
}

func joinedRecently(joinedAt, now time.Time) bool {
	return !joinedAt.IsZero() && now.Sub(joinedAt) < joinWindow
}

func joinEmbed(e *discord.Embeds, prefix string) *discordgo.MessageEmbed {
	embed := e.Success("¡Gracias por agregarme! 🎉", fmt.Sprintf("Hola, soy **MaBot**. Usa `%shelp` o `/utils help` para ver todos mis comandos.", prefix))
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "🎵 Música", Value: fmt.Sprintf("Reproduce música con `%splay`", prefix), Inline: true},
		{Name: "🔧 Moderación", Value: "Usa `/mod` para moderar", Inline: true},
		{Name: "⚙️ Configuración", Value: "Usa `/settings` para el prefijo y la bienvenida", Inline: true},
	}
	return embed
}
