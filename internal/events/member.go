package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/models"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

// RegisterMemberEvents sends the configured welcome message
func RegisterMemberEvents(client *discord.ExtendedClient) {
	discord.On(client.EventHandler, "GuildMemberAdd", func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m.User == nil || m.User.Bot {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		settings, err := client.Services.Guilds.Get(ctx, m.GuildID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error leyendo la configuración de %s: %v", m.GuildID, err), "Member")
			return
		}
		if !settings.HasWelcome() {
			return
		}

		vars := utils.WelcomeVars{Username: m.User.Username, UserID: m.User.ID}
		if guild, err := s.State.Guild(m.GuildID); err == nil {
			vars.Server = guild.Name
			vars.Members = guild.MemberCount
		}

		if _, err := s.ChannelMessageSendComplex(settings.Welcome.ChannelID, welcomeMessage(settings.Welcome, vars)); err != nil {
			logger.Warn(fmt.Sprintf("Error enviando la bienvenida en %s: %v", m.GuildID, err), "Member")
		}
	})
}

// welcomeMessage expands the stored template for a new member
func welcomeMessage(w models.WelcomeSettings, vars utils.WelcomeVars) *discordgo.MessageSend {
	msg := &discordgo.MessageSend{
		Content: utils.Truncate(utils.ExpandWelcome(w.WelcomeMessage, vars), 2000),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{vars.UserID},
		},
	}
	if w.WelcomeImage != "" {
		msg.Embeds = []*discordgo.MessageEmbed{{Image: &discordgo.MessageEmbedImage{URL: w.WelcomeImage}}}
	}
	return msg
}
