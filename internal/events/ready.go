package events

import (
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterReadyEvent sets the presence once the session is ready
func RegisterReadyEvent(client *discord.ExtendedClient) {
	presence := client.Prefixes.Global() + "help"
	discord.On(client.EventHandler, "Ready", func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info(fmt.Sprintf("📊 Conectado a %d servidores", len(r.Guilds)), "Ready")

		if err := s.UpdateListeningStatus(presence); err != nil {
			logger.Error(fmt.Sprintf("Error estableciendo estado: %v", err), "Ready")
			return
		}
		logger.Debug("Estado del bot establecido correctamente", "Ready")
	})
}
