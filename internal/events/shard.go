package events

import (
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterShardEvents logs the gateway connection state
func RegisterShardEvents(client *discord.ExtendedClient) {
	discord.On(client.EventHandler, "Disconnect", func(s *discordgo.Session, _ *discordgo.Disconnect) {
		logger.Warn(fmt.Sprintf("🔌 Shard %d desconectado.", s.ShardID), "Shard")
	})
	discord.On(client.EventHandler, "Resumed", func(s *discordgo.Session, _ *discordgo.Resumed) {
		logger.Success(fmt.Sprintf("✅ Shard %d reanudado.", s.ShardID), "Shard")
	})
}
