// Package events wires the gateway events into the bot.
// Events are organized by category (guild, member, message, voice, etc.)
package events

import (
	"context"
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client. ctx bounds the
// command handlers and is cancelled on shutdown.
func RegisterAll(ctx context.Context, client *discord.ExtendedClient) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	RegisterReadyEvent(client)
	RegisterMessageEvents(ctx, client)
	RegisterInteractionEvents(ctx, client)
	RegisterGuildEvents(client)
	RegisterMemberEvents(client)
	RegisterVoiceEvents(client)
	RegisterShardEvents(client)

	logger.Success(fmt.Sprintf("✅ %d eventos registrados correctamente", len(client.EventHandler.Registered())), "Events")
}
