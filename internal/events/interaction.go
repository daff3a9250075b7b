package events

import (
	"context"
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterInteractionEvents hands components and modals to the live
// collectors and everything else to the dispatcher
func RegisterInteractionEvents(ctx context.Context, client *discord.ExtendedClient) {
	discord.On(client.EventHandler, "InteractionCreate", func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionMessageComponent, discordgo.InteractionModalSubmit:
			if !client.Components.Dispatch(i) {
				logger.Debug(fmt.Sprintf("Componente sin collector: %s", discord.InteractionCustomID(i)), "Interaction")
			}
		default:
			client.Dispatcher.HandleInteraction(ctx, s, i)
		}
	})
}
