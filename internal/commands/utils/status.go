package utils

import (
	"context"
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		statusHandler,
	).WithExec(statusTextHandler)
}

type botStatus struct {
	Database string
	Guilds   int
	Music    bool
}

func statusText(s botStatus) string {
	music := "🔴 No disponible"
	if s.Music {
		music = "🟢 Disponible"
	}
	return fmt.Sprintf(
		"📊 **Estado del Bot**\n"+
			"• Bot: 🟢 Online\n"+
			"• Base de datos: %s\n"+
			"• Música: %s\n"+
			"• Servidores: %d",
		s.Database, music, s.Guilds,
	)
}

func currentStatus(ctx context.Context, c *discord.ExtendedClient) botStatus {
	db, _ := c.DatabaseStatus(ctx)
	return botStatus{
		Database: db,
		Guilds:   c.GuildCount(),
		Music:    c.Music != nil,
	}
}

func statusHandler(ctx *discord.CommandContext) error {
	return ctx.Reply(statusText(currentStatus(ctx.Context, ctx.Client)))
}

func statusTextHandler(ctx *discord.MessageContext) error {
	return ctx.Reply(statusText(currentStatus(ctx.Context, ctx.Client)))
}
