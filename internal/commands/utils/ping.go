package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
)

// createPingCommand creates the /utils ping subcommand
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Comprueba la latencia del bot",
		"utils",
		pingHandler,
	).WithExec(pingTextHandler)
}

func pingText(latency time.Duration) string {
	return fmt.Sprintf("🏓 Pong! Latencia: %dms", latency.Milliseconds())
}

func pingHandler(ctx *discord.CommandContext) error {
	return ctx.Reply(pingText(ctx.Client.Latency()))
}

func pingTextHandler(ctx *discord.MessageContext) error {
	return ctx.Reply(pingText(ctx.Client.Latency()))
}
