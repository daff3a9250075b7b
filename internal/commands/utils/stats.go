package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/config"
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the /utils stats subcommand
func createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Muestra estadísticas del bot",
		"utils",
		statsHandler,
	).WithExec(statsTextHandler)
}

type botStats struct {
	Version    string
	Uptime     time.Duration
	Guilds     int
	Members    int
	Commands   int
	Alloc      uint64
	Goroutines int
	CPUs       int
	AvatarURL  string
}

func collectStats(c *discord.ExtendedClient) botStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s := botStats{
		Version:    config.Version,
		Uptime:     c.Uptime(),
		Guilds:     c.GuildCount(),
		Members:    c.MemberCount(),
		Alloc:      m.Alloc,
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
	}
	if c.Registry != nil {
		s.Commands = c.Registry.Size()
	}
	if c.Session != nil && c.Session.State != nil && c.Session.State.User != nil {
		s.AvatarURL = c.Session.State.User.AvatarURL("")
	}
	return s
}

func statsEmbed(e *discord.Embeds, s botStats) *discordgo.MessageEmbed {
	field := func(name, value string) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
	}
	return &discordgo.MessageEmbed{
		Title: "📊 Estadísticas del Bot",
		Color: e.Color("main"),
		Fields: []*discordgo.MessageEmbedField{
			field("🤖 Versión del Bot", s.Version),
			field("🐹 Versión de Go", strings.TrimPrefix(runtime.Version(), "go")),
			field("📚 Versión de DiscordGo", discordgo.VERSION),
			field("🖥 Uso de RAM", fmt.Sprintf("%.2f MB", float64(s.Alloc)/1024/1024)),
			field("⚙️ Uso de CPU", fmt.Sprintf("%d Goroutines / %d CPUs", s.Goroutines, s.CPUs)),
			field("⏱ Uptime", formatDuration(s.Uptime)),
			field("🏠 Guilds", fmt.Sprint(s.Guilds)),
			field("👥 Miembros", fmt.Sprint(s.Members)),
			field("🧩 Comandos", fmt.Sprint(s.Commands)),
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text:    "💫 - Developed by PancyStudios",
			IconURL: s.AvatarURL,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func statsHandler(ctx *discord.CommandContext) error {
	return ctx.ReplyEmbed(statsEmbed(ctx.Embeds, collectStats(ctx.Client)))
}

func statsTextHandler(ctx *discord.MessageContext) error {
	return ctx.ReplyEmbed(statsEmbed(ctx.Embeds, collectStats(ctx.Client)))
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}
