// Package music provides the playback commands. Every command answers both
// slash interactions and prefixed text messages.
package music

import (
	"context"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/lavalink"
	"github.com/bwmarrin/discordgo"
)

const category = "music"

var minVolume = 0.0

// RegisterMusicCommands adds the music commands to the builder
func RegisterMusicCommands(b *discord.Builder) {
	b.Add(
		musicCommand("play", "Reproduce una canción o la añade a la cola", "play <canción o url>", runPlay).
			WithOptions(&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "Nombre de la canción o URL",
				Required:    true,
			}).WithAliases("p"),
		musicCommand("pause", "Pausa la reproducción", "pause", runPause),
		musicCommand("resume", "Reanuda la reproducción", "resume", runResume),
		musicCommand("skip", "Salta a la siguiente canción", "skip", runSkip).WithAliases("s"),
		musicCommand("stop", "Detiene la reproducción y limpia la cola", "stop", runStop),
		musicCommand("queue", "Muestra la cola de reproducción", "queue", runQueue).WithAliases("q"),
		musicCommand("volume", "Ajusta el volumen de reproducción", "volume <0-100>", runVolume).
			WithOptions(&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "level",
				Description: "Nivel de volumen (0-100)",
				Required:    true,
				MinValue:    &minVolume,
				MaxValue:    100,
			}).WithAliases("vol"),
		musicCommand("nowplaying", "Muestra la canción que se está reproduciendo", "nowplaying", runNowPlaying).
			WithAliases("np"),
	)
}

// replier is implemented by both command contexts
type replier interface {
	Reply(content string) error
	ReplyEmbed(embed *discordgo.MessageEmbed) error
}

// request is a music invocation independent of how it arrived
type request struct {
	ctx       context.Context
	guildID   string
	userID    string
	channelID string
	// prefix is used in usage hints: the guild prefix, or "/" for slash
	prefix   string
	args     string
	volume   int64
	music    *lavalink.Manager
	platform discord.Platform
	embeds   *discord.Embeds
	out      replier
}

type runFunc func(r *request) error

func musicCommand(name, description, usage string, run runFunc) *discord.Command {
	return discord.NewCommand(name, description, category, func(ctx *discord.CommandContext) error {
		return run(slashRequest(ctx))
	}).WithExec(func(ctx *discord.MessageContext) error {
		return run(textRequest(ctx))
	}).WithUsage(usage).InGuild()
}

func slashRequest(ctx *discord.CommandContext) *request {
	volume, _ := ctx.GetIntOption("level")
	return &request{
		ctx:       ctx.Context,
		guildID:   ctx.Interaction.GuildID,
		userID:    ctx.User().ID,
		channelID: ctx.Interaction.ChannelID,
		prefix:    "/",
		args:      ctx.GetStringOption("query"),
		volume:    volume,
		music:     ctx.Client.Music,
		platform:  ctx.Platform(),
		embeds:    ctx.Embeds,
		out:       &slashReplier{ctx: ctx},
	}
}

func textRequest(ctx *discord.MessageContext) *request {
	r := &request{
		ctx:       ctx.Context,
		guildID:   ctx.GuildID(),
		userID:    ctx.Author().ID,
		channelID: ctx.Message.ChannelID,
		prefix:    ctx.Prefix,
		args:      ctx.Rest(0),
		volume:    -1,
		music:     ctx.Client.Music,
		platform:  ctx.Platform(),
		embeds:    ctx.Embeds,
		out:       ctx,
	}
	if v, ok := parseVolume(ctx.Rest(0)); ok {
		r.volume = v
	}
	return r
}

// slashReplier edits the deferred response once the command deferred
type slashReplier struct {
	ctx *discord.CommandContext
}

func (s *slashReplier) Reply(content string) error {
	if s.ctx.Responded() {
		return s.ctx.EditReply(content)
	}
	return s.ctx.Reply(content)
}

func (s *slashReplier) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	if s.ctx.Responded() {
		return s.ctx.EditReplyEmbed(embed)
	}
	return s.ctx.ReplyEmbed(embed)
}

// deferrer is implemented by replies that can acknowledge before a slow call
type deferrer interface {
	Defer() error
}

func (s *slashReplier) Defer() error {
	return s.ctx.Defer()
}
