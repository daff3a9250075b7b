package music

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/MaBotGo/pkg/lavalink"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

// queuePreview is how many queued tracks the queue command lists
const queuePreview = 10

func runPlay(r *request) error {
	if ok, err := r.guard(needVoice); !ok {
		return err
	}
	query := strings.TrimSpace(r.args)
	if query == "" {
		return r.out.Reply(fmt.Sprintf("❌ Debes proporcionar una canción para reproducir.\n`Intenta: %splay <canción o url>`", r.prefix))
	}

	if d, ok := r.out.(deferrer); ok {
		if err := d.Defer(); err != nil {
			return err
		}
	}

	tracks, err := r.music.Search(r.ctx, query)
	if errors.Is(err, lavalink.ErrNodeUnavailable) {
		return r.out.Reply(msgUnavailable)
	}
	if err != nil {
		logger.Warn(fmt.Sprintf("Error buscando %q: %v", query, err), "CMD-Play")
		return r.out.Reply(fmt.Sprintf("❌ Error buscando: %v", err))
	}
	if len(tracks) == 0 {
		return r.out.Reply("❌ No se encontraron resultados.")
	}
	// a URL may resolve to a playlist; a search only plays its best match
	if !utils.IsValidURL(query) {
		tracks = tracks[:1]
	}

	voice := r.platform.VoiceChannel(r.guildID, r.userID)
	started, err := r.music.Play(r.ctx, r.guildID, voice, r.channelID, tracks...)
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	title := "🎵 Añadido a la cola"
	if started {
		title = "🎵 Reproduciendo ahora"
	}
	embed := trackEmbed(title, tracks[0], r.embeds.Color("main"))
	if len(tracks) > 1 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("+%d canciones de la lista", len(tracks)-1)}
	}
	return r.out.ReplyEmbed(embed)
}

func runPause(r *request) error {
	if ok, err := r.guard(needQueue); !ok {
		return err
	}
	if p, _ := r.music.Player(r.guildID); p.Paused {
		return r.out.Reply("⏸️ La reproducción ya está en pausa.")
	}
	if err := r.music.Pause(r.ctx, r.guildID); err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	return r.out.Reply("⏸️ Reproducción pausada.")
}

func runResume(r *request) error {
	if ok, err := r.guard(needQueue); !ok {
		return err
	}
	if err := r.music.Resume(r.ctx, r.guildID); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	return r.out.Reply("▶️ Reproducción reanudada.")
}

func runSkip(r *request) error {
	if ok, err := r.guard(needQueue); !ok {
		return err
	}
	next, err := r.music.Skip(r.ctx, r.guildID)
	if err != nil {
		return fmt.Errorf("skip: %w", err)
	}
	if next == nil {
		return r.out.Reply("⏹️ No hay más canciones en la cola.")
	}
	return r.out.Reply(fmt.Sprintf("⏭️ Saltando a **%s**", next.Info.Title))
}

func runStop(r *request) error {
	if ok, err := r.guard(needPlayer); !ok {
		return err
	}
	if err := r.music.Stop(r.ctx, r.guildID); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	if err := r.music.Destroy(r.ctx, r.guildID); err != nil && !errors.Is(err, lavalink.ErrNoPlayer) {
		logger.Warn(fmt.Sprintf("Error destruyendo el reproductor de %s: %v", r.guildID, err), "CMD-Stop")
	}
	return r.out.Reply("⏹️ Reproducción detenida y cola limpiada.")
}

func runQueue(r *request) error {
	if r.music == nil {
		return r.out.Reply(msgUnavailable)
	}
	p, ok := r.music.Player(r.guildID)
	if !ok || (p.Current == nil && len(p.Queue) == 0) {
		return r.out.Reply("📭 La cola está vacía.")
	}
	return r.out.ReplyEmbed(&discordgo.MessageEmbed{
		Title:       "📋 Cola de reproducción",
		Description: queueDescription(p),
		Color:       r.embeds.Color("main"),
	})
}

func runVolume(r *request) error {
	if ok, err := r.guard(needPlayer); !ok {
		return err
	}
	if r.volume < 0 || r.volume > 100 {
		return r.out.Reply(fmt.Sprintf("❌ El volumen debe estar entre 0 y 100.\n`Intenta: %svolume <0-100>`", r.prefix))
	}
	level, err := r.music.SetVolume(r.ctx, r.guildID, int(r.volume))
	if err != nil {
		return fmt.Errorf("volume: %w", err)
	}
	return r.out.Reply(fmt.Sprintf("🔊 Volumen ajustado a %d%%", level))
}

func runNowPlaying(r *request) error {
	if r.music == nil {
		return r.out.Reply(msgUnavailable)
	}
	p, ok := r.music.Player(r.guildID)
	if !ok || p.Current == nil {
		return r.out.Reply("🔇 No hay nada reproduciéndose.")
	}

	embed := trackEmbed("🎵 Reproduciendo ahora", p.Current, r.embeds.Color("main"))
	embed.Fields[1] = &discordgo.MessageEmbedField{
		Name:   "Progreso",
		Value:  fmt.Sprintf("%s / %s", formatLength(p.Position), formatLength(p.Current.Info.Length)),
		Inline: true,
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Volumen",
		Value:  fmt.Sprintf("%d%%", p.Volume),
		Inline: true,
	})
	return r.out.ReplyEmbed(embed)
}

func trackEmbed(title string, t *lavalink.Track, color int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("[%s](%s)", t.Info.Title, t.Info.URI),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Artista", Value: t.Info.Author, Inline: true},
			{Name: "Duración", Value: formatLength(t.Info.Length), Inline: true},
		},
	}
	if t.Info.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.Info.ArtworkURL}
	}
	if t.Info.IsStream {
		embed.Fields[1].Value = "🔴 En vivo"
	}
	return embed
}

func queueDescription(p lavalink.Player) string {
	var sb strings.Builder
	if p.Current != nil {
		state := "🎵 **Reproduciendo:**"
		if p.Paused {
			state = "⏸️ **En pausa:**"
		}
		fmt.Fprintf(&sb, "%s [%s](%s) - %s\n\n", state, p.Current.Info.Title, p.Current.Info.URI, formatLength(p.Current.Info.Length))
	}
	if len(p.Queue) > 0 {
		sb.WriteString("**Siguiente:**\n")
		for i, t := range p.Queue {
			if i >= queuePreview {
				fmt.Fprintf(&sb, "\n... y %d más", len(p.Queue)-queuePreview)
				break
			}
			fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, t.Info.Title, formatLength(t.Info.Length))
		}
	}
	return sb.String()
}

// formatLength formats milliseconds as m:ss, or h:mm:ss past an hour
func formatLength(ms int64) string {
	total := ms / 1000
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func parseVolume(raw string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimSpace(raw), "%"), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
