package music

import (
	"context"
	"sync"
	"testing"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/lavalink"
	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	mu      sync.Mutex
	result  *lavalink.LoadResult
	updates int
}

func (f *fakeNode) Ready() bool { return true }

func (f *fakeNode) LoadTracks(context.Context, string) (*lavalink.LoadResult, error) {
	return f.result, nil
}

func (f *fakeNode) UpdatePlayer(context.Context, string, lavalink.PlayerUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	return nil
}

func (f *fakeNode) DestroyPlayer(context.Context, string) error { return nil }

// voicePlatform only answers voice lookups
type voicePlatform struct {
	discord.Platform
	voice map[string]string
}

func (p *voicePlatform) BotID() string { return "bot" }

func (p *voicePlatform) VoiceChannel(_, userID string) string { return p.voice[userID] }

type replies struct {
	texts  []string
	embeds []*discordgo.MessageEmbed
}

func (r *replies) Reply(content string) error {
	r.texts = append(r.texts, content)
	return nil
}

func (r *replies) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	r.embeds = append(r.embeds, embed)
	return nil
}

func (r *replies) last() string {
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

func searchResult(t *testing.T, titles ...string) *lavalink.LoadResult {
	t.Helper()
	tracks := make([]*lavalink.Track, 0, len(titles))
	for _, title := range titles {
		tracks = append(tracks, &lavalink.Track{Encoded: "enc-" + title, Info: lavalink.TrackInfo{Title: title, Length: 61_000}})
	}
	raw, err := json.Marshal(tracks)
	require.NoError(t, err)
	return &lavalink.LoadResult{LoadType: "search", Data: raw}
}

func newRequest(t *testing.T, voice map[string]string, titles ...string) (*request, *replies) {
	node := &fakeNode{result: searchResult(t, titles...)}
	out := &replies{}
	return &request{
		ctx:       context.Background(),
		guildID:   "g1",
		userID:    "u1",
		channelID: "text",
		prefix:    "ma!",
		volume:    -1,
		music:     lavalink.NewManager(lavalink.ManagerOptions{Node: node}),
		platform:  &voicePlatform{voice: voice},
		embeds:    discord.NewEmbeds(nil),
		out:       out,
	}, out
}

func TestCheckPlaybackGuards(t *testing.T) {
	tests := []struct {
		name  string
		state playbackState
		level guardLevel
		want  string
	}{
		{"caller not in voice", playbackState{}, needVoice, msgNoVoice},
		{"bot elsewhere", playbackState{UserVoice: "a", BotVoice: "b"}, needVoice, msgOtherChannel},
		{"bot in same channel", playbackState{UserVoice: "a", BotVoice: "a"}, needVoice, ""},
		{"no player", playbackState{UserVoice: "a"}, needPlayer, "No hay un reproductor activo en este servidor \n`Intenta: ma!play <canción o url>`"},
		{"empty queue", playbackState{UserVoice: "a", HasPlayer: true}, needQueue, "No hay ninguna canción en la cola. Intenta agragando una usando: \n`ma!play <canción o url>`"},
		{"ready", playbackState{UserVoice: "a", HasPlayer: true, Tracks: 1}, needQueue, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkPlaybackGuards(tt.state, "ma!", tt.level))
		})
	}
}

func TestResumeGuards(t *testing.T) {
	r, out := newRequest(t, map[string]string{})
	require.NoError(t, runResume(r))
	assert.Equal(t, msgNoVoice, out.last())

	r, out = newRequest(t, map[string]string{"u1": "vc1", "bot": "vc2"})
	require.NoError(t, runResume(r))
	assert.Equal(t, msgOtherChannel, out.last())

	r, out = newRequest(t, map[string]string{"u1": "vc1"})
	require.NoError(t, runResume(r))
	assert.Contains(t, out.last(), "No hay un reproductor activo")
}

func TestPlayThenQueue(t *testing.T) {
	r, out := newRequest(t, map[string]string{"u1": "vc1"}, "uno", "dos")
	r.args = "uno"

	require.NoError(t, runPlay(r))
	require.Len(t, out.embeds, 1)
	assert.Equal(t, "🎵 Reproduciendo ahora", out.embeds[0].Title)

	p, ok := r.music.Player("g1")
	require.True(t, ok)
	assert.Equal(t, "uno", p.Current.Info.Title)
	assert.Empty(t, p.Queue, "a search only plays its best match")

	require.NoError(t, runPlay(r))
	assert.Equal(t, "🎵 Añadido a la cola", out.embeds[1].Title)

	require.NoError(t, runQueue(r))
	require.Len(t, out.embeds, 3)
	assert.Contains(t, out.embeds[2].Description, "**Reproduciendo:** [uno]")
	assert.Contains(t, out.embeds[2].Description, "1. uno - 1:01")
}

func TestPlayWithoutQuery(t *testing.T) {
	r, out := newRequest(t, map[string]string{"u1": "vc1"})
	require.NoError(t, runPlay(r))
	assert.Contains(t, out.last(), "ma!play <canción o url>")
}

func TestPauseResumeSkipStop(t *testing.T) {
	r, out := newRequest(t, map[string]string{"u1": "vc1"}, "uno")
	r.args = "uno"
	require.NoError(t, runPlay(r))

	require.NoError(t, runPause(r))
	assert.Equal(t, "⏸️ Reproducción pausada.", out.last())
	require.NoError(t, runPause(r))
	assert.Equal(t, "⏸️ La reproducción ya está en pausa.", out.last())

	require.NoError(t, runResume(r))
	assert.Equal(t, "▶️ Reproducción reanudada.", out.last())

	require.NoError(t, runSkip(r))
	assert.Equal(t, "⏹️ No hay más canciones en la cola.", out.last())

	require.NoError(t, runResume(r))
	assert.Contains(t, out.last(), "No hay ninguna canción en la cola")

	require.NoError(t, runStop(r))
	assert.Equal(t, "⏹️ Reproducción detenida y cola limpiada.", out.last())
	_, ok := r.music.Player("g1")
	assert.False(t, ok)
}

func TestVolume(t *testing.T) {
	r, out := newRequest(t, map[string]string{"u1": "vc1"}, "uno")
	r.args = "uno"
	require.NoError(t, runPlay(r))

	require.NoError(t, runVolume(r))
	assert.Contains(t, out.last(), "entre 0 y 100")

	r.volume = 40
	require.NoError(t, runVolume(r))
	assert.Equal(t, "🔊 Volumen ajustado a 40%", out.last())
}

func TestMusicUnavailable(t *testing.T) {
	r, out := newRequest(t, map[string]string{"u1": "vc1"})
	r.music = nil
	require.NoError(t, runPause(r))
	assert.Equal(t, msgUnavailable, out.last())
	require.NoError(t, runQueue(r))
	assert.Equal(t, msgUnavailable, out.last())
}

func TestFormatLength(t *testing.T) {
	assert.Equal(t, "0:00", formatLength(0))
	assert.Equal(t, "3:05", formatLength(185_000))
	assert.Equal(t, "1:01:01", formatLength(3_661_000))
}

func TestParseVolume(t *testing.T) {
	v, ok := parseVolume(" 50% ")
	assert.True(t, ok)
	assert.Equal(t, int64(50), v)
	_, ok = parseVolume("alto")
	assert.False(t, ok)
}

func TestRegisterMusicCommands(t *testing.T) {
	b := discord.NewBuilder()
	RegisterMusicCommands(b)
	reg, err := b.Build()
	require.NoError(t, err)

	for _, name := range []string{"play", "p", "pause", "resume", "skip", "stop", "queue", "q", "volume", "np"} {
		cmd, ok := reg.Lookup(name)
		require.True(t, ok, name)
		assert.True(t, cmd.IsSlash() && cmd.IsText(), name)
	}
}
