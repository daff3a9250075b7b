// Package lavalink provides a Lavalink v4 client for music playback: track
// loading, per-guild players with a queue, and voice forwarding.
package lavalink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
)

// Volume constants
const (
	MinVolume     = 0
	MaxVolume     = 1000
	DefaultVolume = 100
)

// ErrNoPlayer is returned for guilds without an active player
var ErrNoPlayer = errors.New("no active player")

// TrackInfo contains information about a track
type TrackInfo struct {
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
	ArtworkURL string `json:"artworkUrl"`
	SourceName string `json:"sourceName"`
}

// Track represents a playable track
type Track struct {
	Encoded string    `json:"encoded"`
	Info    TrackInfo `json:"info"`
}

// Exception is reported by the node for failed loads and playback
type Exception struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// LoadResult is the loadtracks response
type LoadResult struct {
	LoadType string          `json:"loadType"`
	Data     json.RawMessage `json:"data"`
}

// Tracks decodes the tracks of the result; search results keep their order
// and playlists yield every track
func (r *LoadResult) Tracks() ([]*Track, error) {
	switch r.LoadType {
	case "track":
		var t Track
		if err := json.Unmarshal(r.Data, &t); err != nil {
			return nil, err
		}
		return []*Track{&t}, nil
	case "search":
		var ts []*Track
		if err := json.Unmarshal(r.Data, &ts); err != nil {
			return nil, err
		}
		return ts, nil
	case "playlist":
		var pl struct {
			Tracks []*Track `json:"tracks"`
		}
		if err := json.Unmarshal(r.Data, &pl); err != nil {
			return nil, err
		}
		return pl.Tracks, nil
	case "error":
		var ex Exception
		if err := json.Unmarshal(r.Data, &ex); err != nil {
			return nil, err
		}
		return nil, errors.New(ex.Message)
	}
	return nil, nil
}

// TrackUpdate sets the current track; a nil Encoded stops playback
type TrackUpdate struct {
	Encoded *string `json:"encoded"`
}

// VoiceServer carries the voice connection details forwarded to the node
type VoiceServer struct {
	Token     string `json:"token"`
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"sessionId"`
}

// PlayerUpdate is the body of a player PATCH; nil fields are left unchanged
type PlayerUpdate struct {
	Track  *TrackUpdate `json:"track,omitempty"`
	Paused *bool        `json:"paused,omitempty"`
	Volume *int         `json:"volume,omitempty"`
	Voice  *VoiceServer `json:"voice,omitempty"`
}

// Transport is what the manager needs from a node
type Transport interface {
	Ready() bool
	LoadTracks(ctx context.Context, identifier string) (*LoadResult, error)
	UpdatePlayer(ctx context.Context, guildID string, update PlayerUpdate) error
	DestroyPlayer(ctx context.Context, guildID string) error
}

// VoiceGateway sends voice state updates to Discord (*discordgo.Session)
type VoiceGateway interface {
	ChannelVoiceJoinManual(guildID, channelID string, mute, deaf bool) error
}

// Publisher sends music state changes
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Player is the state of a guild music player
type Player struct {
	GuildID        string
	TextChannelID  string
	VoiceChannelID string
	Current        *Track
	Queue          []*Track
	Volume         int
	Paused         bool
	Position       int64
}

// MusicState is published on mabot/music/<guild>/<event>
type MusicState struct {
	GuildID      string        `json:"guildId"`
	IsPlaying    bool          `json:"isPlaying"`
	IsPaused     bool          `json:"isPaused"`
	CurrentTrack *TrackState   `json:"currentTrack"`
	Progress     float64       `json:"progress"`
	Volume       int           `json:"volume"`
	Queue        []*TrackState `json:"queue"`
	Timestamp    int64         `json:"timestamp"`
}

// TrackState represents a track in the music state
type TrackState struct {
	Title     string  `json:"title"`
	Artist    string  `json:"artist"`
	Duration  float64 `json:"duration"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	URL       string  `json:"url,omitempty"`
}

type voicePending struct {
	sessionID string
	server    *discordgo.VoiceServerUpdate
}

// Manager owns the players of every guild
type Manager struct {
	node      Transport
	voice     VoiceGateway
	publisher Publisher
	search    string
	botID     func() string

	mu      sync.Mutex
	players map[string]*Player
	pending map[string]*voicePending

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// ManagerOptions configures a Manager
type ManagerOptions struct {
	Node      Transport
	Voice     VoiceGateway
	Publisher Publisher
	// BotID returns the user id of the bot, used to pick its voice states
	BotID func() string
	// SearchPrefix is used for plain text queries (default "ytsearch")
	SearchPrefix string
}

// NewManager creates a Manager
func NewManager(opts ManagerOptions) *Manager {
	m := &Manager{
		node:      opts.Node,
		voice:     opts.Voice,
		publisher: opts.Publisher,
		search:    opts.SearchPrefix,
		botID:     opts.BotID,
		players:   make(map[string]*Player),
		pending:   make(map[string]*voicePending),
		stop:      make(chan struct{}),
	}
	if m.search == "" {
		m.search = "ytsearch"
	}
	if m.botID == nil {
		m.botID = func() string { return "" }
	}
	return m
}

// Available reports whether the node can take requests
func (m *Manager) Available() bool {
	return m != nil && m.node != nil && m.node.Ready()
}

// Search loads tracks for a URL or a plain text query
func (m *Manager) Search(ctx context.Context, query string) ([]*Track, error) {
	if !m.Available() {
		return nil, ErrNodeUnavailable
	}
	res, err := m.node.LoadTracks(ctx, identifierFor(query, m.search))
	if err != nil {
		return nil, err
	}
	return res.Tracks()
}

func identifierFor(query, search string) string {
	if looksLikeURL(query) {
		return query
	}
	return search + ":" + query
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Player returns a copy of the guild player
func (m *Manager) Player(guildID string) (Player, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[guildID]
	if !ok {
		return Player{}, false
	}
	cp := *p
	cp.Queue = append([]*Track(nil), p.Queue...)
	return cp, true
}

// Play joins the voice channel if needed and enqueues tracks. It reports
// whether playback started with the first track.
func (m *Manager) Play(ctx context.Context, guildID, voiceChannelID, textChannelID string, tracks ...*Track) (bool, error) {
	if len(tracks) == 0 {
		return false, nil
	}
	if !m.Available() {
		return false, ErrNodeUnavailable
	}

	m.mu.Lock()
	p, ok := m.players[guildID]
	if !ok {
		p = &Player{GuildID: guildID, Volume: DefaultVolume}
		m.players[guildID] = p
	}
	join := p.VoiceChannelID != voiceChannelID
	p.VoiceChannelID = voiceChannelID
	p.TextChannelID = textChannelID
	p.Queue = append(p.Queue, tracks...)
	var next *Track
	if p.Current == nil {
		next = p.Queue[0]
		p.Queue = p.Queue[1:]
		p.Current = next
		p.Paused = false
	}
	m.mu.Unlock()

	if join && m.voice != nil {
		if err := m.voice.ChannelVoiceJoinManual(guildID, voiceChannelID, false, true); err != nil {
			return false, fmt.Errorf("joining voice channel: %w", err)
		}
	}
	if next == nil {
		m.publish(guildID, "queued")
		return false, nil
	}
	return true, m.playTrack(ctx, guildID, next)
}

func (m *Manager) playTrack(ctx context.Context, guildID string, t *Track) error {
	encoded := t.Encoded
	paused := false
	return m.node.UpdatePlayer(ctx, guildID, PlayerUpdate{
		Track:  &TrackUpdate{Encoded: &encoded},
		Paused: &paused,
	})
}

// Pause pauses playback
func (m *Manager) Pause(ctx context.Context, guildID string) error {
	return m.setPaused(ctx, guildID, true)
}

// Resume resumes paused playback
func (m *Manager) Resume(ctx context.Context, guildID string) error {
	return m.setPaused(ctx, guildID, false)
}

func (m *Manager) setPaused(ctx context.Context, guildID string, paused bool) error {
	m.mu.Lock()
	p, ok := m.players[guildID]
	if !ok {
		m.mu.Unlock()
		return ErrNoPlayer
	}
	p.Paused = paused
	m.mu.Unlock()

	if err := m.node.UpdatePlayer(ctx, guildID, PlayerUpdate{Paused: &paused}); err != nil {
		return err
	}
	if paused {
		m.publish(guildID, "paused")
	} else {
		m.publish(guildID, "resumed")
	}
	return nil
}

// Skip plays the next queued track, or stops when the queue is empty. It
// returns the track now playing.
func (m *Manager) Skip(ctx context.Context, guildID string) (*Track, error) {
	m.mu.Lock()
	p, ok := m.players[guildID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNoPlayer
	}
	if len(p.Queue) == 0 {
		m.mu.Unlock()
		return nil, m.Stop(ctx, guildID)
	}
	next := p.Queue[0]
	p.Queue = p.Queue[1:]
	p.Current = next
	p.Paused = false
	m.mu.Unlock()

	return next, m.playTrack(ctx, guildID, next)
}

// Stop clears the queue and stops the current track
func (m *Manager) Stop(ctx context.Context, guildID string) error {
	m.mu.Lock()
	p, ok := m.players[guildID]
	if !ok {
		m.mu.Unlock()
		return ErrNoPlayer
	}
	p.Queue = nil
	p.Current = nil
	p.Paused = false
	m.mu.Unlock()

	err := m.node.UpdatePlayer(ctx, guildID, PlayerUpdate{Track: &TrackUpdate{}})
	m.publish(guildID, "stopped")
	return err
}

// SetVolume sets the player volume, clamped to [MinVolume, MaxVolume]
func (m *Manager) SetVolume(ctx context.Context, guildID string, volume int) (int, error) {
	if volume < MinVolume {
		volume = MinVolume
	}
	if volume > MaxVolume {
		volume = MaxVolume
	}

	m.mu.Lock()
	p, ok := m.players[guildID]
	if !ok {
		m.mu.Unlock()
		return 0, ErrNoPlayer
	}
	p.Volume = volume
	m.mu.Unlock()

	return volume, m.node.UpdatePlayer(ctx, guildID, PlayerUpdate{Volume: &volume})
}

// Destroy removes the player and leaves the voice channel
func (m *Manager) Destroy(ctx context.Context, guildID string) error {
	m.mu.Lock()
	_, ok := m.players[guildID]
	delete(m.players, guildID)
	delete(m.pending, guildID)
	m.mu.Unlock()
	if !ok {
		return ErrNoPlayer
	}

	if m.voice != nil {
		if err := m.voice.ChannelVoiceJoinManual(guildID, "", false, false); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo salir del canal de voz en %s: %v", guildID, err), "Lavalink")
		}
	}
	m.publish(guildID, "destroyed")
	if m.Available() {
		return m.node.DestroyPlayer(ctx, guildID)
	}
	return nil
}

// HandleEvent processes a websocket message from the node
func (m *Manager) HandleEvent(raw []byte) {
	var msg struct {
		Op      string `json:"op"`
		GuildID string `json:"guildId"`
		Type    string `json:"type"`
		Reason  string `json:"reason"`
		State   struct {
			Position int64 `json:"position"`
		} `json:"state"`
		Exception *Exception `json:"exception"`
		Code      int        `json:"code"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	switch msg.Op {
	case "ready":
		logger.Info("Lavalink ready", "Lavalink")
	case "playerUpdate":
		m.mu.Lock()
		if p, ok := m.players[msg.GuildID]; ok {
			p.Position = msg.State.Position
		}
		m.mu.Unlock()
	case "event":
		switch msg.Type {
		case "TrackStartEvent":
			m.publish(msg.GuildID, "playing")
		case "TrackEndEvent":
			m.trackEnded(msg.GuildID, msg.Reason)
		case "TrackExceptionEvent":
			if msg.Exception != nil {
				logger.Error(fmt.Sprintf("Error de reproducción en %s: %s", msg.GuildID, msg.Exception.Message), "Lavalink")
			}
		case "TrackStuckEvent":
			logger.Warn(fmt.Sprintf("Pista atascada en %s", msg.GuildID), "Lavalink")
		case "WebSocketClosedEvent":
			logger.Warn(fmt.Sprintf("Conexión de voz cerrada en %s (código %d)", msg.GuildID, msg.Code), "Lavalink")
		}
	}
}

// trackEnded advances the queue when the node may start the next track
func (m *Manager) trackEnded(guildID, reason string) {
	if reason != "finished" && reason != "loadFailed" {
		return
	}

	m.mu.Lock()
	p, ok := m.players[guildID]
	if !ok {
		m.mu.Unlock()
		return
	}
	p.Position = 0
	if len(p.Queue) == 0 {
		p.Current = nil
		m.mu.Unlock()
		logger.Info(fmt.Sprintf("Cola finalizada en guild %s", guildID), "Lavalink")
		m.publish(guildID, "finished")
		return
	}
	next := p.Queue[0]
	p.Queue = p.Queue[1:]
	p.Current = next
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.playTrack(ctx, guildID, next); err != nil {
		logger.Error(fmt.Sprintf("No se pudo reproducir la siguiente pista en %s: %v", guildID, err), "Lavalink")
	}
}

// VoiceStateUpdate forwards the voice session of the bot
func (m *Manager) VoiceStateUpdate(_ *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.VoiceState == nil || v.UserID != m.botID() {
		return
	}

	m.mu.Lock()
	if v.ChannelID == "" {
		delete(m.pending, v.GuildID)
		m.mu.Unlock()
		return
	}
	vp := m.pendingFor(v.GuildID)
	vp.sessionID = v.SessionID
	if p, ok := m.players[v.GuildID]; ok {
		p.VoiceChannelID = v.ChannelID
	}
	m.mu.Unlock()

	m.flushVoice(v.GuildID)
}

// VoiceServerUpdate forwards the voice server of a guild
func (m *Manager) VoiceServerUpdate(_ *discordgo.Session, v *discordgo.VoiceServerUpdate) {
	m.mu.Lock()
	m.pendingFor(v.GuildID).server = v
	m.mu.Unlock()

	m.flushVoice(v.GuildID)
}

// pendingFor must be called with m.mu held
func (m *Manager) pendingFor(guildID string) *voicePending {
	vp, ok := m.pending[guildID]
	if !ok {
		vp = &voicePending{}
		m.pending[guildID] = vp
	}
	return vp
}

// flushVoice sends the voice details once both halves arrived
func (m *Manager) flushVoice(guildID string) {
	m.mu.Lock()
	vp, ok := m.pending[guildID]
	if !ok || vp.sessionID == "" || vp.server == nil {
		m.mu.Unlock()
		return
	}
	voice := &VoiceServer{
		Token:     vp.server.Token,
		Endpoint:  vp.server.Endpoint,
		SessionID: vp.sessionID,
	}
	vp.server = nil
	m.mu.Unlock()

	if !m.Available() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.node.UpdatePlayer(ctx, guildID, PlayerUpdate{Voice: voice}); err != nil {
		logger.Error(fmt.Sprintf("No se pudo enviar la voz a Lavalink en %s: %v", guildID, err), "Lavalink")
	}
}

// Snapshot returns the published view of a player
func (m *Manager) Snapshot(guildID string) (MusicState, bool) {
	p, ok := m.Player(guildID)
	if !ok {
		return MusicState{}, false
	}
	return stateOf(p, time.Now()), true
}

func stateOf(p Player, at time.Time) MusicState {
	state := MusicState{
		GuildID:   p.GuildID,
		IsPlaying: p.Current != nil && !p.Paused,
		IsPaused:  p.Paused,
		Progress:  float64(p.Position) / 1000,
		Volume:    p.Volume,
		Timestamp: at.UnixMilli(),
	}
	if p.Current != nil {
		state.CurrentTrack = &TrackState{
			Title:     p.Current.Info.Title,
			Artist:    p.Current.Info.Author,
			Duration:  float64(p.Current.Info.Length) / 1000,
			Thumbnail: p.Current.Info.ArtworkURL,
			URL:       p.Current.Info.URI,
		}
	}
	for _, t := range p.Queue {
		state.Queue = append(state.Queue, &TrackState{
			Title:    t.Info.Title,
			Artist:   t.Info.Author,
			Duration: float64(t.Info.Length) / 1000,
		})
	}
	return state
}

func (m *Manager) publish(guildID, event string) {
	if m.publisher == nil {
		return
	}
	state, ok := m.Snapshot(guildID)
	if !ok {
		state = MusicState{GuildID: guildID, Timestamp: time.Now().UnixMilli()}
	}
	if err := m.publisher.Publish(fmt.Sprintf("mabot/music/%s/%s", guildID, event), state); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo publicar el estado de música: %v", err), "Lavalink")
	}
}

// StartProgress publishes the state of playing players every interval
// until Close
func (m *Manager) StartProgress(interval time.Duration) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, id := range m.playing() {
					m.publish(id, "progress")
				}
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *Manager) playing() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.players))
	for id, p := range m.players {
		if p.Current != nil && !p.Paused {
			ids = append(ids, id)
		}
	}
	return ids
}

// Close stops the progress loop
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
	logger.System("Lavalink client desconectado", "Lavalink")
}
