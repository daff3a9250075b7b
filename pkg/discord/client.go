// Package discord wraps discordgo with the command registry, the dispatcher,
// component collectors and the reply helpers used by every command.
package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/config"
	"github.com/PancyStudios/MaBotGo/pkg/database"
	"github.com/PancyStudios/MaBotGo/pkg/lavalink"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/mqtt"
	"github.com/PancyStudios/MaBotGo/pkg/prefix"
	"github.com/bwmarrin/discordgo"
)

func init() {
	discordgo.Logger = func(msgL, _ int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ClientOptions holds the services the client hands to commands
type ClientOptions struct {
	Config   *config.Config
	Database *database.Database
	Services *database.Services
	MQTT     *mqtt.Communicator
}

// ExtendedClient wraps discordgo.Session with the bot services
type ExtendedClient struct {
	Session      *discordgo.Session
	Config       *config.Config
	Database     *database.Database
	Services     *database.Services
	Prefixes     *prefix.Resolver
	Embeds       *Embeds
	Components   *ComponentRouter
	Registry     *Registry
	Dispatcher   *Dispatcher
	Music        *lavalink.Manager
	MQTT         *mqtt.Communicator
	EventHandler *EventHandler
	StartTime    time.Time

	node     *lavalink.Node
	nodeOnce sync.Once
	mu       sync.RWMutex
	isReady  bool
}

// musicProgressInterval paces the MQTT progress updates of playing guilds
const musicProgressInterval = 5 * time.Second

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(opts ClientOptions) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(opts)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(opts ClientOptions) (*ExtendedClient, error) {
	cfg := opts.Config
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates
	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	file := cfg.File
	if file == nil {
		file = config.DefaultFile()
	}

	c := &ExtendedClient{
		Session:    session,
		Config:     cfg,
		Database:   opts.Database,
		Services:   opts.Services,
		Embeds:     NewEmbeds(file),
		Components: NewComponentRouter(file.CollectorTimeout),
		MQTT:       opts.MQTT,
	}

	if c.Services == nil {
		c.Services = database.NewServices(opts.Database)
	}
	c.Prefixes = prefix.NewResolver(c.Services.Guilds, file.GlobalPrefix, file.PrefixCacheTTL)

	var publisher lavalink.Publisher
	if opts.MQTT != nil {
		publisher = opts.MQTT
	}
	if cfg.LinkServer != "" {
		c.node = lavalink.NewNode(lavalink.NodeConfig{
			Name:     "main",
			Host:     cfg.LinkServer,
			Port:     cfg.LinkPort,
			Password: cfg.LinkPassword,
		}, func(raw []byte) { c.Music.HandleEvent(raw) })
		c.Music = lavalink.NewManager(lavalink.ManagerOptions{
			Node:      c.node,
			Voice:     session,
			Publisher: publisher,
			BotID:     c.botID,
		})
		if publisher != nil {
			c.Music.StartProgress(musicProgressInterval)
		}
	}

	c.EventHandler = NewEventHandler(c)
	return c, nil
}

func (c *ExtendedClient) botID() string {
	if c.Session.State == nil || c.Session.State.User == nil {
		return ""
	}
	return c.Session.State.User.ID
}

// Start freezes the registry into a dispatcher, wires the gateway handlers
// and opens the session
func (c *ExtendedClient) Start(registry *Registry) error {
	c.Registry = registry

	var publisher Publisher
	if c.MQTT != nil {
		publisher = c.MQTT
	}
	c.Dispatcher = NewDispatcher(DispatcherOptions{
		Registry:  registry,
		Prefixes:  c.Prefixes,
		Platform:  NewSessionPlatform(c.Session),
		Embeds:    c.Embeds,
		IsDev:     c.Config.IsDevUser,
		Publisher: publisher,
		Client:    c,
	})
	logger.System(fmt.Sprintf("%d comandos registrados", registry.Size()), "Client")

	On(c.EventHandler, "Ready", c.onReady)
	if c.Music != nil {
		On(c.EventHandler, "VoiceStateUpdate", c.Music.VoiceStateUpdate)
		On(c.EventHandler, "VoiceServerUpdate", c.Music.VoiceServerUpdate)
	}

	c.StartTime = time.Now()
	return c.Session.Open()
}

func (c *ExtendedClient) onReady(s *discordgo.Session, r *discordgo.Ready) {
	c.mu.Lock()
	c.isReady = true
	c.mu.Unlock()

	logger.Success("Bot conectado como: "+r.User.Username, "Client")

	if c.node != nil {
		c.nodeOnce.Do(func() { c.node.Connect(r.User.ID) })
	}
	c.RegisterCommands(r.User.ID)
}

// RegisterCommands publishes the slash definitions: global commands
// everywhere, dev commands in the dev guild only
func (c *ExtendedClient) RegisterCommands(appID string) {
	global, dev := c.Registry.ApplicationCommands()

	if _, err := c.Session.ApplicationCommandBulkOverwrite(appID, "", global); err != nil {
		logger.Error(fmt.Sprintf("Error registrando comandos globales: %v", err), "Client")
	} else {
		logger.Success(fmt.Sprintf("%d comandos globales registrados", len(global)), "Client")
	}

	if c.Config.DevGuildID == "" {
		return
	}
	if _, err := c.Session.ApplicationCommandBulkOverwrite(appID, c.Config.DevGuildID, dev); err != nil {
		logger.Error(fmt.Sprintf("Error registrando comandos de desarrollo: %v", err), "Client")
		return
	}
	logger.Success(fmt.Sprintf("%d comandos de desarrollo registrados en %s", len(dev), c.Config.DevGuildID), "Client")
}

// Stop closes the music node and the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Music != nil {
		c.Music.Close()
	}
	if c.node != nil {
		c.node.Close()
	}
	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// Uptime returns the time since Start
func (c *ExtendedClient) Uptime() time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// MemberCount adds up the member counts of the cached guilds
func (c *ExtendedClient) MemberCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	total := 0
	for _, g := range c.Session.State.Guilds {
		total += g.MemberCount
	}
	return total
}

// Latency returns the gateway heartbeat latency
func (c *ExtendedClient) Latency() time.Duration {
	if c.Session == nil {
		return 0
	}
	return c.Session.HeartbeatLatency()
}

// DatabaseStatus reports the database status line for status commands
func (c *ExtendedClient) DatabaseStatus(ctx context.Context) (string, bool) {
	if c.Database == nil {
		return "🔴 | Desconectado", false
	}
	return c.Database.GetStatus(ctx)
}
