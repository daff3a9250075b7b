package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/cooldown"
	"github.com/PancyStudios/MaBotGo/pkg/errors"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

// PrefixResolver returns the prefix in effect for a guild ("" for DMs)
type PrefixResolver interface {
	Resolve(ctx context.Context, guildID string) string
}

// DispatcherOptions holds the collaborators of a Dispatcher
type DispatcherOptions struct {
	Registry  *Registry
	Prefixes  PrefixResolver
	Platform  Platform
	Embeds    *Embeds
	IsDev     func(userID string) bool
	Publisher Publisher
	Client    *ExtendedClient
}

// Dispatcher routes prefixed messages and application command interactions
// to the registered handlers. Every invocation goes through the permission
// gate and the cooldowns before its handler runs; handler errors and panics
// end in a single generic error reply.
type Dispatcher struct {
	registry  *Registry
	prefixes  PrefixResolver
	platform  Platform
	embeds    *Embeds
	gate      PermissionGate
	isDev     func(string) bool
	publisher Publisher
	client    *ExtendedClient

	mu        sync.Mutex
	cooldowns map[time.Duration]*cooldown.Limiter
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	d := &Dispatcher{
		registry:  opts.Registry,
		prefixes:  opts.Prefixes,
		platform:  opts.Platform,
		embeds:    opts.Embeds,
		isDev:     opts.IsDev,
		publisher: opts.Publisher,
		client:    opts.Client,
		cooldowns: make(map[time.Duration]*cooldown.Limiter),
	}
	if d.isDev == nil {
		d.isDev = func(string) bool { return false }
	}
	if d.embeds == nil {
		d.embeds = NewEmbeds(nil)
	}
	return d
}

// Registry returns the command registry the dispatcher routes to
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// HandleMessage runs the text command addressed by a message, if any
func (d *Dispatcher) HandleMessage(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}

	prefix := d.prefixes.Resolve(ctx, m.GuildID)
	inv, ok := ParseInvocation(m.Content, prefix)
	if !ok {
		return
	}

	cmd, ok := d.registry.Lookup(inv.Name)
	if !ok || !cmd.IsText() {
		return
	}

	start := time.Now()
	exec := Execution{
		Command:   cmd.Path(),
		Source:    "text",
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
	}
	defer func() { d.publish(exec, start) }()

	mctx := &MessageContext{
		Context:    ctx,
		Session:    s,
		Message:    m,
		Client:     d.client,
		Command:    cmd,
		Embeds:     d.embeds,
		Invocation: inv,
		platform:   d.platform,
	}

	if reason := d.gate.Check(cmd, d.messageGateInput(cmd, m, inv)); reason != DenyNone {
		exec.Denied = reason.String()
		if err := mctx.SendError("Permiso denegado", reason.Message()); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo enviar la respuesta de permisos: %v", err), "Dispatcher")
		}
		return
	}

	if ok, retryAt := d.allow(cmd, m.Author.ID); !ok {
		exec.Denied = DenyCooldown.String()
		if err := mctx.Reply(cooldownMessage(retryAt)); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo enviar el aviso de cooldown: %v", err), "Dispatcher")
		}
		return
	}

	if err := invoke(func() error { return cmd.Exec(mctx) }); err != nil {
		exec.Error = err.Error()
		logger.Error(fmt.Sprintf("Error ejecutando el comando '%s': %v", cmd.Path(), err), "Dispatcher")
		embed, files := d.embeds.UnexpectedError()
		if _, sendErr := d.platform.Send(m.ChannelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{embed},
			Files:  files,
		}); sendErr != nil {
			logger.Warn(fmt.Sprintf("No se pudo enviar el mensaje de error: %v", sendErr), "Dispatcher")
		}
	}
}

// HandleInteraction runs application commands and autocomplete requests.
// Component and modal interactions are left to the ComponentRouter.
func (d *Dispatcher) HandleInteraction(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		cmd, ok := d.registry.LookupPath(CommandPath(i.ApplicationCommandData()))
		if !ok || cmd.AutoComplete == nil {
			return
		}
		cctx := d.commandContext(ctx, s, i, cmd)
		if err := invoke(func() error { cmd.AutoComplete(cctx); return nil }); err != nil {
			logger.Error(fmt.Sprintf("Error en autocompletado de '%s': %v", cmd.Path(), err), "Dispatcher")
		}
	case discordgo.InteractionApplicationCommand:
		d.handleCommand(ctx, s, i)
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	path := CommandPath(i.ApplicationCommandData())
	cmd, ok := d.registry.LookupPath(path)
	if !ok || !cmd.IsSlash() {
		logger.Warn("Comando no encontrado: "+path, "Dispatcher")
		return
	}

	user := InteractionUser(i)
	if user == nil {
		return
	}

	start := time.Now()
	exec := Execution{
		Command:   cmd.Path(),
		Source:    "slash",
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    user.ID,
	}
	defer func() { d.publish(exec, start) }()

	cctx := d.commandContext(ctx, s, i, cmd)

	if reason := d.gate.Check(cmd, d.interactionGateInput(cmd, cctx, user.ID)); reason != DenyNone {
		exec.Denied = reason.String()
		if err := cctx.ReplyError("Permiso denegado", reason.Message()); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo enviar la respuesta de permisos: %v", err), "Dispatcher")
		}
		return
	}

	if ok, retryAt := d.allow(cmd, user.ID); !ok {
		exec.Denied = DenyCooldown.String()
		if err := cctx.ReplyEphemeral(cooldownMessage(retryAt)); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo enviar el aviso de cooldown: %v", err), "Dispatcher")
		}
		return
	}

	if err := invoke(func() error { return cmd.Run(cctx) }); err != nil {
		exec.Error = err.Error()
		logger.Error(fmt.Sprintf("Error ejecutando el comando '%s': %v", cmd.Path(), err), "Dispatcher")
		d.replyUnexpected(cctx)
	}
}

func (d *Dispatcher) replyUnexpected(cctx *CommandContext) {
	embed, files := d.embeds.UnexpectedError()
	var err error
	if cctx.Responded() {
		err = d.platform.Followup(cctx.Interaction.Interaction, &discordgo.WebhookParams{
			Embeds: []*discordgo.MessageEmbed{embed},
			Files:  files,
			Flags:  discordgo.MessageFlagsEphemeral,
		})
	} else {
		err = cctx.respondData(&discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Files:  files,
			Flags:  discordgo.MessageFlagsEphemeral,
		})
	}
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el mensaje de error: %v", err), "Dispatcher")
	}
}

func (d *Dispatcher) commandContext(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, cmd *Command) *CommandContext {
	return &CommandContext{
		Context:     ctx,
		Session:     s,
		Interaction: i,
		Client:      d.client,
		Command:     cmd,
		Embeds:      d.embeds,
		platform:    d.platform,
	}
}

// invoke runs a handler, turning a panic into an error
func invoke(fn func() error) (err error) {
	defer func() {
		if r := recover(); errors.Recover(r) {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (d *Dispatcher) messageGateInput(cmd *Command, m *discordgo.MessageCreate, inv Invocation) GateInput {
	in := GateInput{
		InGuild: m.GuildID != "",
		IsDev:   d.isDev(m.Author.ID),
		Caller:  Subject{Position: -1},
		Bot:     Subject{Position: -1},
	}
	if !in.InGuild {
		return in
	}

	if perms, err := d.platform.ChannelPermissions(m.Author.ID, m.ChannelID); err == nil {
		in.Caller.Permissions = perms
	}
	if perms, err := d.platform.ChannelPermissions(d.platform.BotID(), m.ChannelID); err == nil {
		in.Bot.Permissions = perms
	}

	guild, _ := d.platform.Guild(m.GuildID)
	d.fillPositions(&in, guild, m.Author.ID)

	if cmd.InVoiceChannel {
		in.InVoice = d.platform.VoiceChannel(m.GuildID, m.Author.ID) != ""
	}
	if cmd.TargetOption != "" && len(inv.Args) > 0 && guild != nil {
		if id := utils.ParseMention(inv.Args[0]); id != "" {
			if member, err := d.platform.Member(guild.ID, id); err == nil {
				in.Target = subjectOf(guild, member)
			}
		}
	}
	return in
}

func (d *Dispatcher) interactionGateInput(cmd *Command, cctx *CommandContext, userID string) GateInput {
	i := cctx.Interaction
	in := GateInput{
		InGuild: i.GuildID != "",
		IsDev:   d.isDev(userID),
		Caller:  Subject{Position: -1},
		Bot:     Subject{Position: -1, Permissions: i.AppPermissions},
	}
	if !in.InGuild {
		return in
	}
	if i.Member != nil {
		in.Caller.Permissions = i.Member.Permissions
	}

	guild, _ := d.platform.Guild(i.GuildID)
	d.fillPositions(&in, guild, userID)

	if cmd.InVoiceChannel {
		in.InVoice = d.platform.VoiceChannel(i.GuildID, userID) != ""
	}
	if cmd.TargetOption != "" && guild != nil {
		if member := cctx.GetMemberOption(cmd.TargetOption); member != nil && member.User != nil {
			in.Target = subjectOf(guild, member)
		}
	}
	return in
}

func (d *Dispatcher) fillPositions(in *GateInput, guild *discordgo.Guild, userID string) {
	if guild == nil {
		return
	}
	in.Caller.IsOwner = guild.OwnerID == userID
	if member, err := d.platform.Member(guild.ID, userID); err == nil {
		in.Caller.Position = HighestRolePosition(guild, member)
	}
	if botID := d.platform.BotID(); botID != "" {
		if member, err := d.platform.Member(guild.ID, botID); err == nil {
			in.Bot.Position = HighestRolePosition(guild, member)
		}
	}
}

func subjectOf(guild *discordgo.Guild, member *discordgo.Member) *Subject {
	s := &Subject{
		Permissions: MemberPermissions(guild, member),
		Position:    HighestRolePosition(guild, member),
	}
	if member.User != nil {
		s.IsOwner = guild.OwnerID == member.User.ID
	}
	return s
}

// allow applies the per-user cooldown of cmd
func (d *Dispatcher) allow(cmd *Command, userID string) (bool, time.Time) {
	if cmd.Cooldown <= 0 {
		return true, time.Time{}
	}

	d.mu.Lock()
	limiter, ok := d.cooldowns[cmd.Cooldown]
	if !ok {
		limiter = cooldown.New(1, cmd.Cooldown)
		d.cooldowns[cmd.Cooldown] = limiter
	}
	d.mu.Unlock()

	return limiter.Allow(cmd.Path() + ":" + userID)
}

func cooldownMessage(retryAt time.Time) string {
	return fmt.Sprintf("⏳ Espera %s para volver a usar este comando.", utils.DiscordTimestamp(retryAt, "R"))
}

func (d *Dispatcher) publish(exec Execution, start time.Time) {
	if d.publisher == nil {
		return
	}
	exec.DurationMS = time.Since(start).Milliseconds()
	exec.At = start.UTC()
	if err := d.publisher.Publish(ExecutedTopic, exec); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo publicar la ejecución de '%s': %v", exec.Command, err), "Dispatcher")
	}
}
