package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/cooldown"
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/models"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

// Discord allows two renames per channel every ten minutes
const (
	renameBurst  = 2
	renameWindow = 10 * time.Minute
)

// voiceAPI is the part of the gateway the generator needs
type voiceAPI interface {
	CreateVoiceChannel(guildID, name, parentID string, userLimit int) (string, error)
	MoveMember(guildID, userID, channelID string) error
	DeleteChannel(channelID string) error
	RenameChannel(channelID, name string) error
	ParentID(channelID string) string
	// Occupants lists the users connected to a voice channel
	Occupants(guildID, channelID string) []string
	DisplayName(guildID, userID string) string
}

// tempStore persists generators and the channels they created
type tempStore interface {
	Generator(ctx context.Context, guildID, channelID string) (*models.TempVCGenerator, error)
	Track(ctx context.Context, vc models.TempVC) error
	Tracked(ctx context.Context, channelID string) (*models.TempVC, error)
	Untrack(ctx context.Context, channelID string) error
}

// tempVoice creates a channel when someone joins a generator and removes
// it once the last occupant leaves
type tempVoice struct {
	api     voiceAPI
	store   tempStore
	renames *cooldown.Limiter
}

func newTempVoice(api voiceAPI, store tempStore) *tempVoice {
	return &tempVoice{
		api:     api,
		store:   store,
		renames: cooldown.Window(renameBurst, renameWindow),
	}
}

// RegisterVoiceEvents wires the temporary voice channel generator
func RegisterVoiceEvents(client *discord.ExtendedClient) {
	tv := newTempVoice(&sessionVoice{s: client.Session}, client.Services.TempVC)
	discord.On(client.EventHandler, "VoiceStateUpdate", func(_ *discordgo.Session, v *discordgo.VoiceStateUpdate) {
		before := ""
		if v.BeforeUpdate != nil {
			before = v.BeforeUpdate.ChannelID
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		tv.handle(ctx, v.GuildID, v.UserID, before, v.ChannelID)
	})
}

func (tv *tempVoice) handle(ctx context.Context, guildID, userID, before, after string) {
	if before == after {
		return
	}
	if before != "" {
		tv.left(ctx, guildID, userID, before)
	}
	if after != "" {
		tv.joined(ctx, guildID, userID, after)
	}
}

func channelName(template, username string) string {
	if template == "" {
		template = models.DefaultTempVCTemplate
	}
	return utils.Truncate(utils.ExpandWelcome(template, utils.WelcomeVars{Username: username}), 100)
}

func (tv *tempVoice) joined(ctx context.Context, guildID, userID, channelID string) {
	gen, err := tv.store.Generator(ctx, guildID, channelID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error leyendo el generador %s: %v", channelID, err), "Voice")
		return
	}
	if gen == nil {
		return
	}

	name := channelName(gen.NameTemplate, tv.api.DisplayName(guildID, userID))
	created, err := tv.api.CreateVoiceChannel(guildID, name, tv.api.ParentID(channelID), gen.VCUserLimit)
	if err != nil {
		logger.Error(fmt.Sprintf("Error creando el canal temporal en %s: %v", guildID, err), "Voice")
		return
	}

	if err := tv.store.Track(ctx, models.TempVC{
		ChannelID:   created,
		GuildID:     guildID,
		OwnerID:     userID,
		GeneratorID: gen.GeneratorID,
		CreatedAt:   time.Now(),
	}); err != nil {
		logger.Error(fmt.Sprintf("Error guardando el canal temporal %s: %v", created, err), "Voice")
	}

	if err := tv.api.MoveMember(guildID, userID, created); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo mover a %s a %s: %v", userID, created, err), "Voice")
		tv.remove(ctx, created)
		return
	}
	logger.Debug(fmt.Sprintf("🎤 Canal temporal %s creado para %s", created, userID), "Voice")
}

func (tv *tempVoice) left(ctx context.Context, guildID, userID, channelID string) {
	vc, err := tv.store.Tracked(ctx, channelID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error leyendo el canal temporal %s: %v", channelID, err), "Voice")
		return
	}
	if vc == nil {
		return
	}

	occupants := tv.api.Occupants(guildID, channelID)
	if len(occupants) == 0 {
		tv.remove(ctx, channelID)
		return
	}
	if vc.OwnerID != userID {
		return
	}

	vc.OwnerID = occupants[0]
	if err := tv.store.Track(ctx, *vc); err != nil {
		logger.Error(fmt.Sprintf("Error cambiando el dueño de %s: %v", channelID, err), "Voice")
	}

	if ok, _ := tv.renames.Allow(channelID); !ok {
		return
	}
	template := ""
	if gen, err := tv.store.Generator(ctx, guildID, vc.GeneratorID); err == nil && gen != nil {
		template = gen.NameTemplate
	}
	if err := tv.api.RenameChannel(channelID, channelName(template, tv.api.DisplayName(guildID, vc.OwnerID))); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo renombrar %s: %v", channelID, err), "Voice")
	}
}

func (tv *tempVoice) remove(ctx context.Context, channelID string) {
	if err := tv.api.DeleteChannel(channelID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo borrar el canal temporal %s: %v", channelID, err), "Voice")
	}
	if err := tv.store.Untrack(ctx, channelID); err != nil {
		logger.Error(fmt.Sprintf("Error olvidando el canal temporal %s: %v", channelID, err), "Voice")
	}
	tv.renames.Reset(channelID)
}

// sessionVoice implements voiceAPI over a gateway session
type sessionVoice struct {
	s *discordgo.Session
}

func (v *sessionVoice) CreateVoiceChannel(guildID, name, parentID string, userLimit int) (string, error) {
	ch, err := v.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:      name,
		Type:      discordgo.ChannelTypeGuildVoice,
		ParentID:  parentID,
		UserLimit: userLimit,
	})
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func (v *sessionVoice) MoveMember(guildID, userID, channelID string) error {
	return v.s.GuildMemberMove(guildID, userID, &channelID)
}

func (v *sessionVoice) DeleteChannel(channelID string) error {
	_, err := v.s.ChannelDelete(channelID)
	return err
}

func (v *sessionVoice) RenameChannel(channelID, name string) error {
	_, err := v.s.ChannelEdit(channelID, &discordgo.ChannelEdit{Name: name})
	return err
}

func (v *sessionVoice) ParentID(channelID string) string {
	if ch, err := v.s.State.Channel(channelID); err == nil {
		return ch.ParentID
	}
	return ""
}

func (v *sessionVoice) Occupants(guildID, channelID string) []string {
	guild, err := v.s.State.Guild(guildID)
	if err != nil {
		return nil
	}
	v.s.State.RLock()
	defer v.s.State.RUnlock()
	var users []string
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID {
			users = append(users, vs.UserID)
		}
	}
	return users
}

func (v *sessionVoice) DisplayName(guildID, userID string) string {
	m, err := v.s.State.Member(guildID, userID)
	if err != nil || m.User == nil {
		return userID
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}
