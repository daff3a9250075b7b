package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Platform is the part of the Discord API the dispatcher and the reply
// helpers depend on
type Platform interface {
	BotID() string
	Guild(guildID string) (*discordgo.Guild, error)
	Member(guildID, userID string) (*discordgo.Member, error)
	ChannelPermissions(userID, channelID string) (int64, error)
	// VoiceChannel returns the voice channel of a member, "" when not connected
	VoiceChannel(guildID, userID string) string
	Send(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	DeleteMessage(channelID, messageID string) error
	Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	EditResponse(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error
	Followup(i *discordgo.Interaction, params *discordgo.WebhookParams) error
}

// sessionPlatform reads from the state cache before falling back to REST
type sessionPlatform struct {
	s *discordgo.Session
}

// NewSessionPlatform adapts a session to Platform
func NewSessionPlatform(s *discordgo.Session) Platform {
	return &sessionPlatform{s: s}
}

func (p *sessionPlatform) BotID() string {
	if p.s.State == nil || p.s.State.User == nil {
		return ""
	}
	return p.s.State.User.ID
}

func (p *sessionPlatform) Guild(guildID string) (*discordgo.Guild, error) {
	if g, err := p.s.State.Guild(guildID); err == nil {
		return g, nil
	}
	return p.s.Guild(guildID)
}

func (p *sessionPlatform) Member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := p.s.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	m, err := p.s.GuildMember(guildID, userID)
	if err != nil {
		return nil, err
	}
	_ = p.s.State.MemberAdd(m)
	return m, nil
}

func (p *sessionPlatform) ChannelPermissions(userID, channelID string) (int64, error) {
	return p.s.UserChannelPermissions(userID, channelID)
}

func (p *sessionPlatform) VoiceChannel(guildID, userID string) string {
	vs, err := p.s.State.VoiceState(guildID, userID)
	if err != nil || vs == nil {
		return ""
	}
	return vs.ChannelID
}

func (p *sessionPlatform) Send(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return p.s.ChannelMessageSendComplex(channelID, msg)
}

func (p *sessionPlatform) DeleteMessage(channelID, messageID string) error {
	return p.s.ChannelMessageDelete(channelID, messageID)
}

func (p *sessionPlatform) Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return p.s.InteractionRespond(i, resp)
}

func (p *sessionPlatform) EditResponse(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	_, err := p.s.InteractionResponseEdit(i, edit)
	return err
}

func (p *sessionPlatform) Followup(i *discordgo.Interaction, params *discordgo.WebhookParams) error {
	_, err := p.s.FollowupMessageCreate(i, true, params)
	return err
}
