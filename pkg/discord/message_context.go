package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// MessageContext is passed to text command handlers
type MessageContext struct {
	Context context.Context
	Session *discordgo.Session
	Message *discordgo.MessageCreate
	Client  *ExtendedClient
	Command *Command
	Embeds  *Embeds
	Invocation

	platform Platform
}

func (ctx *MessageContext) send(msg *discordgo.MessageSend) error {
	_, err := ctx.platform.Send(ctx.Message.ChannelID, msg)
	return err
}

func (ctx *MessageContext) reply(msg *discordgo.MessageSend) error {
	msg.Reference = ctx.Message.Reference()
	msg.AllowedMentions = &discordgo.MessageAllowedMentions{
		Parse:       []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		RepliedUser: false,
	}
	return ctx.send(msg)
}

// Reply answers the invoking message without pinging its author
func (ctx *MessageContext) Reply(content string) error {
	return ctx.reply(&discordgo.MessageSend{Content: content})
}

// ReplyEmbed answers with an embed
func (ctx *MessageContext) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.reply(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}

// ReplyError answers with an error embed
func (ctx *MessageContext) ReplyError(title, description string) error {
	embed, files := ctx.Embeds.Error(title, description)
	return ctx.reply(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}, Files: files})
}

// Send posts a message in the invoking channel
func (ctx *MessageContext) Send(content string) error {
	return ctx.send(&discordgo.MessageSend{Content: content})
}

// SendEmbed posts an embed in the invoking channel
func (ctx *MessageContext) SendEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.send(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}

// SendError posts an error embed in the invoking channel
func (ctx *MessageContext) SendError(title, description string) error {
	embed, files := ctx.Embeds.Error(title, description)
	return ctx.send(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}, Files: files})
}

// Delete removes the invoking message
func (ctx *MessageContext) Delete() error {
	return ctx.platform.DeleteMessage(ctx.Message.ChannelID, ctx.Message.ID)
}

// Author returns the user who sent the message
func (ctx *MessageContext) Author() *discordgo.User {
	return ctx.Message.Author
}

// GuildID returns "" for DMs
func (ctx *MessageContext) GuildID() string {
	return ctx.Message.GuildID
}

// Member returns the author as a guild member
func (ctx *MessageContext) Member() *discordgo.Member {
	if ctx.Message.GuildID == "" {
		return nil
	}
	if ctx.Message.Member != nil {
		m := *ctx.Message.Member
		m.User = ctx.Message.Author
		m.GuildID = ctx.Message.GuildID
		return &m
	}
	m, err := ctx.platform.Member(ctx.Message.GuildID, ctx.Message.Author.ID)
	if err != nil {
		return nil
	}
	return m
}

// Guild returns the guild of the message
func (ctx *MessageContext) Guild() *discordgo.Guild {
	if ctx.Message.GuildID == "" {
		return nil
	}
	g, _ := ctx.platform.Guild(ctx.Message.GuildID)
	return g
}

// Platform returns the API used for replies
func (ctx *MessageContext) Platform() Platform {
	return ctx.platform
}
