package discord

import (
	"context"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// CommandContext provides context for command execution
type CommandContext struct {
	Context     context.Context
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Client      *ExtendedClient
	Command     *Command
	Embeds      *Embeds

	platform  Platform
	responded atomic.Bool
}

// Responded reports whether an initial response was already sent
func (ctx *CommandContext) Responded() bool {
	return ctx.responded.Load()
}

// Respond sends the initial interaction response
func (ctx *CommandContext) Respond(resp *discordgo.InteractionResponse) error {
	err := ctx.platform.Respond(ctx.Interaction.Interaction, resp)
	if err == nil {
		ctx.responded.Store(true)
	}
	return err
}

func (ctx *CommandContext) respondData(data *discordgo.InteractionResponseData) error {
	return ctx.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// Reply sends a reply to the interaction
func (ctx *CommandContext) Reply(content string) error {
	return ctx.respondData(&discordgo.InteractionResponseData{Content: content})
}

// ReplyEmbed sends an embed reply to the interaction
func (ctx *CommandContext) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.respondData(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}

// ReplyEphemeral sends an ephemeral reply visible only to the user
func (ctx *CommandContext) ReplyEphemeral(content string) error {
	return ctx.respondData(&discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// ReplyEphemeralEmbed sends an ephemeral embed reply visible only to the user
func (ctx *CommandContext) ReplyEphemeralEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.respondData(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}

// ReplyError sends an ephemeral error embed
func (ctx *CommandContext) ReplyError(title, description string) error {
	embed, files := ctx.Embeds.Error(title, description)
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Files:  files,
		Flags:  discordgo.MessageFlagsEphemeral,
	}
	if ctx.Responded() {
		return ctx.platform.Followup(ctx.Interaction.Interaction, &discordgo.WebhookParams{
			Embeds: data.Embeds,
			Files:  files,
			Flags:  discordgo.MessageFlagsEphemeral,
		})
	}
	return ctx.respondData(data)
}

// ReplyComponents sends content with embeds and message components
func (ctx *CommandContext) ReplyComponents(embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds:     embeds,
		Components: components,
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return ctx.respondData(data)
}

// ShowModal opens a modal as the initial response
func (ctx *CommandContext) ShowModal(customID, title string, components ...discordgo.MessageComponent) error {
	return ctx.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   customID,
			Title:      title,
			Components: components,
		},
	})
}

// Defer defers the interaction response
func (ctx *CommandContext) Defer() error {
	return ctx.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// EditReply edits the original interaction response
func (ctx *CommandContext) EditReply(content string) error {
	return ctx.platform.EditResponse(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}

// EditReplyEmbed edits the original interaction response with an embed
func (ctx *CommandContext) EditReplyEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.platform.EditResponse(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
}

// EditReplyComponents replaces embeds and components of the original response
func (ctx *CommandContext) EditReplyComponents(embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	return ctx.platform.EditResponse(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	})
}

// RespondTo answers a component or modal interaction collected by this command
func (ctx *CommandContext) RespondTo(i *discordgo.InteractionCreate, resp *discordgo.InteractionResponse) error {
	return ctx.platform.Respond(i.Interaction, resp)
}

// UpdateFrom replaces the message a collected component belongs to
func (ctx *CommandContext) UpdateFrom(i *discordgo.InteractionCreate, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	return ctx.RespondTo(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     embeds,
			Components: components,
		},
	})
}

// GetOption retrieves an option value by name
func (ctx *CommandContext) GetOption(name string) *discordgo.ApplicationCommandInteractionDataOption {
	options := ctx.Interaction.ApplicationCommandData().Options
	return findOption(options, name)
}

// findOption recursively finds an option by name
func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Name == name {
			return opt
		}
		if len(opt.Options) > 0 {
			if found := findOption(opt.Options, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// GetStringOption retrieves a string option value
func (ctx *CommandContext) GetStringOption(name string) string {
	opt := ctx.GetOption(name)
	if opt == nil {
		return ""
	}
	return opt.StringValue()
}

// GetIntOption retrieves an integer option value; ok is false when absent
func (ctx *CommandContext) GetIntOption(name string) (int64, bool) {
	opt := ctx.GetOption(name)
	if opt == nil {
		return 0, false
	}
	return opt.IntValue(), true
}

// GetBoolOption retrieves a boolean option value
func (ctx *CommandContext) GetBoolOption(name string) bool {
	opt := ctx.GetOption(name)
	if opt == nil {
		return false
	}
	return opt.BoolValue()
}

// optionID returns the snowflake carried by a user/channel/role option
func (ctx *CommandContext) optionID(name string) string {
	opt := ctx.GetOption(name)
	if opt == nil {
		return ""
	}
	id, _ := opt.Value.(string)
	return id
}

// GetUserOption retrieves a user option from the resolved data
func (ctx *CommandContext) GetUserOption(name string) *discordgo.User {
	id := ctx.optionID(name)
	if id == "" {
		return nil
	}
	if r := ctx.Interaction.ApplicationCommandData().Resolved; r != nil {
		if u, ok := r.Users[id]; ok {
			return u
		}
	}
	return &discordgo.User{ID: id}
}

// GetMemberOption retrieves the guild member behind a user option
func (ctx *CommandContext) GetMemberOption(name string) *discordgo.Member {
	id := ctx.optionID(name)
	if id == "" || ctx.Interaction.GuildID == "" {
		return nil
	}
	if r := ctx.Interaction.ApplicationCommandData().Resolved; r != nil {
		if m, ok := r.Members[id]; ok {
			member := *m
			member.User = r.Users[id]
			member.GuildID = ctx.Interaction.GuildID
			return &member
		}
	}
	m, err := ctx.platform.Member(ctx.Interaction.GuildID, id)
	if err != nil {
		return nil
	}
	return m
}

// GetChannelOption retrieves a channel option from the resolved data
func (ctx *CommandContext) GetChannelOption(name string) *discordgo.Channel {
	id := ctx.optionID(name)
	if id == "" {
		return nil
	}
	if r := ctx.Interaction.ApplicationCommandData().Resolved; r != nil {
		if c, ok := r.Channels[id]; ok {
			return c
		}
	}
	return &discordgo.Channel{ID: id}
}

// GetRoleOption retrieves a role option from the resolved data
func (ctx *CommandContext) GetRoleOption(name string) *discordgo.Role {
	id := ctx.optionID(name)
	if id == "" {
		return nil
	}
	if r := ctx.Interaction.ApplicationCommandData().Resolved; r != nil {
		if role, ok := r.Roles[id]; ok {
			return role
		}
	}
	return &discordgo.Role{ID: id}
}

// Guild returns the guild where the interaction occurred
func (ctx *CommandContext) Guild() *discordgo.Guild {
	if ctx.Interaction.GuildID == "" {
		return nil
	}
	guild, _ := ctx.platform.Guild(ctx.Interaction.GuildID)
	return guild
}

// User returns the user who triggered the interaction
func (ctx *CommandContext) User() *discordgo.User {
	return InteractionUser(ctx.Interaction)
}

// Member returns the guild member who triggered the interaction
func (ctx *CommandContext) Member() *discordgo.Member {
	return ctx.Interaction.Member
}

// Platform returns the API used for replies
func (ctx *CommandContext) Platform() Platform {
	return ctx.platform
}

// InteractionUser returns the user behind an interaction in guilds and DMs
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
