// Package fun holds the entertainment commands.
package fun

import (
	"fmt"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const (
	sayModalTimeout = 20 * time.Minute
	sayInput        = "messageInput"
	sayMaxLength    = 2000

	msgNoSendPermission = "*I don't have permission to send messages in this channel.*"
	msgSent             = "*Message sent successfully*"
	msgSendFailed       = "An Unexpected Error occurred while sending the message to the specified channel. Please try again."
)

// RegisterFunCommands adds the fun commands to the builder
func RegisterFunCommands(b *discord.Builder) {
	b.Add(createSayCommand())
}

func createSayCommand() *discord.Command {
	return discord.NewCommand(
		"say",
		"📢 Send a message through me.",
		"fun",
		sayHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "Whatever you want to say.",
			MinLength:   intPtr(1),
			MaxLength:   sayMaxLength,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "channel",
			Description:  "Channel you want the message to be sent to.",
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	).WithUserPermissions(sayPermissions).
		WithBotPermissions(sayPermissions).
		InGuild()
}

const sayPermissions = discordgo.PermissionSendMessages | discordgo.PermissionManageChannels | discordgo.PermissionManageMessages

func intPtr(v int) *int {
	return &v
}

// sayContent signs a relayed message with its author
func sayContent(message, username string) string {
	return fmt.Sprintf("%s \n\n*By:* **%s**", message, username)
}

// sayModalID is unique per invocation and guild
func sayModalID(interactionID, guildID string) string {
	return "sayMessageModal" + interactionID + guildID
}

func sayModal() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.TextInput{
			CustomID:  sayInput,
			Label:     "message",
			Style:     discordgo.TextInputParagraph,
			MinLength: 1,
			MaxLength: sayMaxLength,
			Required:  true,
		},
	}}}
}

func sayHandler(ctx *discord.CommandContext) error {
	channelID := ctx.Interaction.ChannelID
	if ch := ctx.GetChannelOption("channel"); ch != nil {
		channelID = ch.ID
	}

	p := ctx.Platform()
	perms, err := p.ChannelPermissions(p.BotID(), channelID)
	if err != nil || !discord.HasPermissions(perms, discordgo.PermissionSendMessages) {
		return ctx.ReplyEphemeral(msgNoSendPermission)
	}

	user := ctx.User()
	send := func(message string) string {
		if _, err := p.Send(channelID, &discordgo.MessageSend{Content: sayContent(message, user.Username)}); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo enviar el mensaje de say a %s: %v", channelID, err), "CMD-Say")
			return msgSendFailed
		}
		return msgSent
	}

	if message := ctx.GetStringOption("message"); message != "" {
		return ctx.ReplyEphemeral(send(message))
	}

	modalID := sayModalID(ctx.Interaction.ID, ctx.Interaction.GuildID)
	if err := ctx.ShowModal(modalID, "Your Message", sayModal()...); err != nil {
		return err
	}

	submit, err := ctx.Client.Components.AwaitModal(ctx.Context, modalID, user.ID, sayModalTimeout)
	if err != nil {
		logger.Debug(fmt.Sprintf("Modal de say sin respuesta: %v", err), "CMD-Say")
		return nil
	}

	return ctx.RespondTo(submit, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: send(discord.ModalValue(submit, sayInput)),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
