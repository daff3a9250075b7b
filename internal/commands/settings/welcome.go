package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/models"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

const (
	welcomeModalTimeout = 15 * time.Minute
	welcomeMessageInput = "messageInput"
	welcomeImageInput   = "imageInput"
)

func createWelcomeMessageCommand() *discord.Command {
	return discord.NewCommand(
		"message",
		"Configura el mensaje y la imagen de bienvenida",
		"settings",
		welcomeMessageHandler,
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

func createWelcomeChannelCommand() *discord.Command {
	return discord.NewCommand(
		"channel",
		"Elige el canal de bienvenida (vacío para desactivarla)",
		"settings",
		welcomeChannelHandler,
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "channel",
		Description:  "Canal donde se enviará la bienvenida",
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}).WithUserPermissions(discordgo.PermissionManageGuild)
}

// welcomeModal is prefilled with the stored message and image
func welcomeModal(w models.WelcomeSettings) []discordgo.MessageComponent {
	row := func(in discordgo.TextInput) discordgo.MessageComponent {
		return discordgo.ActionsRow{Components: []discordgo.MessageComponent{in}}
	}
	return []discordgo.MessageComponent{
		row(discordgo.TextInput{
			CustomID:    welcomeMessageInput,
			Label:       "welcome text",
			Placeholder: "Message that will be sent once the user joins the server",
			Style:       discordgo.TextInputParagraph,
			MaxLength:   2000,
			Value:       w.WelcomeMessage,
		}),
		row(discordgo.TextInput{
			CustomID:    welcomeImageInput,
			Label:       "welcome image",
			Placeholder: "url for the welcome image",
			Style:       discordgo.TextInputShort,
			Value:       w.WelcomeImage,
		}),
		row(discordgo.TextInput{
			CustomID: "syntax",
			Label:    "syntaxes",
			Style:    discordgo.TextInputParagraph,
			Value:    utils.WelcomePlaceholders,
		}),
	}
}

// checkWelcome validates a submitted welcome; it returns the refusal or ""
func checkWelcome(message, image string) string {
	if image != "" && !utils.IsValidURL(image) {
		return "La URL de la imagen no es válida."
	}
	if message == "" && image == "" {
		return "Debes indicar un mensaje o una imagen de bienvenida."
	}
	return ""
}

func welcomeMessageHandler(ctx *discord.CommandContext) error {
	guildID := ctx.Interaction.GuildID
	guilds := ctx.Client.Services.Guilds

	var current models.WelcomeSettings
	if settings, err := guilds.Get(ctx.Context, guildID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer la bienvenida de %s: %v", guildID, err), "CMD-Welcome")
	} else if settings != nil {
		current = settings.Welcome
	}

	modalID := "welcomeMessageModal" + ctx.Interaction.ID
	if err := ctx.ShowModal(modalID, "Configure Welcome message/image", welcomeModal(current)...); err != nil {
		return err
	}

	submit, err := ctx.Client.Components.AwaitModal(ctx.Context, modalID, ctx.User().ID, welcomeModalTimeout)
	if err != nil {
		return nil
	}

	message := strings.TrimSpace(discord.ModalValue(submit, welcomeMessageInput))
	image := strings.TrimSpace(discord.ModalValue(submit, welcomeImageInput))

	var embed *discordgo.MessageEmbed
	var files []*discordgo.File
	if msg := checkWelcome(message, image); msg != "" {
		embed, files = ctx.Embeds.Error(msg, "")
	} else {
		c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := guilds.SetWelcomeMessage(c, guildID, message, image)
		cancel()
		if err != nil {
			logger.Error(fmt.Sprintf("Error guardando la bienvenida de %s: %v", guildID, err), "CMD-Welcome")
			embed, files = ctx.Embeds.UnexpectedError()
		} else {
			embed = ctx.Embeds.Success("Mensaje de bienvenida actualizado", utils.Truncate(message, 1024))
			if image != "" {
				embed.Image = &discordgo.MessageEmbedImage{URL: image}
			}
		}
	}

	return ctx.RespondTo(submit, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Files:  files,
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func welcomeChannelHandler(ctx *discord.CommandContext) error {
	channelID := ""
	if ch := ctx.GetChannelOption("channel"); ch != nil {
		channelID = ch.ID
	}
	if err := ctx.Client.Services.Guilds.SetWelcomeChannel(ctx.Context, ctx.Interaction.GuildID, channelID); err != nil {
		return fmt.Errorf("set welcome channel: %w", err)
	}
	if channelID == "" {
		return ctx.ReplyEphemeralEmbed(ctx.Embeds.Success("Bienvenida desactivada", "Ya no se enviarán mensajes de bienvenida."))
	}
	return ctx.ReplyEphemeralEmbed(ctx.Embeds.Success("Canal de bienvenida actualizado", fmt.Sprintf("Las bienvenidas se enviarán en <#%s>.", channelID)))
}
