package user

import (
	"fmt"
	"sync"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const avatarSize = "2048"

func createAvatarCommand() *discord.Command {
	return discord.NewCommand(
		"avatar",
		"Muestra el avatar de un usuario",
		"user",
		avatarHandler,
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Usuario del que quieres ver el avatar",
	})
}

func avatarEmbed(username, url string, server bool, color int) *discordgo.MessageEmbed {
	title := fmt.Sprintf("%s's Avatar", username)
	if server {
		title = fmt.Sprintf("%s's Server Avatar", username)
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("[Image URL](%s)", url),
		Image:       &discordgo.MessageEmbedImage{URL: url},
		Color:       color,
	}
}

// avatarToggle offers the avatar that is not on screen
func avatarToggle(customID string, server bool) []discordgo.MessageComponent {
	label := "View User Avatar"
	if !server {
		label = "View Server Avatar"
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{CustomID: customID, Label: label, Style: discordgo.PrimaryButton},
	}}}
}

func avatarHandler(ctx *discord.CommandContext) error {
	member := ctx.Member()
	if u := ctx.GetUserOption("user"); u != nil {
		member = ctx.GetMemberOption("user")
		if member == nil {
			member = &discordgo.Member{User: u}
		}
	}
	if member == nil || member.User == nil {
		return ctx.ReplyError("Ese miembro no existe.", "")
	}
	member.GuildID = ctx.Interaction.GuildID

	username := member.User.Username
	color := ctx.Embeds.Color("main")
	serverURL := member.AvatarURL(avatarSize)
	userURL := member.User.AvatarURL(avatarSize)

	embed := avatarEmbed(username, serverURL, true, color)
	if serverURL == userURL {
		return ctx.ReplyEmbed(embed)
	}

	customID := "user" + ctx.Interaction.ID
	if err := ctx.ReplyComponents([]*discordgo.MessageEmbed{embed}, avatarToggle(customID, true), false); err != nil {
		return err
	}

	var mu sync.Mutex
	server := true
	ctx.Client.Components.Collect(discord.CollectorOptions{
		CustomID: customID,
		OnCollect: func(i *discordgo.InteractionCreate) {
			mu.Lock()
			server = !server
			url := userURL
			if server {
				url = serverURL
			}
			embed := avatarEmbed(username, url, server, color)
			row := avatarToggle(customID, server)
			mu.Unlock()

			if err := ctx.UpdateFrom(i, []*discordgo.MessageEmbed{embed}, row); err != nil {
				logger.Debug(fmt.Sprintf("No se pudo alternar el avatar: %v", err), "CMD-Avatar")
			}
		},
		OnEnd: func(discord.EndReason, int) {
			mu.Lock()
			url := userURL
			if server {
				url = serverURL
			}
			embed := avatarEmbed(username, url, server, color)
			mu.Unlock()
			_ = ctx.EditReplyComponents([]*discordgo.MessageEmbed{embed}, []discordgo.MessageComponent{})
		},
	})
	return nil
}
