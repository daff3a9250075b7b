package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func check(b bool) string {
	if b {
		return "✓"
	}
	return "Χ"
}

// RoleInfoEmbed describes a role. members is the number of cached members
// holding it.
func RoleInfoEmbed(guild *discordgo.Guild, role *discordgo.Role, members int) *discordgo.MessageEmbed {
	created, _ := discordgo.SnowflakeTimestamp(role.ID)

	embed := &discordgo.MessageEmbed{
		Color: role.Color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Name", Value: role.Name, Inline: true},
			{Name: "ID", Value: role.ID, Inline: true},
			{Name: "Creation Date", Value: fmt.Sprintf("%s (%s)", DiscordTimestamp(created, ""), DiscordTimestamp(created, "R"))},
			{Name: "Members in cache", Value: strconv.Itoa(members), Inline: true},
			{Name: "Position", Value: strconv.Itoa(role.Position), Inline: true},
			{Name: "Hex Color", Value: "#" + strings.ToUpper(fmt.Sprintf("%06x", role.Color)), Inline: true},
			{Name: "Hoisted", Value: check(role.Hoist), Inline: true},
			{Name: "Managed", Value: check(role.Managed), Inline: true},
			{Name: "Mentionable", Value: check(role.Mentionable), Inline: true},
		},
	}

	if guild != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: guild.Name, IconURL: guild.IconURL("256")}
	}
	return embed
}

// WelcomeVars are the values substituted into a welcome message
type WelcomeVars struct {
	Username string
	UserID   string
	Server   string
	Members  int
}

// WelcomePlaceholders documents the placeholders accepted by ExpandWelcome
const WelcomePlaceholders = "{username} - Nombre del usuario\n{mention} - Mención del usuario\n{id} - ID del usuario\n{server} - Nombre del servidor\n{members} - Cantidad de miembros\n"

// ExpandWelcome replaces the welcome placeholders in tmpl
func ExpandWelcome(tmpl string, v WelcomeVars) string {
	return strings.NewReplacer(
		"{username}", v.Username,
		"{mention}", "<@"+v.UserID+">",
		"{id}", v.UserID,
		"{server}", v.Server,
		"{members}", strconv.Itoa(v.Members),
	).Replace(tmpl)
}
