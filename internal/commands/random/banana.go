// Package random holds commands that answer with random results.
package random

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const (
	bananaMin   = 7
	bananaMax   = 21
	bananaImage = "https://cdn.discordapp.com/attachments/755529601333067940/853072892702490624/banana.png"
)

// RegisterRandomCommands adds the random commands to the builder
func RegisterRandomCommands(b *discord.Builder) {
	b.Add(discord.NewCommand(
		"banana",
		"🍌 Mide tu banana",
		"random",
		func(ctx *discord.CommandContext) error {
			return ctx.ReplyEmbed(bananaEmbed(displayName(ctx.Member(), ctx.User()), rollBanana()))
		},
	).WithExec(func(ctx *discord.MessageContext) error {
		return ctx.ReplyEmbed(bananaEmbed(displayName(ctx.Member(), ctx.Author()), rollBanana()))
	}).WithUsage("banana").WithCooldown(3 * time.Second))
}

type banana struct {
	size  int
	color int
}

func rollBanana() banana {
	return banana{
		size:  bananaMin + rand.Intn(bananaMax-bananaMin+1),
		color: rand.Intn(0xFFFFFF),
	}
}

func bananaEmbed(name string, b banana) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("La banana de %s mide %d cm.", name, b.size),
		Color: b.color,
		Image: &discordgo.MessageEmbedImage{URL: bananaImage},
	}
}

// displayName prefers the guild nickname
func displayName(m *discordgo.Member, u *discordgo.User) string {
	if m != nil && m.Nick != "" {
		return m.Nick
	}
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
