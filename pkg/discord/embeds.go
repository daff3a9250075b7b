package discord

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/config"
	"github.com/bwmarrin/discordgo"
)

const errorIconName = "error-icon.png"

// Embeds builds embeds with the configured palette
type Embeds struct {
	palette  config.Palette
	version  string
	errorImg string

	iconOnce sync.Once
	icon     []byte
}

// NewEmbeds creates an embed factory from the startup file
func NewEmbeds(f *config.File) *Embeds {
	if f == nil {
		f = config.DefaultFile()
	}
	return &Embeds{
		palette:  f.Embeds.Colors,
		version:  f.Version,
		errorImg: f.Embeds.ErrorImg,
	}
}

// Color returns a palette color ("main", "success", "error", "warning")
func (e *Embeds) Color(name string) int {
	return e.palette.Color(name)
}

// Footer carries the bot version
func (e *Embeds) Footer() *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: e.version}
}

// Main returns an embed in the main color
func (e *Embeds) Main(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       e.Color("main"),
	}
}

// Success returns a timestamped success embed with the version footer
func (e *Embeds) Success(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       e.Color("success"),
		Footer:      e.Footer(),
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// Warning returns an embed in the warning color
func (e *Embeds) Warning(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       e.Color("warning"),
	}
}

// Error returns an error embed whose author line carries the error icon.
// The files must be sent along with the embed; they are empty when the
// icon cannot be read.
func (e *Embeds) Error(title, description string) (*discordgo.MessageEmbed, []*discordgo.File) {
	embed := &discordgo.MessageEmbed{
		Author:      &discordgo.MessageEmbedAuthor{Name: title},
		Description: description,
		Color:       e.Color("error"),
	}

	icon := e.errorIcon()
	if icon == nil {
		return embed, nil
	}
	embed.Author.IconURL = "attachment://" + errorIconName
	return embed, []*discordgo.File{{
		Name:        errorIconName,
		ContentType: "image/png",
		Reader:      bytes.NewReader(icon),
	}}
}

func (e *Embeds) errorIcon() []byte {
	e.iconOnce.Do(func() {
		if e.errorImg == "" {
			return
		}
		data, err := os.ReadFile(filepath.Clean(e.errorImg))
		if err == nil {
			e.icon = data
		}
	})
	return e.icon
}

// UnexpectedError is the generic reply sent when a handler fails
func (e *Embeds) UnexpectedError() (*discordgo.MessageEmbed, []*discordgo.File) {
	return e.Error("Error Inesperado.", "")
}
