package mod

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/database"
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/models"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

const warningsTimeout = 2 * time.Minute

// createWarningsCommand creates the /mod warns subcommand
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias de un usuario",
		category,
		warningsHandler,
	).WithOptions(
		userOption("usuario", "[STAFF] Usuario a buscar (opcional)", false),
	)
}

// warningPager walks the cursor-paginated listing. cursors[i] loads page i.
type warningPager struct {
	cursors []string
	page    int
	current models.WarningPage
}

func newWarningPager() *warningPager {
	return &warningPager{cursors: []string{""}}
}

func (p *warningPager) cursor() string {
	return p.cursors[p.page]
}

// set records the page just loaded for the current cursor
func (p *warningPager) set(page models.WarningPage) {
	p.current = page
	if page.HasMore() && len(p.cursors) == p.page+1 {
		p.cursors = append(p.cursors, page.NextCursor)
	}
}

func (p *warningPager) next() bool {
	if !p.current.HasMore() {
		return false
	}
	p.page++
	return true
}

func (p *warningPager) prev() bool {
	if p.page == 0 {
		return false
	}
	p.page--
	return true
}

func warningsEmbed(e *discord.Embeds, target *discordgo.User, page models.WarningPage, number int, total int64, showModerator bool) *discordgo.MessageEmbed {
	title := fmt.Sprintf("🔖 - Lista de advertencias de %s", target.Username)
	now := utils.DiscordTimestamp(time.Now(), "")

	if len(page.Warnings) == 0 && number == 0 {
		embed := e.Success(title, fmt.Sprintf(
			"No se han encontrado advertencias del usuario en este servidor\n\n> 💫 - **Cantidad de advertencias:** 0\n> 🕒 - **Fecha de consulta:** %s", now))
		return embed
	}

	var b strings.Builder
	for _, w := range page.Warnings {
		moderator := "Oculto"
		if showModerator {
			moderator = "<@" + w.ModeratorID + ">"
		}
		fmt.Fprintf(&b, "> **Advertencia:** %s \n> **Moderador:** %s \n> **Fecha:** %s \n> **ID:** `%s` \n\n",
			w.Reason, moderator, utils.DiscordTimestamp(w.CreatedAt, "R"), w.ID)
	}
	fmt.Fprintf(&b, "> 💫 - **Cantidad de advertencias:** %d \n> 🕒 - **Fecha de consulta:** %s", total, now)

	embed := e.Warning(fmt.Sprintf("%s (%s)", title, target.ID), b.String())
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Página %d", number+1)}
	return embed
}

func warningsButtons(id string, p *warningPager) []discordgo.MessageComponent {
	if p.page == 0 && !p.current.HasMore() {
		return []discordgo.MessageComponent{}
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{CustomID: id + ":prev", Label: "Anterior", Emoji: &discordgo.ComponentEmoji{Name: "⬅️"}, Style: discordgo.SecondaryButton, Disabled: p.page == 0},
		discordgo.Button{CustomID: id + ":next", Label: "Siguiente", Emoji: &discordgo.ComponentEmoji{Name: "➡️"}, Style: discordgo.SecondaryButton, Disabled: !p.current.HasMore()},
	}}}
}

func warningsHandler(ctx *discord.CommandContext) error {
	target := ctx.GetUserOption("usuario")
	caller := ctx.User()
	isModerator := ctx.Member() != nil && discord.HasPermissions(ctx.Member().Permissions, discordgo.PermissionManageMessages)

	if target == nil {
		target = caller
	}
	if target.ID != caller.ID && !isModerator {
		return ctx.ReplyError("No tienes permisos para ver la lista de advertencias de otro usuario.", "")
	}

	warnings := ctx.Client.Services.Warnings
	guildID := ctx.Interaction.GuildID

	total, err := warnings.Count(ctx.Context, guildID, target.ID)
	if err != nil {
		return fmt.Errorf("count warnings: %w", err)
	}

	pager := newWarningPager()
	load := func(c context.Context) error {
		page, err := warnings.List(c, guildID, target.ID, pager.cursor(), database.DefaultWarningPageSize)
		if err != nil {
			return err
		}
		pager.set(page)
		return nil
	}
	if err := load(ctx.Context); err != nil {
		return fmt.Errorf("list warnings: %w", err)
	}

	var mu sync.Mutex
	id := discord.NewCustomID("warns")
	embed := warningsEmbed(ctx.Embeds, target, pager.current, pager.page, total, isModerator)
	if err := ctx.ReplyComponents([]*discordgo.MessageEmbed{embed}, warningsButtons(id, pager), true); err != nil {
		return err
	}
	if !pager.current.HasMore() {
		return nil
	}

	ctx.Client.Components.Collect(discord.CollectorOptions{
		CustomIDPrefix: id + ":",
		Timeout:        warningsTimeout,
		Filter: func(i *discordgo.InteractionCreate) bool {
			u := discord.InteractionUser(i)
			return u != nil && u.ID == caller.ID
		},
		OnCollect: func(i *discordgo.InteractionCreate) {
			mu.Lock()
			defer mu.Unlock()

			var moved bool
			if strings.HasSuffix(discord.InteractionCustomID(i), ":next") {
				moved = pager.next()
			} else {
				moved = pager.prev()
			}
			if moved {
				c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				err := load(c)
				cancel()
				if err != nil {
					logger.Error(fmt.Sprintf("Error cargando advertencias: %v", err), "CMD-Warnings")
				}
			}
			embed := warningsEmbed(ctx.Embeds, target, pager.current, pager.page, total, isModerator)
			if err := ctx.UpdateFrom(i, []*discordgo.MessageEmbed{embed}, warningsButtons(id, pager)); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo actualizar la lista de advertencias: %v", err), "CMD-Warnings")
			}
		},
		OnEnd: func(reason discord.EndReason, _ int) {
			if reason != discord.EndTimeout {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			embed := warningsEmbed(ctx.Embeds, target, pager.current, pager.page, total, isModerator)
			_ = ctx.EditReplyComponents([]*discordgo.MessageEmbed{embed}, []discordgo.MessageComponent{})
		},
	})
	return nil
}
