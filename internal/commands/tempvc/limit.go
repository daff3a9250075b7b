package tempvc

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const selectTimeout = time.Minute

func createLimitCommand() *discord.Command {
	return discord.NewCommand(
		"limit",
		"Cambia el límite de usuarios de un generador",
		"tempvc",
		limitHandler,
	).WithOptions(limitOption("max", "Máximo de usuarios por canal (0 sin límite)", true)).
		WithUserPermissions(discordgo.PermissionManageChannels)
}

// limitResult reports the outcome of a limit update; old is the generator
// before the change
func limitResult(e *discord.Embeds, old *models.TempVCGenerator, limit int64, err error) *discordgo.MessageEmbed {
	if err != nil {
		return &discordgo.MessageEmbed{
			Title:       "Unexpected Error",
			Description: "An unexpected error occurred while attempting to update the generator's settings. Please try again.",
			Color:       e.Color("error"),
			Footer:      e.Footer(),
			Timestamp:   time.Now().Format(time.RFC3339),
		}
	}
	before := "N/A"
	if old != nil && old.VCUserLimit != 0 {
		before = fmt.Sprint(old.VCUserLimit)
	}
	return e.Success("Generator settings successfully updated", fmt.Sprintf("limit: %s -> %d", before, limit))
}

// generatorMenu lists the generators of a guild; names maps channel ids to
// their names
func generatorMenu(customID string, gens []*models.TempVCGenerator, names map[string]string) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(gens))
	for _, g := range gens {
		if len(options) == 25 {
			break
		}
		label := names[g.GeneratorID]
		if label == "" {
			label = g.GeneratorID
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       label,
			Value:       g.GeneratorID,
			Description: "Límite actual: " + limitText(g.VCUserLimit),
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    customID,
			Placeholder: "Selecciona un generador",
			Options:     options,
		},
	}}}
}

func channelNames(guild *discordgo.Guild) map[string]string {
	names := make(map[string]string)
	if guild == nil {
		return names
	}
	for _, ch := range guild.Channels {
		names[ch.ID] = ch.Name
	}
	return names
}

func limitHandler(ctx *discord.CommandContext) error {
	guildID := ctx.Interaction.GuildID
	limit, _ := ctx.GetIntOption("max")
	service := ctx.Client.Services.TempVC

	gens, err := service.Generators(ctx.Context, guildID)
	if err != nil {
		return fmt.Errorf("list generators: %w", err)
	}

	switch len(gens) {
	case 0:
		return ctx.ReplyError("Este servidor no tiene generadores.", "Crea uno con `/tempvc setup`.")
	case 1:
		old, err := service.SetUserLimit(ctx.Context, guildID, gens[0].GeneratorID, int(limit))
		return ctx.ReplyEphemeralEmbed(limitResult(ctx.Embeds, old, limit, err))
	}

	customID := "generatorSelect" + ctx.Interaction.ID
	prompt := ctx.Embeds.Main("Selecciona el generador", fmt.Sprintf("Nuevo límite: **%s**", limitText(int(limit))))
	if err := ctx.ReplyComponents([]*discordgo.MessageEmbed{prompt}, generatorMenu(customID, gens, channelNames(ctx.Guild())), true); err != nil {
		return err
	}

	userID := ctx.User().ID
	ctx.Client.Components.Collect(discord.CollectorOptions{
		CustomID: customID,
		Max:      1,
		Timeout:  selectTimeout,
		Filter: func(i *discordgo.InteractionCreate) bool {
			u := discord.InteractionUser(i)
			return u != nil && u.ID == userID
		},
		OnCollect: func(i *discordgo.InteractionCreate) {
			values := i.MessageComponentData().Values
			if len(values) == 0 {
				return
			}
			c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			old, err := service.SetUserLimit(c, guildID, values[0], int(limit))
			cancel()
			if err != nil {
				logger.Error(fmt.Sprintf("Error actualizando el generador %s: %v", values[0], err), "CMD-TempVC")
			}

			embed := limitResult(ctx.Embeds, old, limit, err)
			if err := ctx.UpdateFrom(i, []*discordgo.MessageEmbed{embed}, []discordgo.MessageComponent{}); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo actualizar el menú de generadores: %v", err), "CMD-TempVC")
			}
		},
		OnEnd: func(reason discord.EndReason, collected int) {
			if reason != discord.EndTimeout || collected > 0 {
				return
			}
			expired := ctx.Embeds.Warning("Tiempo agotado", "No se seleccionó ningún generador.")
			if err := ctx.EditReplyComponents([]*discordgo.MessageEmbed{expired}, []discordgo.MessageComponent{}); err != nil {
				logger.Debug(fmt.Sprintf("No se pudo cerrar el menú de generadores: %v", err), "CMD-TempVC")
			}
		},
	})
	return nil
}
