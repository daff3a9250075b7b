package settings

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/prefix"
	"github.com/bwmarrin/discordgo"
)

func createPrefixCommand() *discord.Command {
	return discord.NewCommand(
		"prefix",
		"Cambia el prefijo de los comandos de texto",
		"settings",
		prefixHandler,
	).WithExec(prefixTextHandler).
		WithUsage("prefix <nuevo prefijo>").
		WithOptions(&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "prefix",
			Description: fmt.Sprintf("Nuevo prefijo (1 a %d caracteres, sin espacios)", prefix.MaxLength),
			Required:    true,
			MaxLength:   prefix.MaxLength,
		}).WithUserPermissions(discordgo.PermissionManageGuild)
}

// prefixError turns a validation error into the reply shown to the user
func prefixError(err error) string {
	switch {
	case errors.Is(err, prefix.ErrEmpty):
		return "Debes indicar el nuevo prefijo."
	case errors.Is(err, prefix.ErrTooLong):
		return fmt.Sprintf("El prefijo no puede tener más de %d caracteres.", prefix.MaxLength)
	case errors.Is(err, prefix.ErrWhitespace):
		return "El prefijo no puede contener espacios."
	}
	return ""
}

func prefixChanged(e *discord.Embeds, p string) *discordgo.MessageEmbed {
	return e.Success("Prefijo actualizado", fmt.Sprintf("El nuevo prefijo es `%s`\nEjemplo: `%shelp`", p, p))
}

func prefixHandler(ctx *discord.CommandContext) error {
	p := ctx.GetStringOption("prefix")
	if msg := prefixError(prefix.Validate(p)); msg != "" {
		return ctx.ReplyError(msg, "")
	}
	if err := ctx.Client.Prefixes.Set(ctx.Context, ctx.Interaction.GuildID, p); err != nil {
		return fmt.Errorf("set prefix: %w", err)
	}
	return ctx.ReplyEmbed(prefixChanged(ctx.Embeds, p))
}

func prefixTextHandler(ctx *discord.MessageContext) error {
	if len(ctx.Args) == 0 {
		return ctx.Reply(fmt.Sprintf("El prefijo actual es `%s`\n`Intenta: %sprefix <nuevo prefijo>`", ctx.Prefix, ctx.Prefix))
	}
	p := ctx.Args[0]
	if len(ctx.Args) > 1 {
		p = ctx.Rest(0)
	}
	if msg := prefixError(prefix.Validate(p)); msg != "" {
		return ctx.ReplyError(msg, "")
	}
	if err := ctx.Client.Prefixes.Set(ctx.Context, ctx.GuildID(), p); err != nil {
		return fmt.Errorf("set prefix: %w", err)
	}
	return ctx.ReplyEmbed(prefixChanged(ctx.Embeds, p))
}
