package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/bwmarrin/discordgo"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	).WithExec(helpTextHandler).
		WithAliases("ayuda", "h").
		WithUsage("help (comando opcional)").
		WithOptions(&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "command",
			Description: "Comando del que quieres ver los detalles",
		})
}

// slashName renders a slash path the way users type it
func slashName(cmd *discord.Command) string {
	return "/" + strings.ReplaceAll(cmd.Path(), ".", " ")
}

func invocations(cmd *discord.Command, prefix string) []string {
	var out []string
	if cmd.IsSlash() {
		out = append(out, "`"+slashName(cmd)+"`")
	}
	if cmd.IsText() {
		out = append(out, "`"+prefix+cmd.Name+"`")
	}
	return out
}

// helpEmbed lists the visible commands by category
func helpEmbed(e *discord.Embeds, cmds []*discord.Command, prefix string, showDev bool) *discordgo.MessageEmbed {
	byCategory := make(map[string][]string)
	for _, cmd := range cmds {
		if cmd.IsDev && !showDev {
			continue
		}
		line := fmt.Sprintf("%s - %s", strings.Join(invocations(cmd, prefix), " "), cmd.Description)
		byCategory[cmd.Category] = append(byCategory[cmd.Category], line)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	embed := e.Main("📖 Ayuda de MaBot", fmt.Sprintf("Prefijo: `%s`\nUsa `%shelp <comando>` para ver los detalles de un comando.", prefix, prefix))
	for _, c := range categories {
		lines := byCategory[c]
		sort.Strings(lines)
		value := utils.Truncate(strings.Join(lines, "\n"), 1024)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: strings.ToUpper(c[:1]) + c[1:], Value: value})
	}
	embed.Footer = e.Footer()
	return embed
}

// commandEmbed describes a single command
func commandEmbed(e *discord.Embeds, cmd *discord.Command, prefix string) *discordgo.MessageEmbed {
	embed := e.Main(cmd.Name, cmd.Description)
	add := func(name, value string) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true})
	}

	add("Categoría", cmd.Category)
	add("Uso", strings.Join(invocations(cmd, prefix), "\n"))
	if cmd.Usage != "" && cmd.IsText() {
		add("Sintaxis", "`"+prefix+cmd.Usage+"`")
	}
	if len(cmd.Aliases) > 0 {
		add("Alias", "`"+strings.Join(cmd.Aliases, "`, `")+"`")
	}
	if cmd.Cooldown > 0 {
		add("Cooldown", cmd.Cooldown.String())
	}
	if cmd.GuildOnly {
		add("Servidor", "Solo en servidores")
	}
	embed.Footer = e.Footer()
	return embed
}

// lookupHelp finds a command by text name or slash path ("mod kick")
func lookupHelp(reg *discord.Registry, query string) (*discord.Command, bool) {
	query = strings.TrimPrefix(strings.TrimSpace(query), "/")
	if cmd, ok := reg.LookupPath(strings.Join(strings.Fields(strings.ToLower(query)), ".")); ok {
		return cmd, true
	}
	if cmd, ok := reg.Lookup(query); ok {
		return cmd, true
	}
	for _, cmd := range reg.Commands() {
		if strings.EqualFold(cmd.Name, query) {
			return cmd, true
		}
	}
	return nil, false
}

func helpReply(c *discord.ExtendedClient, e *discord.Embeds, query, prefix, userID string) *discordgo.MessageEmbed {
	showDev := c.Config != nil && c.Config.IsDevUser(userID)
	if query != "" {
		cmd, ok := lookupHelp(c.Registry, query)
		if !ok || (cmd.IsDev && !showDev) {
			return e.Warning("Comando no encontrado", fmt.Sprintf("No existe el comando `%s`.", query))
		}
		return commandEmbed(e, cmd, prefix)
	}
	return helpEmbed(e, c.Registry.Commands(), prefix, showDev)
}

func helpHandler(ctx *discord.CommandContext) error {
	prefix := ctx.Client.Prefixes.Resolve(ctx.Context, ctx.Interaction.GuildID)
	return ctx.ReplyEphemeralEmbed(helpReply(ctx.Client, ctx.Embeds, ctx.GetStringOption("command"), prefix, ctx.User().ID))
}

func helpTextHandler(ctx *discord.MessageContext) error {
	query := ""
	if len(ctx.Args) > 0 {
		query = ctx.Rest(0)
	}
	return ctx.ReplyEmbed(helpReply(ctx.Client, ctx.Embeds, query, ctx.Prefix, ctx.Author().ID))
}
