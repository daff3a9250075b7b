// Package main provides a utility to sync Discord slash commands.
// It removes stale commands from Discord and registers the ones the bot
// currently defines.
//
// Usage:
//
//	sync-commands list  [--guild <id>]
//	sync-commands clean [--guild <id>]
//	sync-commands sync  [--guild <id>]
package main

import (
	"fmt"
	"os"

	"github.com/PancyStudios/MaBotGo/internal/commands"
	"github.com/PancyStudios/MaBotGo/pkg/config"
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

const logPrefix = "SyncCommands"

// app is the REST session shared by the sub-commands
type app struct {
	cfg     *config.Config
	session *discordgo.Session
	appID   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var guildID string
	a := &app{}

	root := &cobra.Command{
		Use:           "sync-commands",
		Short:         "Gestiona los comandos slash registrados en Discord",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Get().Close()
		},
	}
	root.PersistentFlags().StringVar(&guildID, "guild", "", "Servidor objetivo (vacío para los comandos globales)")

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Lista los comandos registrados",
			RunE: func(*cobra.Command, []string) error {
				return a.list(guildID)
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Elimina todos los comandos sin registrar nuevos",
			RunE: func(*cobra.Command, []string) error {
				return a.clean(guildID)
			},
		},
		&cobra.Command{
			Use:   "sync",
			Short: "Elimina los comandos obsoletos y registra los actuales",
			RunE: func(*cobra.Command, []string) error {
				return a.sync(guildID)
			},
		},
	)
	return root
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	logger.System("Iniciando utilidad de sincronización de comandos...", logPrefix)

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	me, err := session.User("@me")
	if err != nil {
		logger.Critical(fmt.Sprintf("Error conectando a Discord: %v", err), logPrefix)
		return err
	}

	a.cfg, a.session, a.appID = cfg, session, me.ID
	logger.Success(fmt.Sprintf("Conectado a Discord como %s", me.Username), logPrefix)
	return nil
}

// list prints the commands registered with Discord
func (a *app) list(guildID string) error {
	logger.Info(fmt.Sprintf("📋 Listando comandos registrados en %s...", scope(guildID)), logPrefix)

	cmds, err := a.session.ApplicationCommands(a.appID, guildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error obteniendo comandos: %v", err), logPrefix)
		return err
	}
	if len(cmds) == 0 {
		logger.Info("No hay comandos registrados", logPrefix)
		return nil
	}

	logger.Info(fmt.Sprintf("Comandos encontrados: %d", len(cmds)), logPrefix)
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), logPrefix)
	}
	return nil
}

// clean removes every command of the scope
func (a *app) clean(guildID string) error {
	logger.Info(fmt.Sprintf("🧹 Eliminando todos los comandos de %s...", scope(guildID)), logPrefix)

	if _, err := a.session.ApplicationCommandBulkOverwrite(a.appID, guildID, []*discordgo.ApplicationCommand{}); err != nil {
		logger.Error(fmt.Sprintf("Error eliminando comandos: %v", err), logPrefix)
		return err
	}
	logger.Success("✅ Todos los comandos han sido eliminados", logPrefix)
	return nil
}

// sync overwrites the scope with the commands the bot defines. Without a
// guild it also refreshes the dev guild.
func (a *app) sync(guildID string) error {
	logger.Info("🔄 Sincronizando comandos...", logPrefix)

	registry, err := commands.Build()
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}

	for _, target := range syncTargets(registry, guildID, a.cfg.DevGuildID) {
		registered, err := a.session.ApplicationCommandBulkOverwrite(a.appID, target.guildID, target.commands)
		if err != nil {
			logger.Error(fmt.Sprintf("Error sincronizando comandos de %s: %v", scope(target.guildID), err), logPrefix)
			return err
		}
		logger.Success(fmt.Sprintf("✅ %d comandos sincronizados en %s", len(registered), scope(target.guildID)), logPrefix)
	}
	return nil
}

type syncTarget struct {
	guildID  string
	commands []*discordgo.ApplicationCommand
}

// syncTargets decides what each scope receives: global commands globally,
// dev commands in the dev guild, and an explicit guild gets the global set
// unless it is the dev guild
func syncTargets(reg *discord.Registry, guildID, devGuildID string) []syncTarget {
	global, dev := reg.ApplicationCommands()
	if global == nil {
		global = []*discordgo.ApplicationCommand{}
	}
	if dev == nil {
		dev = []*discordgo.ApplicationCommand{}
	}

	switch {
	case guildID != "" && guildID == devGuildID:
		return []syncTarget{{guildID: guildID, commands: dev}}
	case guildID != "":
		return []syncTarget{{guildID: guildID, commands: global}}
	case devGuildID != "":
		return []syncTarget{{commands: global}, {guildID: devGuildID, commands: dev}}
	}
	return []syncTarget{{commands: global}}
}

func scope(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return "el servidor " + guildID
}
