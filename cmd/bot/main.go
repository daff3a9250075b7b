// Package main is the entry point for the MaBot Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/MaBotGo/internal/commands"
	"github.com/PancyStudios/MaBotGo/internal/events"
	"github.com/PancyStudios/MaBotGo/pkg/config"
	"github.com/PancyStudios/MaBotGo/pkg/database"
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/errors"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/PancyStudios/MaBotGo/pkg/mqtt"
	"github.com/PancyStudios/MaBotGo/pkg/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Iniciando MaBot Go %s...", config.Version), "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// a fatal error reported to the handler triggers the same shutdown as a signal
	errors.Init(cfg.ErrorWebhook, stop)

	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error conectando a la base de datos: %v", err), "Main")
		// the write queue keeps operations until the connection comes back
	}
	defer func() {
		if err := db.Disconnect(); err != nil {
			logger.Warn(fmt.Sprintf("Error cerrando la base de datos: %v", err), "Main")
		}
	}()

	mqttClientID := "mabot"
	if !cfg.IsProd() {
		mqttClientID = "mabot_canary"
	}
	mqttClient := mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)
	defer mqttClient.Destroy()

	client, err := discord.Init(discord.ClientOptions{
		Config:   cfg,
		Database: db,
		Services: database.NewServices(db),
		MQTT:     mqttClient,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el cliente de Discord: %v", err), "Main")
		os.Exit(1)
	}

	registry, err := commands.Build()
	if err != nil {
		logger.Critical(fmt.Sprintf("Error registrando comandos: %v", err), "Main")
		os.Exit(1)
	}

	events.RegisterAll(ctx, client)
	registerMQTTHandlers(mqttClient, client)

	webServer, err := web.NewServer(web.Options{
		Bot:          client,
		Commands:     registry,
		Version:      config.Version,
		WebhookURL:   cfg.LogsWebServerHook,
		AllowedHosts: cfg.AllowedHosts,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}
	webServer.StartAsync(cfg.Port)

	if err := client.Start(registry); err != nil {
		logger.Critical(fmt.Sprintf("Error iniciando el cliente de Discord: %v", err), "Main")
		os.Exit(1)
	}
	logger.Success("MaBot Go iniciado correctamente!", "Main")

	<-ctx.Done()
	logger.System("Apagando MaBot Go...", "Main")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn(fmt.Sprintf("Error cerrando el servidor web: %v", err), "Main")
	}
	client.EventHandler.RemoveAll()
	if err := client.Stop(); err != nil {
		logger.Warn(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
	}
}

// registerMQTTHandlers answers the dashboard requests
func registerMQTTHandlers(c *mqtt.Communicator, client *discord.ExtendedClient) {
	c.On("bot/status", func(map[string]interface{}) (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		dbStatus, dbOnline := client.DatabaseStatus(ctx)
		return map[string]interface{}{
			"ready":    client.IsReady(),
			"guilds":   client.GuildCount(),
			"members":  client.MemberCount(),
			"uptime":   int64(client.Uptime() / time.Second),
			"latency":  client.Latency().Milliseconds(),
			"database": map[string]interface{}{"status": dbStatus, "isOnline": dbOnline},
			"version":  config.Version,
		}, nil
	})
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
