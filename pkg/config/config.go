// Package config provides configuration management for the bot.
// It loads environment variables and the startup configuration file and makes
// them available throughout the application.
package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string
	DevGuildID string
	DevUserIDs []string

	// MongoDB
	MongoDBURL string
	DBName     string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Web Server
	Port              string
	AllowedHosts      string
	LogsWebServerHook string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook string
	LogsWebhook  string

	// Lavalink
	LinkServer   string
	LinkPort     string
	LinkPassword string

	// Startup file (prefix, palette, version)
	ConfigFile string
	File       *File
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgErr  error
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgErr = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		// Discord
		BotToken:   getEnv("botToken", ""),
		DevGuildID: getEnv("devGuildId", ""),
		DevUserIDs: splitList(getEnv("devUserIds", "")),

		// MongoDB
		MongoDBURL: getEnv("mongodbUrl", "mongodb://localhost:27017"),
		DBName:     getEnv("dbName", "MaBot"),

		// MQTT
		MQTTHost:     getEnv("MQTT_Host", "localhost"),
		MQTTPort:     getEnv("MQTT_Port", "1883"),
		MQTTUser:     getEnv("MQTT_User", ""),
		MQTTPassword: getEnv("MQTT_Password", ""),

		// Web Server
		Port:              getEnv("PORT", "3000"),
		AllowedHosts:      getEnv("allowedHosts", ""),
		LogsWebServerHook: getEnv("logsWebServerHook", ""),

		// Environment
		Environment: getEnv("enviroment", "dev"),

		// Webhooks
		ErrorWebhook: getEnv("errorWebhook", ""),
		LogsWebhook:  getEnv("logsWebhook", ""),

		// Lavalink
		LinkServer:   getEnv("linkserver", "localhost"),
		LinkPort:     getEnv("linkport", "2333"),
		LinkPassword: getEnv("linkpassword", ""),

		ConfigFile: getEnv("configFile", "config.yaml"),
	}

	cfg.File, cfgErr = LoadFile(cfg.ConfigFile)
	if cfg.File != nil && cfg.File.Version != "" && Version == "Dev-Local" {
		Version = cfg.File.Version
	}
}

// Load initializes the configuration from environment variables and the
// startup file. A missing startup file is not an error; a malformed one is.
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, cfgErr
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// IsDevUser reports whether userID belongs to a bot developer
func (c *Config) IsDevUser(userID string) bool {
	for _, id := range c.DevUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
