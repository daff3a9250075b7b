package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// commandInfo is the public description of a command
type commandInfo struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Aliases     []string `json:"aliases,omitempty"`
	Slash       bool     `json:"slash"`
	Text        bool     `json:"text"`
}

func (s *Server) setupAPIRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/health", s.healthHandler)
		api.GET("/status", s.statusHandler)
		api.GET("/commands", s.commandsHandler)
	}
}

// healthHandler returns a simple health check response
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "MaBot Go is running",
	})
}

// statusHandler returns the bot and database status
func (s *Server) statusHandler(c *gin.Context) {
	bot := gin.H{"isOnline": false}
	database := gin.H{"status": "🔴 | Desconectado", "isOnline": false}

	if s.opts.Bot != nil {
		bot = gin.H{
			"isOnline": s.opts.Bot.IsReady(),
			"guilds":   s.opts.Bot.GuildCount(),
			"uptime":   int64(s.opts.Bot.Uptime() / time.Second),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		status, online := s.opts.Bot.DatabaseStatus(ctx)
		cancel()
		database = gin.H{"status": status, "isOnline": online}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  s.opts.Version,
		"bot":      bot,
		"database": database,
	})
}

// commandsHandler lists the registered commands; dev commands are hidden
func (s *Server) commandsHandler(c *gin.Context) {
	if s.opts.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	list := make([]commandInfo, 0)
	for _, cmd := range s.opts.Commands.Commands() {
		if cmd.IsDev {
			continue
		}
		list = append(list, commandInfo{
			Name:        cmd.Name,
			Path:        cmd.Path(),
			Description: cmd.Description,
			Category:    cmd.Category,
			Aliases:     cmd.Aliases,
			Slash:       cmd.IsSlash(),
			Text:        cmd.IsText(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"count": len(list), "commands": list})
}
