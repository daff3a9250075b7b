// Package web provides the status API of the bot.
// It uses Gin framework for high-performance web handling.
package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/cooldown"
	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// Bot is what the status routes read from the Discord client
type Bot interface {
	IsReady() bool
	GuildCount() int
	Uptime() time.Duration
	DatabaseStatus(ctx context.Context) (string, bool)
}

// CommandSource lists the registered commands
type CommandSource interface {
	Commands() []*discord.Command
}

// Options configures the server
type Options struct {
	Bot      Bot
	Commands CommandSource
	Version  string
	// WebhookURL receives a log embed per request; empty disables it
	WebhookURL string
	// AllowedHosts is a regular expression matched against the Host header;
	// empty accepts every host
	AllowedHosts string
	// RateLimit requests per RateWindow and client IP
	RateLimit  int
	RateWindow time.Duration
}

// Server represents the web server
type Server struct {
	engine       *gin.Engine
	opts         Options
	allowedHosts *regexp.Regexp
	limiter      *cooldown.Limiter
	http         *http.Client
	srv          *http.Server
}

// NewServer creates the server and mounts the API routes
func NewServer(opts Options) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	if opts.RateLimit <= 0 {
		opts.RateLimit = 100
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}

	s := &Server{
		engine:  gin.New(),
		opts:    opts,
		limiter: cooldown.Window(opts.RateLimit, opts.RateWindow),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
	if opts.AllowedHosts != "" {
		re, err := regexp.Compile(opts.AllowedHosts)
		if err != nil {
			return nil, fmt.Errorf("allowed hosts: %w", err)
		}
		s.allowedHosts = re
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())
	s.setupErrorHandlers()
	s.setupAPIRoutes()

	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs every request and rejects foreign hosts
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.allowedHosts != nil && !s.allowedHosts.MatchString(c.Request.Host) {
			logger.Warn(fmt.Sprintf("[LOG] Solicitud Sospechosa: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
			s.logRequest(c, true)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		logger.Debug(fmt.Sprintf("[LOG] Nueva solicitud: %s %s", c.Request.Method, c.Request.URL.Path), "WebServer")
		s.logRequest(c, false)
		c.Next()
	}
}

func (s *Server) logRequest(c *gin.Context, suspicious bool) {
	if s.opts.WebhookURL == "" {
		return
	}
	go s.sendLogToWebhook(requestLog(c), suspicious)
}

type requestInfo struct {
	Method  string
	Path    string
	IP      string
	Headers http.Header
	Query   string
}

// requestLog copies what the webhook needs before the context is recycled
func requestLog(c *gin.Context) requestInfo {
	return requestInfo{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		IP:      c.ClientIP(),
		Headers: c.Request.Header.Clone(),
		Query:   c.Request.URL.RawQuery,
	}
}

// sendLogToWebhook posts a request log embed to the logs webhook
func (s *Server) sendLogToWebhook(r requestInfo, suspicious bool) {
	payload, err := webhookPayload(r, suspicious, time.Now())
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, s.opts.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}

func webhookPayload(r requestInfo, suspicious bool, at time.Time) ([]byte, error) {
	title := fmt.Sprintf("💫 | Nueva solicitud al servidor web de tipo %s", r.Method)
	color := 0x00AE86
	if suspicious {
		title = fmt.Sprintf("💫 | Solicitud Sospechosa Rechazada: %s %s", r.Method, r.Path)
		color = 0xFFA500
	}

	headers, _ := json.Marshal(r.Headers)
	query := r.Query
	if query == "" {
		query = "{}"
	}

	return json.Marshal(map[string]interface{}{
		"embeds": []interface{}{map[string]interface{}{
			"title": title,
			"description": fmt.Sprintf(
				"> **Ruta:** `%s`\n> **IP:** `%s`\n> **Headers:** ```%s``` \n> **Query:** ```%s```",
				r.Path, r.IP, string(headers), query,
			),
			"color":     color,
			"timestamp": at.Format(time.RFC3339),
		}},
	})
}

// rateLimitMiddleware limits requests per client IP
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAt := s.limiter.Allow(c.ClientIP())
		if !ok {
			retry := int(time.Until(retryAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
			})
			return
		}
		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.HandleMethodNotAllowed = true

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  http.StatusNotFound,
		})
	})

	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  http.StatusMethodNotAllowed,
		})
	})
}

func (s *Server) listener(port string) *http.Server {
	s.srv = &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost:%s", port), "WebServer")
	return s.srv
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Start serves on port until Shutdown
func (s *Server) Start(port string) error {
	return serve(s.listener(port))
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	srv := s.listener(port)
	go func() {
		if err := serve(srv); err != nil {
			logger.Error(fmt.Sprintf("Error iniciando el servidor web: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops accepting requests and waits for the active ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
