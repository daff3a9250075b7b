package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct{}

func (fakeBot) IsReady() bool         { return true }
func (fakeBot) GuildCount() int       { return 3 }
func (fakeBot) Uptime() time.Duration { return 90 * time.Second }
func (fakeBot) DatabaseStatus(context.Context) (string, bool) {
	return "🟢 | Conectado", true
}

func testRegistry(t *testing.T) *discord.Registry {
	t.Helper()
	noop := func(*discord.CommandContext) error { return nil }
	reg, err := discord.NewBuilder().
		Add(discord.NewCommand("ping", "Latencia", "utils", noop)).
		Add(discord.NewCommand("eval", "Eval", "dev", noop).AsDev()).
		Build()
	require.NoError(t, err)
	return reg
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, err := NewServer(opts)
	require.NoError(t, err)
	return s
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{})
	w := get(s, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, Options{Bot: fakeBot{}, Version: "1.2.3"})
	w := get(s, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Version string `json:"version"`
		Bot     struct {
			IsOnline bool  `json:"isOnline"`
			Guilds   int   `json:"guilds"`
			Uptime   int64 `json:"uptime"`
		} `json:"bot"`
		Database struct {
			IsOnline bool `json:"isOnline"`
		} `json:"database"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1.2.3", body.Version)
	assert.True(t, body.Bot.IsOnline)
	assert.Equal(t, 3, body.Bot.Guilds)
	assert.Equal(t, int64(90), body.Bot.Uptime)
	assert.True(t, body.Database.IsOnline)
}

func TestStatusWithoutBot(t *testing.T) {
	s := newTestServer(t, Options{})
	w := get(s, "/api/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isOnline":false`)
}

func TestCommandsHidesDev(t *testing.T) {
	s := newTestServer(t, Options{Commands: testRegistry(t)})
	w := get(s, "/api/commands")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count    int           `json:"count"`
		Commands []commandInfo `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "ping", body.Commands[0].Path)
	assert.True(t, body.Commands[0].Slash)
	assert.False(t, body.Commands[0].Text)
}

func TestCommandsUnavailable(t *testing.T) {
	s := newTestServer(t, Options{})
	assert.Equal(t, http.StatusServiceUnavailable, get(s, "/api/commands").Code)
}

func TestNotFoundAndMethod(t *testing.T) {
	s := newTestServer(t, Options{})
	assert.Equal(t, http.StatusNotFound, get(s, "/nope").Code)

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimit: 2, RateWindow: time.Hour})

	assert.Equal(t, http.StatusOK, get(s, "/api/health").Code)
	assert.Equal(t, http.StatusOK, get(s, "/api/health").Code)

	w := get(s, "/api/health")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestAllowedHosts(t *testing.T) {
	s := newTestServer(t, Options{AllowedHosts: `^(.+\.)?mabot\.dev$`})

	assert.Equal(t, http.StatusForbidden, get(s, "/api/health").Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "api.mabot.dev"
	s.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidAllowedHosts(t *testing.T) {
	_, err := NewServer(Options{AllowedHosts: "("})
	assert.Error(t, err)
}

func TestWebhookPayload(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	raw, err := webhookPayload(requestInfo{Method: "GET", Path: "/x", IP: "1.2.3.4"}, true, at)
	require.NoError(t, err)

	var body struct {
		Embeds []struct {
			Title     string `json:"title"`
			Color     int    `json:"color"`
			Timestamp string `json:"timestamp"`
		} `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Embeds, 1)
	assert.Contains(t, body.Embeds[0].Title, "Sospechosa")
	assert.Equal(t, 0xFFA500, body.Embeds[0].Color)
	assert.Equal(t, "2024-01-02T03:04:05Z", body.Embeds[0].Timestamp)
}
