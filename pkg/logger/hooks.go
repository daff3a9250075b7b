package logger

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

// entryLevel extracts the bot level stored on a logrus entry
func entryLevel(e *logrus.Entry) LogLevel {
	if lvl, ok := e.Data[fieldLevel].(LogLevel); ok {
		return lvl
	}
	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return LevelCritical
	case logrus.ErrorLevel:
		return LevelError
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug
	default:
		return LevelInfo
	}
}

func entryPrefix(e *logrus.Entry) string {
	if p, ok := e.Data[fieldPrefix].(string); ok {
		return p
	}
	return "-"
}

// plainLine renders an entry without colors, as written to the log files
func plainLine(e *logrus.Entry) string {
	return fmt.Sprintf("[%s] [%s] [%s]: %s\n",
		e.Time.Format(timestampFormat),
		entryLevel(e).String(),
		entryPrefix(e),
		e.Message,
	)
}

// consoleFormatter prints "[time] [LEVEL] [prefix]: message" with a colored level
type consoleFormatter struct{}

func (f *consoleFormatter) Format(e *logrus.Entry) ([]byte, error) {
	lvl := entryLevel(e)
	line := fmt.Sprintf("[%s] [%s] [%s]: %s\n",
		e.Time.Format(timestampFormat),
		lvl.Color().Sprint(lvl.String()),
		entryPrefix(e),
		e.Message,
	)
	return []byte(line), nil
}

// fileHook appends every entry to combined.log and errors to error.log
type fileHook struct {
	mu       sync.Mutex
	combined *os.File
	errors   *os.File
}

func newFileHook(dir string) (*fileHook, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	combined, err := os.OpenFile(filepath.Join(dir, "combined.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	errFile, err := os.OpenFile(filepath.Join(dir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		combined.Close()
		return nil, err
	}

	return &fileHook{combined: combined, errors: errFile}, nil
}

func (h *fileHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fileHook) Fire(e *logrus.Entry) error {
	line := plainLine(e)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.combined.WriteString(line); err != nil {
		return err
	}
	if entryLevel(e) <= LevelError {
		if _, err := h.errors.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

func (h *fileHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.combined.Close()
	h.errors.Close()
}

// webhookHook forwards entries to the Discord error/logs webhooks
type webhookHook struct {
	errorURL string
	logsURL  string
	client   *http.Client
}

func newWebhookHook(errorURL, logsURL string) *webhookHook {
	return &webhookHook{
		errorURL: errorURL,
		logsURL:  logsURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *webhookHook) enabled() bool {
	return h.errorURL != "" || h.logsURL != ""
}

// target picks the webhook for a level; empty means skip
func (h *webhookHook) target(level LogLevel) string {
	if level <= LevelError {
		return h.errorURL
	}
	return h.logsURL
}

func (h *webhookHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *webhookHook) Fire(e *logrus.Entry) error {
	level := entryLevel(e)
	url := h.target(level)
	if url == "" {
		return nil
	}

	payload, err := webhookPayload(level, entryPrefix(e), e.Message, e.Time)
	if err != nil {
		return err
	}

	go h.post(url, payload)
	return nil
}

func webhookPayload(level LogLevel, prefix, message string, at time.Time) ([]byte, error) {
	embed := map[string]interface{}{
		"title":       fmt.Sprintf("[%s] %s", level.String(), prefix),
		"description": fmt.Sprintf("```%s```", message),
		"color":       level.DiscordColor(),
		"timestamp":   at.Format(time.RFC3339),
		"footer": map[string]string{
			"text": "💫 Developed by PancyStudio | MaBot Go",
		},
	}

	return json.Marshal(map[string]interface{}{
		"embeds": []interface{}{embed},
	})
}

func (h *webhookHook) post(url string, payload []byte) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
