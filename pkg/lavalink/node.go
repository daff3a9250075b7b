package lavalink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// ErrNodeUnavailable is returned while the node has no session
var ErrNodeUnavailable = errors.New("lavalink node unavailable")

// NodeConfig holds configuration for a Lavalink node
type NodeConfig struct {
	Name     string
	Host     string
	Port     string
	Password string
	Secure   bool
}

func (c NodeConfig) baseURL(scheme string) string {
	if c.Secure {
		scheme += "s"
	}
	return fmt.Sprintf("%s://%s:%s/v4", scheme, c.Host, c.Port)
}

// Node is a Lavalink v4 node: events arrive over the websocket, player
// updates and track loading go through the REST API
type Node struct {
	cfg     NodeConfig
	http    *http.Client
	retry   time.Duration
	onEvent func(raw []byte)

	mu        sync.RWMutex
	conn      *websocket.Conn
	sessionID string

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewNode creates a node; onEvent receives every websocket message
func NewNode(cfg NodeConfig, onEvent func(raw []byte)) *Node {
	return &Node{
		cfg:     cfg,
		http:    &http.Client{Timeout: 10 * time.Second},
		retry:   5 * time.Second,
		onEvent: onEvent,
		stop:    make(chan struct{}),
	}
}

// Connect keeps the websocket open in the background until Close
func (n *Node) Connect(userID string) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for {
			if err := n.run(userID); err != nil {
				logger.Warn(fmt.Sprintf("Lavalink %s: %v. Reintentando...", n.cfg.Name, err), "Lavalink")
			}
			select {
			case <-n.stop:
				return
			case <-time.After(n.retry):
			}
		}
	}()
}

func (n *Node) run(userID string) error {
	headers := http.Header{}
	headers.Set("Authorization", n.cfg.Password)
	headers.Set("User-Id", userID)
	headers.Set("Client-Name", "MaBot-Go/1.0")

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(n.cfg.baseURL("ws")+"/websocket", headers)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.conn = conn
	n.mu.Unlock()
	logger.Success(fmt.Sprintf("Conectado con Lavalink server: %s", n.cfg.Name), "Lavalink")

	closed := make(chan struct{})
	defer close(closed)
	go func() {
		select {
		case <-n.stop:
			_ = conn.Close()
		case <-closed:
		}
	}()

	defer func() {
		n.mu.Lock()
		n.conn = nil
		n.sessionID = ""
		n.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-n.stop:
				return nil
			default:
				return err
			}
		}
		n.observe(raw)
		if n.onEvent != nil {
			n.onEvent(raw)
		}
	}
}

// observe keeps the session id announced by the ready op
func (n *Node) observe(raw []byte) {
	var msg struct {
		Op        string `json:"op"`
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Op != "ready" {
		return
	}
	n.mu.Lock()
	n.sessionID = msg.SessionID
	n.mu.Unlock()
}

// Ready reports whether the node has an open session
func (n *Node) Ready() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sessionID != ""
}

// Close stops the node
func (n *Node) Close() {
	n.stopOnce.Do(func() { close(n.stop) })
	n.wg.Wait()
}

// LoadTracks resolves an identifier ("ytsearch:...", a URL) into tracks
func (n *Node) LoadTracks(ctx context.Context, identifier string) (*LoadResult, error) {
	endpoint := n.cfg.baseURL("http") + "/loadtracks?identifier=" + url.QueryEscape(identifier)
	var result LoadResult
	if err := n.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdatePlayer patches the player of a guild
func (n *Node) UpdatePlayer(ctx context.Context, guildID string, update PlayerUpdate) error {
	endpoint, err := n.playerURL(guildID)
	if err != nil {
		return err
	}
	body, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return n.do(ctx, http.MethodPatch, endpoint, body, nil)
}

// DestroyPlayer removes the player of a guild from the node
func (n *Node) DestroyPlayer(ctx context.Context, guildID string) error {
	endpoint, err := n.playerURL(guildID)
	if err != nil {
		return err
	}
	return n.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (n *Node) playerURL(guildID string) (string, error) {
	n.mu.RLock()
	session := n.sessionID
	n.mu.RUnlock()
	if session == "" {
		return "", ErrNodeUnavailable
	}
	return fmt.Sprintf("%s/sessions/%s/players/%s", n.cfg.baseURL("http"), session, guildID), nil
}

func (n *Node) do(ctx context.Context, method, endpoint string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", n.cfg.Password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("lavalink %s %s: %d %s", method, endpoint, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
