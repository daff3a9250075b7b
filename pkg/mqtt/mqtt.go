// Package mqtt publishes bot telemetry and answers request/response calls
// over an MQTT broker.
package mqtt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/logger"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	requestRoot  = "mabot/request/"
	responseRoot = "mabot/response/"
)

// ErrNotConnected is returned while the broker is unreachable
var ErrNotConnected = errors.New("mqtt not connected")

// Request is the envelope of a request message
type Request struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// Response is the envelope of a response message
type Response struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// RequestHandler answers a request; payload carries "_topic" with the
// request topic relative to the request root
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// Communicator handles MQTT communication
type Communicator struct {
	client   paho.Client
	clientID string

	mu       sync.RWMutex
	pending  map[string]chan Response
	handlers map[string]RequestHandler
}

var (
	communicator *Communicator
	once         sync.Once
)

// Init initializes the global communicator
func Init(host, port, username, password, clientID string) *Communicator {
	once.Do(func() {
		communicator = NewCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global communicator
func Get() *Communicator {
	return communicator
}

// NewCommunicator connects to the broker. Connection failures are logged and
// retried in the background by the client.
func NewCommunicator(host, port, username, password, clientID string) *Communicator {
	c := &Communicator{
		clientID: clientID,
		pending:  make(map[string]chan Response),
		handlers: make(map[string]RequestHandler),
	}

	opts := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(fmt.Sprintf("%s_%s", clientID, uuid.NewString())).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "MQTT")
			c.resubscribe()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}
	return c
}

// Destroy closes the connection
func (c *Communicator) Destroy() {
	if c.IsConnected() {
		c.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
		return
	}
	logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
}

// IsConnected reports whether the broker is reachable
func (c *Communicator) IsConnected() bool {
	return c != nil && c.client != nil && c.client.IsConnected()
}

// Publish sends payload as JSON without waiting for the broker
func (c *Communicator) Publish(topic string, payload interface{}) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	token := c.client.Publish(topic, 0, false, data)
	go func() {
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			logger.Debug(fmt.Sprintf("Publicación en %s fallida: %v", topic, token.Error()), "MQTT")
		}
	}()
	return nil
}

// Request publishes on mabot/request/<topic> and waits for the matching
// response on mabot/response/<topic>/<correlationId>
func (c *Communicator) Request(topic string, payload interface{}, timeout time.Duration) (interface{}, error) {
	if !c.IsConnected() {
		return nil, ErrNotConnected
	}

	correlationID := uuid.NewString()
	responseTopic := responseRoot + topic + "/" + correlationID
	ch := make(chan Response, 1)

	c.mu.Lock()
	c.pending[correlationID] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, correlationID)
		c.mu.Unlock()
		c.client.Unsubscribe(responseTopic)
	}()

	token := c.client.Subscribe(responseTopic, 0, func(_ paho.Client, msg paho.Message) {
		var resp Response
		if err := json.Unmarshal(msg.Payload(), &resp); err != nil {
			logger.Warn(fmt.Sprintf("Respuesta MQTT inválida: %v", err), "MQTT")
			return
		}
		c.deliver(resp)
	})
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	data, err := json.Marshal(Request{CorrelationID: correlationID, Payload: payload})
	if err != nil {
		return nil, err
	}
	if t := c.client.Publish(requestRoot+topic, 0, false, data); t.Wait() && t.Error() != nil {
		return nil, t.Error()
	}

	select {
	case resp := <-ch:
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return resp.Data, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("la petición a '%s' ha expirado (timeout)", topic)
	}
}

func (c *Communicator) deliver(resp Response) {
	c.mu.RLock()
	ch, ok := c.pending[resp.CorrelationID]
	c.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case ch <- resp:
	default:
	}
}

// On answers requests whose topic matches pattern ('+' and '#' wildcards)
func (c *Communicator) On(pattern string, handler RequestHandler) {
	c.mu.Lock()
	c.handlers[pattern] = handler
	c.mu.Unlock()

	if c.IsConnected() {
		c.subscribeRequests(pattern)
	}
}

func (c *Communicator) resubscribe() {
	c.mu.RLock()
	patterns := make([]string, 0, len(c.handlers))
	for p := range c.handlers {
		patterns = append(patterns, p)
	}
	c.mu.RUnlock()

	for _, p := range patterns {
		c.subscribeRequests(p)
	}
}

func (c *Communicator) subscribeRequests(pattern string) {
	topic := requestRoot + pattern
	token := c.client.Subscribe(topic, 0, func(_ paho.Client, msg paho.Message) {
		respTopic, body, ok := c.handleRequest(msg.Topic(), msg.Payload())
		if !ok {
			return
		}
		c.client.Publish(respTopic, 0, false, body)
	})
	if token.Wait() && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error al suscribirse a %s: %v", topic, token.Error()), "MQTT")
	}
}

// handleRequest runs the handler registered for a request topic and returns
// the response topic and body
func (c *Communicator) handleRequest(topic string, raw []byte) (string, []byte, bool) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Error(fmt.Sprintf("Error al leer la petición MQTT: %v", err), "MQTT")
		return "", nil, false
	}

	actual := strings.TrimPrefix(topic, requestRoot)
	handler := c.handlerFor(actual)
	if handler == nil {
		return "", nil, false
	}

	payload, ok := req.Payload.(map[string]interface{})
	if !ok {
		payload = make(map[string]interface{})
	}
	payload["_topic"] = actual

	resp := Response{CorrelationID: req.CorrelationID}
	if data, err := handler(payload); err != nil {
		resp.Error = err.Error()
	} else {
		resp.Data = data
	}

	body, err := json.Marshal(resp)
	if err != nil {
		logger.Error(fmt.Sprintf("Error al serializar la respuesta MQTT: %v", err), "MQTT")
		return "", nil, false
	}
	return responseRoot + actual + "/" + req.CorrelationID, body, true
}

func (c *Communicator) handlerFor(topic string) RequestHandler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if h, ok := c.handlers[topic]; ok {
		return h
	}
	for pattern, h := range c.handlers {
		if topicMatch(pattern, topic) {
			return h
		}
	}
	return nil
}

// Subscribe subscribes to a topic with a message handler
func (c *Communicator) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	token := c.client.Subscribe(topic, 0, func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	return token.Error()
}

// Unsubscribe unsubscribes from a topic
func (c *Communicator) Unsubscribe(topic string) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	token := c.client.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}

// topicMatch checks a topic against a pattern: '+' matches one level, '#'
// matches the remaining levels (including none) and must come last
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}
	return len(patternParts) == len(topicParts)
}
