package discord

import (
	"sync"

	"github.com/PancyStudios/MaBotGo/pkg/errors"
	"github.com/PancyStudios/MaBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// EventHandler keeps track of the gateway handlers added to the session
type EventHandler struct {
	client  *ExtendedClient
	mu      sync.Mutex
	names   []string
	removes []func()
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{client: client}
}

// Client returns the client the handlers belong to
func (eh *EventHandler) Client() *ExtendedClient {
	return eh.client
}

// RegisterEvent adds a raw discordgo handler to the session
func (eh *EventHandler) RegisterEvent(name string, handler interface{}) {
	remove := eh.client.Session.AddHandler(handler)

	eh.mu.Lock()
	eh.names = append(eh.names, name)
	eh.removes = append(eh.removes, remove)
	eh.mu.Unlock()

	logger.Debug("Evento '"+name+"' registrado", "EventHandler")
}

// Registered returns the names of the registered events
func (eh *EventHandler) Registered() []string {
	eh.mu.Lock()
	defer eh.mu.Unlock()
	return append([]string(nil), eh.names...)
}

// RemoveAll detaches every registered handler
func (eh *EventHandler) RemoveAll() {
	eh.mu.Lock()
	removes := eh.removes
	eh.removes, eh.names = nil, nil
	eh.mu.Unlock()

	for _, remove := range removes {
		remove()
	}
}

// On registers a typed handler that recovers from panics. T must be one of
// the discordgo event pointer types (*discordgo.MessageCreate, ...).
func On[T any](eh *EventHandler, name string, fn func(*discordgo.Session, T)) {
	eh.RegisterEvent(name, func(s *discordgo.Session, ev T) {
		defer errors.RecoverMiddleware()()
		fn(s, ev)
	})
}
