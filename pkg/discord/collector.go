package discord

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// ErrCollectorTimeout is returned by AwaitModal when no submission arrives in time
var ErrCollectorTimeout = errors.New("collector timed out")

// EndReason says why a collector was torn down
type EndReason string

const (
	EndStopped EndReason = "stop"
	EndLimit   EndReason = "limit"
	EndTimeout EndReason = "time"
)

// CollectorOptions configures a Collector. At least one of CustomID,
// CustomIDPrefix or MessageID must be set; all set fields must match.
type CollectorOptions struct {
	CustomID       string
	CustomIDPrefix string
	MessageID      string
	// Filter rejects interactions the collector owns but should not collect
	Filter func(i *discordgo.InteractionCreate) bool
	// Max of 0 means unlimited
	Max       int
	Timeout   time.Duration
	OnCollect func(i *discordgo.InteractionCreate)
	OnEnd     func(reason EndReason, collected int)
}

// ComponentRouter hands button, select menu and modal interactions to the
// live collectors
type ComponentRouter struct {
	mu             sync.Mutex
	collectors     map[*Collector]struct{}
	defaultTimeout time.Duration
}

// NewComponentRouter creates a router; collectors without a timeout get
// defaultTimeout
func NewComponentRouter(defaultTimeout time.Duration) *ComponentRouter {
	return &ComponentRouter{
		collectors:     make(map[*Collector]struct{}),
		defaultTimeout: defaultTimeout,
	}
}

// Collect registers a collector. It lives until Stop, until Max interactions
// were collected or until the timeout elapses, whichever comes first.
func (r *ComponentRouter) Collect(opts CollectorOptions) *Collector {
	if opts.Timeout <= 0 {
		opts.Timeout = r.defaultTimeout
	}
	c := &Collector{
		router: r,
		opts:   opts,
		done:   make(chan struct{}),
	}

	r.mu.Lock()
	r.collectors[c] = struct{}{}
	r.mu.Unlock()

	c.mu.Lock()
	if opts.Timeout > 0 {
		c.timer = time.AfterFunc(opts.Timeout, func() { c.end(EndTimeout) })
	}
	c.mu.Unlock()
	return c
}

// Dispatch offers an interaction to the collectors and reports whether one
// of them collected it
func (r *ComponentRouter) Dispatch(i *discordgo.InteractionCreate) bool {
	r.mu.Lock()
	live := make([]*Collector, 0, len(r.collectors))
	for c := range r.collectors {
		live = append(live, c)
	}
	r.mu.Unlock()

	for _, c := range live {
		if c.offer(i) {
			return true
		}
	}
	return false
}

// Len returns the number of live collectors
func (r *ComponentRouter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.collectors)
}

func (r *ComponentRouter) remove(c *Collector) {
	r.mu.Lock()
	delete(r.collectors, c)
	r.mu.Unlock()
}

// AwaitModal waits for the submission of the modal customID by userID
func (r *ComponentRouter) AwaitModal(ctx context.Context, customID, userID string, timeout time.Duration) (*discordgo.InteractionCreate, error) {
	result := make(chan *discordgo.InteractionCreate, 1)
	c := r.Collect(CollectorOptions{
		CustomID: customID,
		Filter: func(i *discordgo.InteractionCreate) bool {
			u := InteractionUser(i)
			return i.Type == discordgo.InteractionModalSubmit && u != nil && u.ID == userID
		},
		Max:       1,
		Timeout:   timeout,
		OnCollect: func(i *discordgo.InteractionCreate) { result <- i },
	})

	select {
	case i := <-result:
		return i, nil
	case <-c.Done():
		select {
		case i := <-result:
			return i, nil
		default:
			return nil, ErrCollectorTimeout
		}
	case <-ctx.Done():
		c.Stop()
		return nil, ctx.Err()
	}
}

// Collector receives the component interactions it owns until it ends
type Collector struct {
	router *ComponentRouter
	opts   CollectorOptions

	mu        sync.Mutex
	collected int
	// inflight counts OnCollect calls still running; teardown waits for them
	inflight int
	ended    bool
	reason   EndReason
	timer    *time.Timer

	finishOnce sync.Once
	done       chan struct{}
}

// Stop ends the collector; calling it again has no effect
func (c *Collector) Stop() {
	c.end(EndStopped)
}

// Done is closed once the collector ended
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

// Reason returns why the collector ended, "" while it is live
func (c *Collector) Reason() EndReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Collected returns the number of interactions delivered
func (c *Collector) Collected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collected
}

func (c *Collector) owns(i *discordgo.InteractionCreate) bool {
	if c.opts.CustomID == "" && c.opts.CustomIDPrefix == "" && c.opts.MessageID == "" {
		return false
	}
	if c.opts.MessageID != "" && (i.Message == nil || i.Message.ID != c.opts.MessageID) {
		return false
	}
	id := InteractionCustomID(i)
	if c.opts.CustomID != "" && id != c.opts.CustomID {
		return false
	}
	if c.opts.CustomIDPrefix != "" && !strings.HasPrefix(id, c.opts.CustomIDPrefix) {
		return false
	}
	return true
}

func (c *Collector) offer(i *discordgo.InteractionCreate) bool {
	if !c.owns(i) {
		return false
	}

	c.mu.Lock()
	if c.ended || (c.opts.Max > 0 && c.collected >= c.opts.Max) {
		c.mu.Unlock()
		return false
	}
	if c.opts.Filter != nil && !c.opts.Filter(i) {
		c.mu.Unlock()
		return false
	}
	c.collected++
	c.inflight++
	last := c.opts.Max > 0 && c.collected >= c.opts.Max
	if last {
		c.markEnded(EndLimit)
	}
	c.mu.Unlock()

	if c.opts.OnCollect != nil {
		c.opts.OnCollect(i)
	}

	c.mu.Lock()
	c.inflight--
	teardown := c.ended && c.inflight == 0
	c.mu.Unlock()
	if teardown {
		c.finish()
	}
	return true
}

// end stops collecting. Teardown runs now, or after the last running
// OnCollect returns, so OnEnd never overlaps an OnCollect.
func (c *Collector) end(reason EndReason) {
	c.mu.Lock()
	if c.ended {
		c.mu.Unlock()
		return
	}
	c.markEnded(reason)
	teardown := c.inflight == 0
	c.mu.Unlock()
	if teardown {
		c.finish()
	}
}

// markEnded must be called with c.mu held
func (c *Collector) markEnded(reason EndReason) {
	c.ended = true
	c.reason = reason
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Collector) finish() {
	c.finishOnce.Do(func() {
		c.mu.Lock()
		reason, collected := c.reason, c.collected
		c.mu.Unlock()

		c.router.remove(c)
		close(c.done)

		if c.opts.OnEnd != nil {
			c.opts.OnEnd(reason, collected)
		}
	})
}

// InteractionCustomID returns the custom id of a component or modal
// interaction, "" for other types
func InteractionCustomID(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	}
	return ""
}

// NewCustomID returns a unique custom id starting with prefix
func NewCustomID(prefix string) string {
	return prefix + ":" + uuid.NewString()
}

// ModalValue returns the value of a text input of a submitted modal
func ModalValue(i *discordgo.InteractionCreate, customID string) string {
	if i == nil || i.Type != discordgo.InteractionModalSubmit {
		return ""
	}
	for _, row := range i.ModalSubmitData().Components {
		r, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range r.Components {
			if in, ok := c.(*discordgo.TextInput); ok && in.CustomID == customID {
				return in.Value
			}
		}
	}
	return ""
}
