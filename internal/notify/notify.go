package notify

import (
	"sync"
	"time"
)

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

type Toast struct {
	ID       int
	Text     string
	Severity Severity
	TTL      time.Duration
}

// Center is an ephemeral, auto-expiring message queue. Toast ids are a
// counter scoped to the current process, never persisted.
type Center struct {
	mu     sync.Mutex
	nextID int
	toasts []Toast
	timers map[int]*time.Timer
	authed func() bool
	sink   func(Toast)
}

type Option func(*Center)

// WithAuthCheck wires the session predicate used to drop auth-gated
// messages while no session is active.
func WithAuthCheck(authed func() bool) Option {
	return func(c *Center) { c.authed = authed }
}

// WithSink registers a callback invoked for every accepted toast, so a view
// layer can render them as they arrive.
func WithSink(sink func(Toast)) Option {
	return func(c *Center) { c.sink = sink }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{timers: make(map[int]*time.Timer)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type addOptions struct {
	requiresAuth bool
}

type AddOption func(*addOptions)

// RequiresAuth marks a message as feedback for an authenticated action.
// When no session is active the message is dropped instead of shown, so a
// blocked action can never produce success feedback.
func RequiresAuth() AddOption {
	return func(o *addOptions) { o.requiresAuth = true }
}

// Add queues a toast and returns its id, or 0 when it was dropped. A ttl of
// zero means the toast never expires on its own.
func (c *Center) Add(text string, severity Severity, ttl time.Duration, opts ...AddOption) int {
	var ao addOptions
	for _, opt := range opts {
		opt(&ao)
	}
	if ao.requiresAuth && (c.authed == nil || !c.authed()) {
		return 0
	}

	c.mu.Lock()
	c.nextID++
	t := Toast{ID: c.nextID, Text: text, Severity: severity, TTL: ttl}
	c.toasts = append(c.toasts, t)
	if ttl > 0 {
		id := t.ID
		c.timers[id] = time.AfterFunc(ttl, func() { c.Remove(id) })
	}
	sink := c.sink
	c.mu.Unlock()

	if sink != nil {
		sink(t)
	}
	return t.ID
}

// Remove drops the toast with the given id. Removing an unknown id is a
// no-op.
func (c *Center) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.toasts = kept
}

// Toasts returns a snapshot of the pending queue.
func (c *Center) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

const defaultTTL = 3 * time.Second

// Shortcuts with the default ttl, mirroring success/error/warning/info use.

func (c *Center) Ok(text string, opts ...AddOption) int {
	return c.Add(text, Success, defaultTTL, opts...)
}

func (c *Center) Fail(text string, opts ...AddOption) int {
	return c.Add(text, Error, defaultTTL, opts...)
}

func (c *Center) Warn(text string, opts ...AddOption) int {
	return c.Add(text, Warning, defaultTTL, opts...)
}

func (c *Center) Note(text string, opts ...AddOption) int {
	return c.Add(text, Info, defaultTTL, opts...)
}
