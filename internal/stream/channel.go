// Package stream maintains the live notification channel: one long-lived
// server-push connection per session, with a bounded reconnect policy and a
// publish/subscribe fan-out to independent UI listeners.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/locvowork/employee_admin_console/internal/domain"
	"github.com/locvowork/employee_admin_console/internal/logger"
	"github.com/locvowork/employee_admin_console/internal/toast"
)

// State is the channel's connection state.
type State int

const (
	// Disconnected: no connection; a reconnect may be pending.
	Disconnected State = iota
	// Connecting: an open attempt is in flight.
	Connecting
	// Open: the stream is live.
	Open
	// Closed: explicitly disconnected; only Connect() leaves this state.
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "disconnected"
	}
}

const (
	// DefaultReconnectDelay is the fixed wait before one reconnect attempt.
	DefaultReconnectDelay = 3 * time.Second
	// DefaultMaxReconnectAttempts bounds consecutive failed attempts. Past
	// it the channel stays disconnected until an explicit Connect call.
	DefaultMaxReconnectAttempts = 5
)

// ErrNoToken is returned when Connect is called without a stored token.
var ErrNoToken = errors.New("no authentication token found")

// TokenProvider supplies the token at connect time.
type TokenProvider interface {
	Token() string
}

// Channel is the process-wide push channel. Its lifecycle is tied to the
// authenticated session: opened after login, closed on logout or teardown.
type Channel struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	toasts  toast.Emitter

	reconnectDelay time.Duration
	maxAttempts    int

	mu             sync.Mutex
	state          State
	attempts       int
	gen            uint64
	cancel         context.CancelFunc
	reconnectTimer *time.Timer

	listeners    map[int]func()
	nextListener int
}

// Option customizes a channel at construction.
type Option func(*Channel)

// WithReconnectDelay overrides the fixed reconnect delay.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *Channel) { c.reconnectDelay = d }
}

// WithMaxReconnectAttempts overrides the consecutive-attempt bound.
func WithMaxReconnectAttempts(n int) Option {
	return func(c *Channel) { c.maxAttempts = n }
}

// NewChannel builds a disconnected channel. httpClient must not carry a
// request timeout; the stream is meant to stay open indefinitely.
func NewChannel(baseURL string, httpClient *http.Client, tokens TokenProvider, toasts toast.Emitter, opts ...Option) *Channel {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := &Channel{
		baseURL:        baseURL,
		http:           httpClient,
		tokens:         tokens,
		toasts:         toasts,
		reconnectDelay: DefaultReconnectDelay,
		maxAttempts:    DefaultMaxReconnectAttempts,
		listeners:      make(map[int]func()),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ==================== SUBSCRIPTIONS ====================

// OnUnreadCountChange registers a listener invoked whenever a push event may
// have changed the unread count. The returned cancel removes exactly this
// registration, leaving other registrations of the same function alone.
func (c *Channel) OnUnreadCountChange(fn func()) (cancel func()) {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// emitUnreadCountChange fans the signal out to every registered listener.
func (c *Channel) emitUnreadCountChange() {
	c.mu.Lock()
	snapshot := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		snapshot = append(snapshot, fn)
	}
	c.mu.Unlock()

	for _, fn := range snapshot {
		fn()
	}
}

// ==================== CONNECTION LIFECYCLE ====================

// Connect opens the push stream. It refuses to open without a token and
// guards against duplicate opens while a connection is open or in flight.
func (c *Channel) Connect() error {
	c.mu.Lock()
	if c.state == Connecting || c.state == Open {
		c.mu.Unlock()
		return nil
	}

	token := c.tokens.Token()
	if token == "" {
		c.mu.Unlock()
		logger.ErrorLog(context.Background(), "No authentication token found for notification stream")
		return ErrNoToken
	}

	c.state = Connecting
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(ctx, gen, token)
	return nil
}

// Disconnect tears the channel down: the stream is closed, any pending
// reconnect timer is cancelled and the attempt counter resets.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++ // invalidate any live reader
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	c.attempts = 0
	c.state = Closed
}

// State returns the connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected reports whether the stream is open.
func (c *Channel) IsConnected() bool {
	return c.State() == Open
}

// ReconnectAttempts returns the consecutive failed-attempt count.
func (c *Channel) ReconnectAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

func (c *Channel) run(ctx context.Context, gen uint64, token string) {
	target := fmt.Sprintf("%s/notifications/subscribe?token=%s", c.baseURL, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.streamFailed(ctx, gen, err)
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		c.streamFailed(ctx, gen, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.streamFailed(ctx, gen, fmt.Errorf("subscribe returned status %d", resp.StatusCode))
		return
	}

	if !c.streamOpened(gen) {
		return // superseded while dialing
	}
	logger.InfoLog(ctx, "Notification stream opened")

	err = readEvents(resp.Body, func(payload string) {
		if !c.isCurrent(gen) {
			return
		}
		c.handleMessage(ctx, payload)
	})
	if err == nil {
		err = errors.New("stream ended")
	}
	c.streamFailed(ctx, gen, err)
}

// streamOpened flips to Open and resets the attempt counter. A successful
// open is what forgives previous failures.
func (c *Channel) streamOpened(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.state = Open
	c.attempts = 0
	return true
}

func (c *Channel) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

// streamFailed closes the dead connection and schedules a single reconnect
// after the fixed delay, up to the attempt bound. Exceeding the bound leaves
// the channel disconnected until the next explicit Connect.
func (c *Channel) streamFailed(ctx context.Context, gen uint64, cause error) {
	c.mu.Lock()
	if gen != c.gen {
		// A stale reader losing its connection is not an event.
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = Disconnected

	if c.attempts >= c.maxAttempts {
		c.mu.Unlock()
		logger.ErrorLog(ctx, "Notification stream gave up after %d attempts: %v", c.maxAttempts, cause)
		return
	}
	c.attempts++
	attempt, max := c.attempts, c.maxAttempts
	c.reconnectTimer = time.AfterFunc(c.reconnectDelay, func() {
		c.Connect()
	})
	c.mu.Unlock()

	logger.WarnLog(ctx, "Notification stream error, reconnecting (%d/%d): %v", attempt, max, cause)
}

// ==================== DISPATCH ====================

// handleMessage parses one inbound frame and dispatches it. Unparseable
// payloads are logged and discarded without affecting the connection.
func (c *Channel) handleMessage(ctx context.Context, payload string) {
	var event domain.PushEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		logger.ErrorLog(ctx, "Error parsing push event", err)
		return
	}
	c.dispatch(ctx, event)
}

// dispatch recognizes a closed set of event types. Both outcomes of a
// recognized event notify the unread-count subscribers, so badge state is
// reconciled with server truth either way.
func (c *Channel) dispatch(ctx context.Context, event domain.PushEvent) {
	switch event.Type {
	case domain.EventEmployeeCreated:
		switch {
		case event.Status == domain.PushStatusSuccess && event.Data != nil && event.Data.Employee != nil:
			c.toasts.Success(
				fmt.Sprintf("Employee %q created successfully!", event.Data.Employee.Name),
				"The employee has been added to the system.",
			)
			c.emitUnreadCountChange()
		case event.Status == domain.PushStatusError:
			description := event.Error
			if description == "" {
				description = "An error occurred while creating the employee."
			}
			c.toasts.Error("Employee creation failed", description)
			c.emitUnreadCountChange()
		}
	default:
		logger.InfoLog(ctx, "Unknown notification type: %s", event.Type)
	}
}
