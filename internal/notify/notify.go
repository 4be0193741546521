// Package notify delivers user-facing notifications raised by the hero store
// to whoever is listening: push feeds, logs, or both.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/joestump/superheroes/internal/heroes"
)

const (
	DefaultAction   = "close"
	DefaultDuration = 4 * time.Second
)

// Notification is one message for the user, shown for Duration with a
// dismiss Action.
type Notification struct {
	Code     heroes.Code   `json:"code,omitempty"`
	Message  string        `json:"message"`
	Action   string        `json:"action"`
	Duration time.Duration `json:"-"`
	At       time.Time     `json:"at"`
}

// MarshalJSON renders Duration as whole milliseconds under duration_ms.
func (n Notification) MarshalJSON() ([]byte, error) {
	type plain Notification
	return json.Marshal(struct {
		plain
		DurationMS int64 `json:"duration_ms"`
	}{plain(n), n.Duration.Milliseconds()})
}

// Notifier receives notifications. Implementations must not block for long:
// the store calls Notify synchronously after every error change.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Nop discards every notification.
var Nop Notifier = NotifierFunc(func(Notification) {})

// Multi fans a notification out to each notifier in order.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, x := range m {
		x.Notify(n)
	}
}

// LogNotifier writes every notification to a zap logger at warn level.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.Named("notify")}
}

func (l *LogNotifier) Notify(n Notification) {
	l.log.Warn(n.Message, zap.String("code", string(n.Code)), zap.Duration("duration", n.Duration))
}

// Hub broadcasts notifications to any number of subscribers. A subscriber
// that falls behind loses notifications rather than stalling the sender.
type Hub struct {
	mu       sync.Mutex
	subs     map[chan Notification]struct{}
	duration time.Duration
	closed   bool
}

// NewHub returns a Hub stamping notifications without a duration with
// duration (DefaultDuration when zero).
func NewHub(duration time.Duration) *Hub {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Hub{subs: make(map[chan Notification]struct{}), duration: duration}
}

// Subscribe registers a new listener. The returned cancel function
// unregisters it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan Notification, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Notification, buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

// Notify fills in defaults and delivers n to every subscriber without
// blocking.
func (h *Hub) Notify(n Notification) {
	if n.Action == "" {
		n.Action = DefaultAction
	}
	if n.Duration <= 0 {
		n.Duration = h.duration
	}
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribers reports the number of registered listeners.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close unregisters and closes every subscriber channel. Later Subscribe calls
// get an already-closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
	h.closed = true
}
