// Package confirm implements two-step confirmation: a destructive or
// state-changing request first yields a Ticket describing what is about to
// happen, and runs only when the ticket is resolved as confirmed.
package confirm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joestump/superheroes/internal/metrics"
)

const (
	DefaultTTL         = 2 * time.Minute
	DefaultConfirmText = "Confirm"
	DefaultCancelText  = "Cancel"
)

// ErrUnknownTicket is returned when resolving a ticket that was never issued,
// was already resolved, or has expired.
var ErrUnknownTicket = errors.New("unknown or expired confirmation ticket")

// Prompt is what the user is asked before the action runs.
type Prompt struct {
	Title       string `json:"title"`
	Message     string `json:"message"`
	ConfirmText string `json:"confirm_text"`
	CancelText  string `json:"cancel_text"`
}

var (
	CreatePrompt = Prompt{
		Title:       "Create hero",
		Message:     "Are you sure you want to create this hero?",
		ConfirmText: "Create",
		CancelText:  "Cancel",
	}
	UpdatePrompt = Prompt{
		Title:       "Update hero",
		Message:     "Are you sure you want to update this hero?",
		ConfirmText: "Save",
		CancelText:  "Cancel",
	}
	DeletePrompt = Prompt{
		Title:       "Delete hero",
		Message:     "Are you sure you want to delete this hero?",
		ConfirmText: "Delete",
		CancelText:  "Cancel",
	}
)

// Continuation is the action a ticket guards.
type Continuation func(ctx context.Context) (any, error)

// Ticket identifies a pending confirmation.
type Ticket struct {
	ID        string    `json:"ticket"`
	Prompt    Prompt    `json:"prompt"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Outcome reports how a ticket was resolved. Result is whatever the
// continuation returned; it is nil when the user declined.
type Outcome struct {
	Confirmed bool `json:"confirmed"`
	Result    any  `json:"result,omitempty"`
}

type pending struct {
	ticket Ticket
	run    Continuation
}

// Broker holds pending tickets. It is safe for concurrent use.
type Broker struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	pending map[string]pending
}

// NewBroker returns a Broker whose tickets live for ttl (DefaultTTL when
// non-positive).
func NewBroker(ttl time.Duration) *Broker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Broker{ttl: ttl, now: time.Now, pending: make(map[string]pending)}
}

// Request issues a ticket guarding run. Empty button labels get defaults.
func (b *Broker) Request(p Prompt, run Continuation) Ticket {
	if p.ConfirmText == "" {
		p.ConfirmText = DefaultConfirmText
	}
	if p.CancelText == "" {
		p.CancelText = DefaultCancelText
	}
	t := Ticket{ID: uuid.NewString(), Prompt: p, ExpiresAt: b.now().Add(b.ttl)}

	b.mu.Lock()
	b.pending[t.ID] = pending{ticket: t, run: run}
	b.mu.Unlock()

	metrics.ConfirmationsTotal.WithLabelValues("requested").Inc()
	return t
}

// Resolve consumes the ticket. When confirmed, the continuation runs with ctx
// and its result and error are returned; when declined, nothing runs.
func (b *Broker) Resolve(ctx context.Context, id string, confirmed bool) (Outcome, error) {
	b.mu.Lock()
	p, ok := b.pending[id]
	delete(b.pending, id)
	b.mu.Unlock()

	if !ok {
		return Outcome{}, ErrUnknownTicket
	}
	if b.now().After(p.ticket.ExpiresAt) {
		metrics.ConfirmationsTotal.WithLabelValues("expired").Inc()
		return Outcome{}, ErrUnknownTicket
	}
	if !confirmed {
		metrics.ConfirmationsTotal.WithLabelValues("declined").Inc()
		return Outcome{}, nil
	}

	metrics.ConfirmationsTotal.WithLabelValues("confirmed").Inc()
	res, err := p.run(ctx)
	if err != nil {
		return Outcome{Confirmed: true}, err
	}
	return Outcome{Confirmed: true, Result: res}, nil
}

// Pending returns the number of unresolved tickets, expired ones included
// until the next Sweep.
func (b *Broker) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Sweep drops expired tickets and returns how many it dropped.
func (b *Broker) Sweep() int {
	now := b.now()
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for id, p := range b.pending {
		if now.After(p.ticket.ExpiresAt) {
			delete(b.pending, id)
			n++
		}
	}
	if n > 0 {
		metrics.ConfirmationsTotal.WithLabelValues("expired").Add(float64(n))
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (b *Broker) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			b.Sweep()
		}
	}
}
