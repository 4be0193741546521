package datasource

import (
	"context"
	"time"

	"github.com/joestump/superheroes/internal/heroes"
)

// DefaultLatency is the simulated round-trip time of the mock backend.
const DefaultLatency = 300 * time.Millisecond

// Delayed wraps a Source and holds every call back by a fixed latency. A call
// whose context ends during the wait returns the context error without
// reaching the wrapped source.
type Delayed struct {
	next    Source
	latency time.Duration
}

// NewDelayed wraps next with the given latency. A non-positive latency only
// checks the context.
func NewDelayed(next Source, latency time.Duration) *Delayed {
	return &Delayed{next: next, latency: latency}
}

func (d *Delayed) wait(ctx context.Context) error {
	if d.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Delayed) GetAll(ctx context.Context) ([]heroes.Hero, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.next.GetAll(ctx)
}

func (d *Delayed) Create(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	if err := d.wait(ctx); err != nil {
		return heroes.Hero{}, err
	}
	return d.next.Create(ctx, hero)
}

func (d *Delayed) Update(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	if err := d.wait(ctx); err != nil {
		return heroes.Hero{}, err
	}
	return d.next.Update(ctx, hero)
}

func (d *Delayed) Delete(ctx context.Context, id int) (int, error) {
	if err := d.wait(ctx); err != nil {
		return 0, err
	}
	return d.next.Delete(ctx, id)
}

func (d *Delayed) FindByName(ctx context.Context, name string) ([]heroes.Hero, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.next.FindByName(ctx, name)
}

func (d *Delayed) GetMockHeroes(ctx context.Context) ([]heroes.Hero, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.next.GetMockHeroes(ctx)
}
