package datasource

import (
	"context"
	"sync"

	"github.com/joestump/superheroes/internal/heroes"
)

// Faulty wraps a Source and rejects selected operations with a configured
// error until the fault is cleared.
type Faulty struct {
	next Source

	mu     sync.RWMutex
	faults map[Op]error
}

// NewFaulty wraps next with no faults armed.
func NewFaulty(next Source) *Faulty {
	return &Faulty{next: next, faults: make(map[Op]error)}
}

// Fail makes every subsequent call to op return err.
func (f *Faulty) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[op] = err
}

// Clear disarms the fault on op.
func (f *Faulty) Clear(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.faults, op)
}

func (f *Faulty) fault(op Op) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.faults[op]
}

func (f *Faulty) GetAll(ctx context.Context) ([]heroes.Hero, error) {
	if err := f.fault(OpGetAll); err != nil {
		return nil, err
	}
	return f.next.GetAll(ctx)
}

func (f *Faulty) Create(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	if err := f.fault(OpCreate); err != nil {
		return heroes.Hero{}, err
	}
	return f.next.Create(ctx, hero)
}

func (f *Faulty) Update(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	if err := f.fault(OpUpdate); err != nil {
		return heroes.Hero{}, err
	}
	return f.next.Update(ctx, hero)
}

func (f *Faulty) Delete(ctx context.Context, id int) (int, error) {
	if err := f.fault(OpDelete); err != nil {
		return 0, err
	}
	return f.next.Delete(ctx, id)
}

func (f *Faulty) FindByName(ctx context.Context, name string) ([]heroes.Hero, error) {
	if err := f.fault(OpFindByName); err != nil {
		return nil, err
	}
	return f.next.FindByName(ctx, name)
}

func (f *Faulty) GetMockHeroes(ctx context.Context) ([]heroes.Hero, error) {
	if err := f.fault(OpGetMockHeroes); err != nil {
		return nil, err
	}
	return f.next.GetMockHeroes(ctx)
}
