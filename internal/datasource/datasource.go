// Package datasource provides the backends the hero store calls for each
// operation. A source resolves or rejects after some latency; its payloads
// are never authoritative, the store keeps its own copy of every hero.
package datasource

import (
	"context"

	"github.com/joestump/superheroes/internal/heroes"
)

// Op names a data source operation. It labels metrics, faults, and logs.
type Op string

const (
	OpGetAll        Op = "get_all"
	OpCreate        Op = "create"
	OpUpdate        Op = "update"
	OpDelete        Op = "delete"
	OpFindByName    Op = "find_by_name"
	OpGetMockHeroes Op = "get_mock_heroes"
)

// Source is the contract every backend satisfies. Rejections from the hero
// domain are *heroes.Error values; anything else is a transport failure.
type Source interface {
	GetAll(ctx context.Context) ([]heroes.Hero, error)
	Create(ctx context.Context, hero heroes.Hero) (heroes.Hero, error)
	Update(ctx context.Context, hero heroes.Hero) (heroes.Hero, error)
	Delete(ctx context.Context, id int) (int, error)
	FindByName(ctx context.Context, name string) ([]heroes.Hero, error)
	GetMockHeroes(ctx context.Context) ([]heroes.Hero, error)
}

// Echo is a stateless source: every call succeeds immediately and echoes its
// input. GetMockHeroes builds the roster with identities starting at 1.
type Echo struct {
	roster []string
}

// NewEcho returns an Echo serving roster (heroes.DefaultRoster when empty).
func NewEcho(roster []string) *Echo {
	if len(roster) == 0 {
		roster = heroes.DefaultRoster
	}
	return &Echo{roster: append([]string(nil), roster...)}
}

func (e *Echo) GetAll(ctx context.Context) ([]heroes.Hero, error) {
	return []heroes.Hero{}, ctx.Err()
}

func (e *Echo) Create(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	return hero, ctx.Err()
}

func (e *Echo) Update(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	return hero, ctx.Err()
}

func (e *Echo) Delete(ctx context.Context, id int) (int, error) {
	return id, ctx.Err()
}

func (e *Echo) FindByName(ctx context.Context, name string) ([]heroes.Hero, error) {
	return []heroes.Hero{}, ctx.Err()
}

func (e *Echo) GetMockHeroes(ctx context.Context) ([]heroes.Hero, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return heroes.BuildRoster(heroes.NewSequence(), e.roster), nil
}
