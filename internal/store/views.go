package store

import (
	"context"

	"github.com/joestump/superheroes/internal/heroes"
)

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Heroes returns a copy of the collection in order.
func (s *Store) Heroes() []heroes.Hero { return s.Snapshot().Heroes }

// HeroCount returns the number of heroes held.
func (s *Store) HeroCount() int { return s.Snapshot().HeroCount() }

// HasHeroes reports whether the collection is non-empty.
func (s *Store) HasHeroes() bool { return s.Snapshot().HasHeroes() }

// HasError reports whether both halves of the error pair are set.
func (s *Store) HasError() bool { return s.Snapshot().HasError() }

// IsLoading reports whether any operation is in flight.
func (s *Store) IsLoading() bool { return s.Snapshot().IsLoading }

// SearchTerm returns the term applied by the last successful FindByName.
func (s *Store) SearchTerm() string { return s.Snapshot().SearchTerm }

// FilteredHeroes returns the heroes matching the current search term.
func (s *Store) FilteredHeroes() []heroes.Hero { return s.Snapshot().FilteredHeroes() }

// IDAlreadyExists reports whether a hero with id is held.
func (s *Store) IDAlreadyExists(id int) bool { return s.Snapshot().IDAlreadyExists(id) }

// HeroByID returns the hero with id, if held.
func (s *Store) HeroByID(id int) (heroes.Hero, bool) { return s.Snapshot().HeroByID(id) }

// Err returns the current error pair, or nil.
func (s *Store) Err() *heroes.Error {
	return s.Snapshot().Err()
}

// NameAlreadyExists reports whether a hero other than excludeID uses name.
func (s *Store) NameAlreadyExists(name string, excludeID ...int) bool {
	return s.Snapshot().NameAlreadyExists(name, excludeID...)
}

// Watch streams the state: the current snapshot right away, then the latest
// snapshot after every change. A slow reader only ever sees the newest state.
// The channel is closed once ctx is done.
func (s *Store) Watch(ctx context.Context) <-chan State {
	ch := make(chan State, 1)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	ch <- s.state.clone()
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

func (s *Store) broadcastLocked() {
	for ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.state.clone():
		default:
		}
	}
}
