// Package store holds the hero store: the single owner of the hero collection
// and of the loading, error, and search state shown to users.
//
// Every mutation goes through four phases. The store marks itself loading
// and clears the previous error, validates the request against the current
// state, calls the data source without holding the lock, and finally applies
// the mutation it already decided on. Each operation kind has one slot: a new
// operation cancels the in-flight one of the same kind, whose result is then
// discarded and whose caller receives ErrSuperseded.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/joestump/superheroes/internal/datasource"
	"github.com/joestump/superheroes/internal/heroes"
	"github.com/joestump/superheroes/internal/metrics"
	"github.com/joestump/superheroes/internal/notify"
)

// ErrSuperseded is returned to the caller of an operation that was overtaken
// by a newer operation of the same kind, or abandoned by SetIdle. It never
// reaches the error fields.
var ErrSuperseded = errors.New("operation superseded by a newer one")

type opKind string

const (
	opLoad   opKind = "load"
	opCreate opKind = "create"
	opUpdate opKind = "update"
	opDelete opKind = "delete"
	opSearch opKind = "search"
)

type slot struct {
	token  uint64
	cancel context.CancelFunc
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets the sink that receives a notification whenever an
// operation leaves an error in the store.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithSequence sets the identity sequence new heroes draw from.
func WithSequence(seq *heroes.Sequence) Option {
	return func(s *Store) { s.seq = seq }
}

// Store is safe for concurrent use.
type Store struct {
	src      datasource.Source
	seq      *heroes.Sequence
	notifier notify.Notifier
	log      *zap.Logger

	mu       sync.Mutex
	state    State
	slots    map[opKind]slot
	tokens   uint64
	raised   *heroes.Error
	watchers map[chan State]struct{}
}

// New returns an empty store backed by src. Call LoadInitial to fill it.
func New(src datasource.Source, opts ...Option) *Store {
	s := &Store{
		src:      src,
		seq:      heroes.NewSequence(),
		notifier: notify.Nop,
		log:      zap.NewNop(),
		state:    State{Heroes: []heroes.Hero{}},
		slots:    make(map[opKind]slot),
		watchers: make(map[chan State]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.Named("store")
	return s
}

// LoadInitial replaces the collection with the data source's roster.
func (s *Store) LoadInitial(ctx context.Context) error {
	var list []heroes.Hero
	return s.run(ctx, opLoad, nil,
		func(ctx context.Context) (err error) {
			list, err = s.src.GetMockHeroes(ctx)
			return err
		},
		func(st *State) *heroes.Error {
			st.Heroes = append([]heroes.Hero{}, list...)
			for _, h := range list {
				s.seq.Advance(h.ID)
			}
			return nil
		})
}

// Create appends a new hero named name (trimmed) with the next identity.
func (s *Store) Create(ctx context.Context, name string) (heroes.Hero, error) {
	name = strings.TrimSpace(name)
	var hero heroes.Hero
	err := s.run(ctx, opCreate,
		func(st *State) *heroes.Error {
			if heroes.ValidateName(name) != nil {
				return heroes.ErrInvalidName
			}
			if st.NameAlreadyExists(name) {
				return duplicateName(name)
			}
			hero = heroes.New(s.seq, name)
			return nil
		},
		func(ctx context.Context) error {
			_, err := s.src.Create(ctx, hero)
			return err
		},
		func(st *State) *heroes.Error {
			if st.NameAlreadyExists(hero.Name) {
				return duplicateName(hero.Name)
			}
			st.Heroes = append(st.Heroes, hero)
			return nil
		})
	if err != nil {
		return heroes.Hero{}, err
	}
	return hero, nil
}

// Update renames the hero with hero.ID in place. A missing hero is reported
// before an invalid or duplicate name; the hero's own name never counts as a
// duplicate.
func (s *Store) Update(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	hero.Name = strings.TrimSpace(hero.Name)
	err := s.run(ctx, opUpdate,
		func(st *State) *heroes.Error {
			if !st.IDAlreadyExists(hero.ID) {
				return notFound(hero.ID)
			}
			if heroes.ValidateName(hero.Name) != nil {
				return heroes.ErrInvalidName
			}
			if st.NameAlreadyExists(hero.Name, hero.ID) {
				return duplicateName(hero.Name)
			}
			return nil
		},
		func(ctx context.Context) error {
			_, err := s.src.Update(ctx, hero)
			return err
		},
		func(st *State) *heroes.Error {
			i := st.indexOf(hero.ID)
			if i < 0 {
				return notFound(hero.ID)
			}
			if st.NameAlreadyExists(hero.Name, hero.ID) {
				return duplicateName(hero.Name)
			}
			st.Heroes[i] = hero
			return nil
		})
	if err != nil {
		return heroes.Hero{}, err
	}
	return hero, nil
}

// Delete removes the hero with id, keeping the order of the rest.
func (s *Store) Delete(ctx context.Context, id int) error {
	return s.run(ctx, opDelete,
		func(st *State) *heroes.Error {
			if !st.IDAlreadyExists(id) {
				return notFound(id)
			}
			return nil
		},
		func(ctx context.Context) error {
			_, err := s.src.Delete(ctx, id)
			return err
		},
		func(st *State) *heroes.Error {
			i := st.indexOf(id)
			if i < 0 {
				return notFound(id)
			}
			st.Heroes = slices.Delete(st.Heroes, i, i+1)
			return nil
		})
}

// FindByName sets the search term (trimmed) and returns the filtered view.
// The collection itself is never touched; an empty term clears the filter.
func (s *Store) FindByName(ctx context.Context, term string) ([]heroes.Hero, error) {
	term = normalizeTerm(term)
	var view []heroes.Hero
	err := s.run(ctx, opSearch, nil,
		func(ctx context.Context) error {
			_, err := s.src.FindByName(ctx, term)
			return err
		},
		func(st *State) *heroes.Error {
			st.SearchTerm = term
			view = st.FilteredHeroes()
			return nil
		})
	return view, err
}

// ClearError resets both error fields. Loading state and data are untouched.
func (s *Store) ClearError() {
	s.update(func() {
		s.state.ErrorMessage, s.state.ErrorCode = nil, nil
	})
}

// SetIdle abandons every in-flight operation, clears the loading flag and
// both error fields.
func (s *Store) SetIdle() {
	s.update(func() {
		for kind, sl := range s.slots {
			sl.cancel()
			delete(s.slots, kind)
		}
		s.state.ErrorMessage, s.state.ErrorCode = nil, nil
	})
}

// run drives one operation through the four phases. validate runs under the
// lock against the current state; call runs without the lock; apply runs
// under the lock only if the call succeeded and this operation still owns its
// slot.
func (s *Store) run(
	ctx context.Context,
	kind opKind,
	validate func(st *State) *heroes.Error,
	call func(ctx context.Context) error,
	apply func(st *State) *heroes.Error,
) error {
	var (
		opCtx    context.Context
		token    uint64
		rejected *heroes.Error
	)
	s.update(func() {
		opCtx, token = s.beginLocked(ctx, kind)
		if validate == nil {
			return
		}
		if rejected = validate(&s.state); rejected != nil {
			s.releaseLocked(kind, token)
			s.raiseLocked(rejected)
		}
	})
	if rejected != nil {
		s.record(kind, "rejected", rejected)
		return rejected
	}

	callErr := call(opCtx)

	var result error
	s.update(func() {
		if !s.releaseLocked(kind, token) {
			result = ErrSuperseded
			return
		}
		if callErr != nil {
			if ctx.Err() != nil {
				// The caller went away; nothing to report to the user.
				result = ctx.Err()
				return
			}
			e := heroes.Classify(callErr)
			s.raiseLocked(e)
			result = e
			return
		}
		if e := apply(&s.state); e != nil {
			s.raiseLocked(e)
			result = e
		}
	})

	switch {
	case result == nil:
		s.record(kind, "ok", nil)
	case errors.Is(result, ErrSuperseded):
		s.record(kind, "superseded", nil)
	default:
		s.record(kind, "failed", result)
	}
	return result
}

// beginLocked claims kind's slot, cancelling whatever held it, and clears the
// error fields.
func (s *Store) beginLocked(ctx context.Context, kind opKind) (context.Context, uint64) {
	if prev, ok := s.slots[kind]; ok {
		prev.cancel()
	}
	s.tokens++
	opCtx, cancel := context.WithCancel(ctx)
	s.slots[kind] = slot{token: s.tokens, cancel: cancel}
	s.state.ErrorMessage, s.state.ErrorCode = nil, nil
	return opCtx, s.tokens
}

// releaseLocked frees kind's slot if token still owns it and reports whether
// it did.
func (s *Store) releaseLocked(kind opKind, token uint64) bool {
	cur, ok := s.slots[kind]
	if !ok || cur.token != token {
		return false
	}
	cur.cancel()
	delete(s.slots, kind)
	return true
}

// raiseLocked sets the error pair and queues a notification for it.
func (s *Store) raiseLocked(e *heroes.Error) {
	msg, code := e.Message, e.Code
	s.state.ErrorMessage, s.state.ErrorCode = &msg, &code
	s.raised = e
}

// update runs fn under the lock, recomputes the loading flag, publishes the
// new snapshot to watchers, and delivers a notification if fn raised an error.
func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	s.state.IsLoading = len(s.slots) > 0
	raised := s.raised
	s.raised = nil
	count := len(s.state.Heroes)
	s.broadcastLocked()
	s.mu.Unlock()

	metrics.HeroesTotal.Set(float64(count))
	if raised != nil {
		metrics.NotificationsTotal.WithLabelValues(string(raised.Code)).Inc()
		s.notifier.Notify(notify.Notification{Code: raised.Code, Message: raised.Message})
	}
}

func (s *Store) record(kind opKind, outcome string, err error) {
	metrics.StoreOperationsTotal.WithLabelValues(string(kind), outcome).Inc()
	if err != nil {
		s.log.Debug("operation failed", zap.String("op", string(kind)), zap.String("outcome", outcome), zap.Error(err))
		return
	}
	s.log.Debug("operation finished", zap.String("op", string(kind)), zap.String("outcome", outcome))
}

func duplicateName(name string) *heroes.Error {
	return heroes.Errorf(heroes.CodeDuplicateName, fmt.Sprintf("a hero named %q already exists", name))
}

func notFound(id int) *heroes.Error {
	return heroes.Errorf(heroes.CodeNotFound, fmt.Sprintf("hero %d not found", id))
}
