package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joestump/superheroes/internal/datasource"
	"github.com/joestump/superheroes/internal/heroes"
	"github.com/joestump/superheroes/internal/notify"
	"github.com/joestump/superheroes/internal/store"
)

var pair = []string{"Superman", "Batman"}

func newStore(t *testing.T, src datasource.Source, opts ...store.Option) *store.Store {
	t.Helper()
	s := store.New(src, opts...)
	if err := s.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	return s
}

// recorder collects notifications.
type recorder struct {
	mu   sync.Mutex
	seen []notify.Notification
}

func (r *recorder) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

func (r *recorder) codes() []heroes.Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []heroes.Code
	for _, n := range r.seen {
		out = append(out, n.Code)
	}
	return out
}

// gated holds Create and FindByName calls until release is closed,
// announcing the name or term of each one on entered.
type gated struct {
	datasource.Source
	entered chan string
	release chan struct{}
}

func newGated(next datasource.Source) *gated {
	return &gated{Source: next, entered: make(chan string, 4), release: make(chan struct{})}
}

func (g *gated) Create(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	g.entered <- hero.Name
	select {
	case <-ctx.Done():
		return heroes.Hero{}, ctx.Err()
	case <-g.release:
	}
	return g.Source.Create(ctx, hero)
}

func (g *gated) FindByName(ctx context.Context, term string) ([]heroes.Hero, error) {
	g.entered <- term
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.release:
	}
	return g.Source.FindByName(ctx, term)
}

func wait(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("entered %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func TestStore_Scenario(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s := newStore(t, datasource.NewEcho(pair), store.WithNotifier(rec))

	want := []heroes.Hero{{ID: 1, Name: "Superman"}, {ID: 2, Name: "Batman"}}
	if diff := cmp.Diff(want, s.Heroes()); diff != "" {
		t.Fatalf("initial heroes (-want +got):\n%s", diff)
	}

	_, err := s.Create(ctx, "batman")
	if !errors.Is(err, heroes.ErrDuplicateName) {
		t.Fatalf("Create(batman) = %v, want DUPLICATE_NAME", err)
	}
	if code := heroes.CodeOf(err); code != heroes.CodeDuplicateName {
		t.Errorf("code = %q", code)
	}
	if s.HeroCount() != 2 || !s.HasError() || s.IsLoading() {
		t.Errorf("after duplicate: count=%d hasError=%v loading=%v", s.HeroCount(), s.HasError(), s.IsLoading())
	}

	flash, err := s.Create(ctx, "Flash")
	if err != nil {
		t.Fatalf("Create(Flash): %v", err)
	}
	if flash != (heroes.Hero{ID: 3, Name: "Flash"}) {
		t.Errorf("Create(Flash) = %v", flash)
	}
	if s.HasError() {
		t.Error("successful create should clear the error")
	}

	if err := s.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete(2): %v", err)
	}
	want = []heroes.Hero{{ID: 1, Name: "Superman"}, {ID: 3, Name: "Flash"}}
	if diff := cmp.Diff(want, s.Heroes()); diff != "" {
		t.Errorf("after delete (-want +got):\n%s", diff)
	}

	if err := s.Delete(ctx, 99); !errors.Is(err, heroes.ErrNotFound) {
		t.Fatalf("Delete(99) = %v, want HERO_NOT_FOUND", err)
	}
	if diff := cmp.Diff(want, s.Heroes()); diff != "" {
		t.Errorf("failed delete changed heroes (-want +got):\n%s", diff)
	}

	found, err := s.FindByName(ctx, "fl")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if diff := cmp.Diff([]heroes.Hero{{ID: 3, Name: "Flash"}}, found); diff != "" {
		t.Errorf("FindByName(fl) (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, s.Heroes()); diff != "" {
		t.Errorf("search changed heroes (-want +got):\n%s", diff)
	}

	s.ClearError()
	s.ClearError()
	if s.HasError() || s.Err() != nil {
		t.Error("ClearError should leave no error")
	}
	if s.HeroCount() != 2 {
		t.Errorf("ClearError changed heroes: %d", s.HeroCount())
	}

	wantCodes := []heroes.Code{heroes.CodeDuplicateName, heroes.CodeNotFound}
	if diff := cmp.Diff(wantCodes, rec.codes()); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestStore_CreateValidation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		input    string
		wantCode heroes.Code
		wantName string
	}{
		{"empty", "", heroes.CodeInvalidName, ""},
		{"blank", "   ", heroes.CodeInvalidName, ""},
		{"duplicate ignores case", "SUPERMAN", heroes.CodeDuplicateName, ""},
		{"duplicate ignores padding", "  Batman ", heroes.CodeDuplicateName, ""},
		{"trimmed on store", "  Wonder Woman  ", "", "Wonder Woman"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, datasource.NewEcho(pair))
			got, err := s.Create(ctx, tt.input)
			if tt.wantCode != "" {
				if code := heroes.CodeOf(err); code != tt.wantCode {
					t.Fatalf("Create(%q) code = %q, want %q", tt.input, code, tt.wantCode)
				}
				if s.HeroCount() != 2 {
					t.Errorf("rejected create changed the collection")
				}
				if code := *s.Snapshot().ErrorCode; code != tt.wantCode {
					t.Errorf("state error code = %q", code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create(%q): %v", tt.input, err)
			}
			if got.Name != tt.wantName {
				t.Errorf("name = %q, want %q", got.Name, tt.wantName)
			}
		})
	}
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		hero     heroes.Hero
		wantCode heroes.Code
	}{
		{"rename", heroes.Hero{ID: 2, Name: "Dark Knight"}, ""},
		{"own name in other case", heroes.Hero{ID: 2, Name: "BATMAN"}, ""},
		{"taken by another", heroes.Hero{ID: 2, Name: "superman"}, heroes.CodeDuplicateName},
		{"blank", heroes.Hero{ID: 2, Name: " "}, heroes.CodeInvalidName},
		{"missing wins over invalid", heroes.Hero{ID: 42, Name: ""}, heroes.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, datasource.NewEcho(pair))
			got, err := s.Update(ctx, tt.hero)
			if tt.wantCode != "" {
				if code := heroes.CodeOf(err); code != tt.wantCode {
					t.Fatalf("Update code = %q, want %q (err %v)", code, tt.wantCode, err)
				}
				want := []heroes.Hero{{ID: 1, Name: "Superman"}, {ID: 2, Name: "Batman"}}
				if diff := cmp.Diff(want, s.Heroes()); diff != "" {
					t.Errorf("rejected update changed heroes (-want +got):\n%s", diff)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if h, ok := s.HeroByID(2); !ok || h != got {
				t.Errorf("HeroByID(2) = %v, %v; want %v", h, ok, got)
			}
			if first := s.Heroes()[1]; first.ID != 2 {
				t.Errorf("update moved the hero: %v", s.Heroes())
			}
		})
	}
}

func TestStore_SearchTerm(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, datasource.NewEcho(pair))

	got, err := s.FindByName(ctx, "  MAN ")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if len(got) != 2 || s.SearchTerm() != "MAN" {
		t.Errorf("FindByName(MAN) = %v, term %q", got, s.SearchTerm())
	}

	got, _ = s.FindByName(ctx, "bat")
	if diff := cmp.Diff([]heroes.Hero{{ID: 2, Name: "Batman"}}, got); diff != "" {
		t.Errorf("FindByName(bat) (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(got, s.FilteredHeroes()); diff != "" {
		t.Errorf("FilteredHeroes disagrees (-want +got):\n%s", diff)
	}

	got, _ = s.FindByName(ctx, "")
	if len(got) != 2 {
		t.Errorf("empty term should show everything, got %v", got)
	}
}

func TestStore_SourceFailure(t *testing.T) {
	ctx := context.Background()
	src := datasource.NewFaulty(datasource.NewEcho(pair))
	rec := &recorder{}
	s := newStore(t, src, store.WithNotifier(rec))

	src.Fail(datasource.OpDelete, errors.New("backend down"))
	err := s.Delete(ctx, 1)
	if code := heroes.CodeOf(err); code != heroes.CodeUnavailable {
		t.Fatalf("Delete code = %q, want UNAVAILABLE", code)
	}
	if s.HeroCount() != 2 {
		t.Error("failed delete removed a hero")
	}

	src.Fail(datasource.OpCreate, heroes.ErrDuplicateID)
	if _, err := s.Create(ctx, "Flash"); !errors.Is(err, heroes.ErrDuplicateID) {
		t.Fatalf("Create = %v, want DUPLICATE_ID", err)
	}
	if s.HeroCount() != 2 || s.IsLoading() {
		t.Errorf("count=%d loading=%v", s.HeroCount(), s.IsLoading())
	}

	src.Clear(datasource.OpCreate)
	if _, err := s.Create(ctx, "Flash"); err != nil {
		t.Fatalf("Create after clear: %v", err)
	}

	want := []heroes.Code{heroes.CodeUnavailable, heroes.CodeDuplicateID}
	if diff := cmp.Diff(want, rec.codes()); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestStore_LoadInitialFailure(t *testing.T) {
	src := datasource.NewFaulty(datasource.NewEcho(pair))
	src.Fail(datasource.OpGetMockHeroes, errors.New("down"))
	rec := &recorder{}
	s := store.New(src, store.WithNotifier(rec))

	err := s.LoadInitial(context.Background())
	if code := heroes.CodeOf(err); code != heroes.CodeUnavailable {
		t.Fatalf("LoadInitial = %v (code %q), want UNAVAILABLE", err, code)
	}
	if s.IsLoading() || s.HasHeroes() || !s.HasError() {
		t.Errorf("loading=%v hasHeroes=%v hasError=%v", s.IsLoading(), s.HasHeroes(), s.HasError())
	}
	if diff := cmp.Diff([]heroes.Code{heroes.CodeUnavailable}, rec.codes()); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestStore_RepeatedErrorNotifiesEachTime(t *testing.T) {
	rec := &recorder{}
	s := newStore(t, datasource.NewEcho(pair), store.WithNotifier(rec))
	for range 2 {
		s.Create(context.Background(), "Batman")
	}
	if got := len(rec.codes()); got != 2 {
		t.Errorf("notifications = %d, want 2", got)
	}
}

func TestStore_LatestWins(t *testing.T) {
	ctx := context.Background()
	src := newGated(datasource.NewEcho(pair))
	s := newStore(t, src)

	first := make(chan error, 1)
	go func() {
		_, err := s.Create(ctx, "Flash")
		first <- err
	}()
	wait(t, src.entered, "Flash")

	second := make(chan error, 1)
	go func() {
		_, err := s.Create(ctx, "Wonder Woman")
		second <- err
	}()
	wait(t, src.entered, "Wonder Woman")

	if err := <-first; !errors.Is(err, store.ErrSuperseded) {
		t.Fatalf("first create = %v, want ErrSuperseded", err)
	}
	if !s.IsLoading() {
		t.Error("store should still be loading for the second create")
	}

	close(src.release)
	if err := <-second; err != nil {
		t.Fatalf("second create: %v", err)
	}

	want := []heroes.Hero{{ID: 1, Name: "Superman"}, {ID: 2, Name: "Batman"}, {ID: 4, Name: "Wonder Woman"}}
	if diff := cmp.Diff(want, s.Heroes()); diff != "" {
		t.Errorf("heroes (-want +got):\n%s", diff)
	}
	if s.IsLoading() || s.HasError() {
		t.Errorf("loading=%v hasError=%v", s.IsLoading(), s.HasError())
	}
}

func TestStore_LatestSearchWins(t *testing.T) {
	ctx := context.Background()
	src := newGated(datasource.NewEcho(pair))
	s := newStore(t, src)

	first := make(chan error, 1)
	go func() {
		_, err := s.FindByName(ctx, "bat")
		first <- err
	}()
	wait(t, src.entered, "bat")

	type result struct {
		found []heroes.Hero
		err   error
	}
	second := make(chan result, 1)
	go func() {
		found, err := s.FindByName(ctx, "super")
		second <- result{found, err}
	}()
	wait(t, src.entered, "super")

	if err := <-first; !errors.Is(err, store.ErrSuperseded) {
		t.Fatalf("first search = %v, want ErrSuperseded", err)
	}
	if term := s.SearchTerm(); term != "" {
		t.Errorf("superseded search applied term %q", term)
	}

	close(src.release)
	got := <-second
	if got.err != nil {
		t.Fatalf("second search: %v", got.err)
	}
	want := []heroes.Hero{{ID: 1, Name: "Superman"}}
	if diff := cmp.Diff(want, got.found); diff != "" {
		t.Errorf("found (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, s.FilteredHeroes()); diff != "" {
		t.Errorf("filtered (-want +got):\n%s", diff)
	}
	if term := s.SearchTerm(); term != "super" {
		t.Errorf("SearchTerm = %q, want super", term)
	}
	if s.IsLoading() {
		t.Error("store still loading after the last search")
	}
}

func TestStore_DifferentKindsRunSideBySide(t *testing.T) {
	ctx := context.Background()
	src := newGated(datasource.NewEcho(pair))
	s := newStore(t, src)

	created := make(chan error, 1)
	go func() {
		_, err := s.Create(ctx, "Flash")
		created <- err
	}()
	wait(t, src.entered, "Flash")

	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete during create: %v", err)
	}
	if !s.IsLoading() {
		t.Error("create still pending, store should be loading")
	}

	close(src.release)
	if err := <-created; err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := []heroes.Hero{{ID: 2, Name: "Batman"}, {ID: 3, Name: "Flash"}}
	if diff := cmp.Diff(want, s.Heroes()); diff != "" {
		t.Errorf("heroes (-want +got):\n%s", diff)
	}
}

func TestStore_SetIdleAbandonsInFlight(t *testing.T) {
	ctx := context.Background()
	src := newGated(datasource.NewEcho(pair))
	s := newStore(t, src)

	done := make(chan error, 1)
	go func() {
		_, err := s.Create(ctx, "Flash")
		done <- err
	}()
	wait(t, src.entered, "Flash")

	s.SetIdle()
	if s.IsLoading() || s.HasError() {
		t.Errorf("after SetIdle: loading=%v hasError=%v", s.IsLoading(), s.HasError())
	}
	if err := <-done; !errors.Is(err, store.ErrSuperseded) {
		t.Fatalf("abandoned create = %v, want ErrSuperseded", err)
	}
	if s.HeroCount() != 2 {
		t.Errorf("abandoned create landed: %v", s.Heroes())
	}
}

func TestStore_CallerCancel(t *testing.T) {
	src := newGated(datasource.NewEcho(pair))
	rec := &recorder{}
	s := newStore(t, src, store.WithNotifier(rec))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Create(ctx, "Flash")
		done <- err
	}()
	wait(t, src.entered, "Flash")
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Create = %v, want context.Canceled", err)
	}
	if s.IsLoading() || s.HasError() || s.HeroCount() != 2 {
		t.Errorf("loading=%v hasError=%v count=%d", s.IsLoading(), s.HasError(), s.HeroCount())
	}
	if len(rec.codes()) != 0 {
		t.Errorf("caller cancel should not notify, got %v", rec.codes())
	}
}

func TestStore_LoadInitialAdvancesSequence(t *testing.T) {
	s := newStore(t, datasource.NewEcho(heroes.DefaultRoster))
	h, err := s.Create(context.Background(), "Robin")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if want := len(heroes.DefaultRoster) + 1; h.ID != want {
		t.Errorf("new id = %d, want %d", h.ID, want)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := newStore(t, datasource.NewEcho(pair))
	snap := s.Snapshot()
	snap.Heroes[0].Name = "Changed"
	if h, _ := s.HeroByID(1); h.Name != "Superman" {
		t.Errorf("snapshot aliased store state: %v", h)
	}
}

func TestStore_Watch(t *testing.T) {
	s := newStore(t, datasource.NewEcho(pair))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := s.Watch(ctx)
	if st := <-ch; st.HeroCount() != 2 {
		t.Fatalf("initial snapshot has %d heroes", st.HeroCount())
	}

	if _, err := s.Create(context.Background(), "Flash"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-ch:
			if st.HeroCount() == 3 && !st.IsLoading {
				cancel()
				for range ch {
				}
				return
			}
		case <-deadline:
			t.Fatal("never saw the created hero")
		}
	}
}
