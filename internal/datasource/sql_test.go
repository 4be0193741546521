package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joestump/superheroes/internal/heroes"
	"github.com/joestump/superheroes/internal/testutil"
)

func newSQLSource(t *testing.T) *SQLSource {
	t.Helper()
	src := NewSQLSource(testutil.NewTestDB(t), []string{"Superman", "Batman", "Spiderman"})
	if _, err := src.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return src
}

func TestSQLSource_GetMockHeroes(t *testing.T) {
	ctx := context.Background()
	src := NewSQLSource(testutil.NewTestDB(t), []string{"Superman", "Batman"})

	seeded, err := src.GetMockHeroes(ctx)
	if err != nil {
		t.Fatalf("GetMockHeroes on empty table: %v", err)
	}
	want := []heroes.Hero{{ID: 1, Name: "Superman"}, {ID: 2, Name: "Batman"}}
	if diff := cmp.Diff(want, seeded); diff != "" {
		t.Errorf("seeded roster (-want +got):\n%s", diff)
	}

	if _, err := src.Create(ctx, heroes.Hero{ID: 10, Name: "Flash"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	kept, err := src.GetMockHeroes(ctx)
	if err != nil {
		t.Fatalf("GetMockHeroes: %v", err)
	}
	want = append(want, heroes.Hero{ID: 10, Name: "Flash"})
	if diff := cmp.Diff(want, kept); diff != "" {
		t.Errorf("stored heroes (-want +got):\n%s", diff)
	}
}

func TestSQLSource_Reset(t *testing.T) {
	ctx := context.Background()
	src := newSQLSource(t)

	if _, err := src.Create(ctx, heroes.Hero{ID: 10, Name: "Flash"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := src.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	all, err := src.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if diff := cmp.Diff(list, all); diff != "" {
		t.Errorf("table differs from roster (-roster +table):\n%s", diff)
	}
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}
}

func TestSQLSource_Create(t *testing.T) {
	ctx := context.Background()
	src := newSQLSource(t)

	tests := []struct {
		name    string
		hero    heroes.Hero
		wantErr error
	}{
		{name: "new hero", hero: heroes.Hero{ID: 4, Name: "Flash"}},
		{name: "duplicate id", hero: heroes.Hero{ID: 1, Name: "Robin"}, wantErr: heroes.ErrDuplicateID},
		{name: "duplicate name any case", hero: heroes.Hero{ID: 5, Name: "bATMAN"}, wantErr: heroes.ErrDuplicateName},
		{name: "duplicate id wins over name", hero: heroes.Hero{ID: 2, Name: "Superman"}, wantErr: heroes.ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.Create(ctx, tt.hero)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Create = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSQLSource_Update(t *testing.T) {
	ctx := context.Background()
	src := newSQLSource(t)

	if _, err := src.Update(ctx, heroes.Hero{ID: 99, Name: "Batman"}); !errors.Is(err, heroes.ErrNotFound) {
		t.Errorf("missing id with taken name = %v, want ErrNotFound first", err)
	}
	if _, err := src.Update(ctx, heroes.Hero{ID: 1, Name: "batman"}); !errors.Is(err, heroes.ErrDuplicateName) {
		t.Errorf("rename onto other hero = %v, want ErrDuplicateName", err)
	}
	if _, err := src.Update(ctx, heroes.Hero{ID: 2, Name: "BATMAN"}); err != nil {
		t.Errorf("recase own name = %v, want nil", err)
	}
	got, err := src.GetByID(ctx, 2)
	if err != nil || got.Name != "BATMAN" {
		t.Errorf("GetByID(2) = %v, %v", got, err)
	}
}

func TestSQLSource_Delete(t *testing.T) {
	ctx := context.Background()
	src := newSQLSource(t)

	if _, err := src.Delete(ctx, 42); !errors.Is(err, heroes.ErrNotFound) {
		t.Errorf("Delete(42) = %v, want ErrNotFound", err)
	}
	if id, err := src.Delete(ctx, 2); err != nil || id != 2 {
		t.Fatalf("Delete(2) = %d, %v", id, err)
	}
	all, _ := src.GetAll(ctx)
	want := []heroes.Hero{{ID: 1, Name: "Superman"}, {ID: 3, Name: "Spiderman"}}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("after delete (-want +got):\n%s", diff)
	}
	if _, err := src.GetByID(ctx, 2); !errors.Is(err, heroes.ErrNotFound) {
		t.Errorf("GetByID(2) = %v, want ErrNotFound", err)
	}
}

func TestSQLSource_FindByName(t *testing.T) {
	ctx := context.Background()
	src := newSQLSource(t)

	tests := []struct {
		term string
		want []int
	}{
		{term: "MAN", want: []int{1, 2, 3}},
		{term: "bat", want: []int{2}},
		{term: "", want: []int{1, 2, 3}},
		{term: "%", want: []int{}},
		{term: "zzz", want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			list, err := src.FindByName(ctx, tt.term)
			if err != nil {
				t.Fatalf("FindByName: %v", err)
			}
			ids := make([]int, 0, len(list))
			for _, h := range list {
				ids = append(ids, h.ID)
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("FindByName(%q) ids (-want +got):\n%s", tt.term, diff)
			}
		})
	}
}

func TestSQLSource_GetAllPaginated(t *testing.T) {
	ctx := context.Background()
	src := newSQLSource(t)

	page, err := src.GetAllPaginated(ctx, 2, 2)
	if err != nil {
		t.Fatalf("GetAllPaginated: %v", err)
	}
	if len(page) != 1 || page[0].ID != 3 {
		t.Errorf("page 2 = %v, want [Spiderman]", page)
	}
	empty, err := src.GetAllPaginated(ctx, 5, 2)
	if err != nil || len(empty) != 0 {
		t.Errorf("page past end = %v, %v", empty, err)
	}
}
