package store

import (
	"strings"

	"github.com/joestump/superheroes/internal/heroes"
	"github.com/joestump/superheroes/internal/paginate"
)

// State is a snapshot of everything the store holds. Values handed out by
// the store are copies; changing them has no effect on the store.
type State struct {
	Heroes       []heroes.Hero `json:"heroes"`
	IsLoading    bool          `json:"is_loading"`
	ErrorMessage *string       `json:"error_message"`
	ErrorCode    *heroes.Code  `json:"error_code"`
	SearchTerm   string        `json:"search_term"`
}

func (st State) clone() State {
	cp := st
	cp.Heroes = heroes.Clone(st.Heroes)
	return cp
}

// HeroCount is the number of heroes held.
func (st State) HeroCount() int {
	return len(st.Heroes)
}

// HasHeroes reports whether at least one hero is held.
func (st State) HasHeroes() bool {
	return st.HeroCount() > 0
}

// HasError reports whether both error fields are set.
func (st State) HasError() bool {
	return st.ErrorMessage != nil && st.ErrorCode != nil
}

// Err returns the current error pair as an *heroes.Error, or nil.
func (st State) Err() *heroes.Error {
	if !st.HasError() {
		return nil
	}
	return heroes.Errorf(*st.ErrorCode, *st.ErrorMessage)
}

// FilteredHeroes returns the heroes whose name contains SearchTerm, ignoring
// case, in collection order. An empty term returns every hero.
func (st State) FilteredHeroes() []heroes.Hero {
	list := make([]heroes.Hero, 0, len(st.Heroes))
	for _, h := range st.Heroes {
		if heroes.NameContains(h.Name, st.SearchTerm) {
			list = append(list, h)
		}
	}
	return list
}

// HeroByID returns the first hero with id.
func (st State) HeroByID(id int) (heroes.Hero, bool) {
	for _, h := range st.Heroes {
		if h.ID == id {
			return h, true
		}
	}
	return heroes.Hero{}, false
}

// NameAlreadyExists reports whether a hero other than those in excludeID
// already uses name, comparing trimmed names without regard to case.
func (st State) NameAlreadyExists(name string, excludeID ...int) bool {
	key := heroes.FoldName(name)
	for _, h := range st.Heroes {
		if excluded(h.ID, excludeID) {
			continue
		}
		if heroes.FoldName(h.Name) == key {
			return true
		}
	}
	return false
}

// IDAlreadyExists reports whether any hero has id.
func (st State) IDAlreadyExists(id int) bool {
	_, ok := st.HeroByID(id)
	return ok
}

// Page returns one zero-based page of FilteredHeroes.
func (st State) Page(index, size int) paginate.Page[heroes.Hero] {
	return paginate.Slice(st.FilteredHeroes(), index, size)
}

func (st State) indexOf(id int) int {
	for i, h := range st.Heroes {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func excluded(id int, ids []int) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func normalizeTerm(term string) string {
	return strings.TrimSpace(term)
}
