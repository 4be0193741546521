// Package heroes holds the hero entity, its identity sequence, and the closed
// set of errors every layer uses to classify a failed hero operation.
package heroes

import (
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/text/cases"
)

// Hero is a managed record: a positive identity and a free-text name.
type Hero struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

func (h Hero) String() string {
	return fmt.Sprintf("Hero %d: %s", h.ID, h.Name)
}

// Sequence hands out monotonically increasing hero identities, starting at 1.
// It is safe for concurrent use.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a sequence whose first Next call yields 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next unused identity.
func (s *Sequence) Next() int {
	return int(s.last.Add(1))
}

// Advance moves the sequence forward so that Next never returns id or anything
// below it. It never moves the sequence backwards.
func (s *Sequence) Advance(id int) {
	for {
		cur := s.last.Load()
		if int64(id) <= cur {
			return
		}
		if s.last.CompareAndSwap(cur, int64(id)) {
			return
		}
	}
}

// Current reports the last identity handed out or observed.
func (s *Sequence) Current() int {
	return int(s.last.Load())
}

// New builds a hero named name with the next identity from seq.
func New(seq *Sequence, name string) Hero {
	return Hero{ID: seq.Next(), Name: name}
}

// WithID builds a hero with an explicit identity and records it in seq so
// later New calls never collide with it. seq may be nil.
func WithID(seq *Sequence, id int, name string) Hero {
	if seq != nil {
		seq.Advance(id)
	}
	return Hero{ID: id, Name: name}
}

// FoldName normalizes a name for case-insensitive comparison: surrounding
// whitespace is dropped and the rest is case folded.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// SameName reports whether a and b are the same name ignoring case and
// surrounding whitespace.
func SameName(a, b string) bool {
	return FoldName(a) == FoldName(b)
}

// NameContains reports whether term occurs in name, ignoring case. An empty
// term matches every name.
func NameContains(name, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(cases.Fold().String(name), cases.Fold().String(term))
}

// Clone returns a copy of list that shares no backing array with it.
func Clone(list []Hero) []Hero {
	if list == nil {
		return nil
	}
	return append(make([]Hero, 0, len(list)), list...)
}
