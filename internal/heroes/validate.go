package heroes

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinNameLength = 2
	MaxNameLength = 30
)

var (
	// ErrNameRequired is returned by ValidateFormName for an empty name.
	ErrNameRequired = errors.New("name is required")

	// ErrNameLength is returned when a name is shorter or longer than allowed.
	ErrNameLength = fmt.Errorf("name must be between %d and %d characters", MinNameLength, MaxNameLength)

	// ErrNameCharacters is returned when a name contains anything other than
	// ASCII letters, digits and spaces.
	ErrNameCharacters = errors.New("name may only contain letters, digits and spaces")

	formNameRe = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
)

// ValidateName applies the store rule: a name must not be blank.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return nil
}

// ValidateFormName applies the stricter rules used for user-submitted names
// before they reach the store.
func ValidateFormName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return ErrNameLength
	}
	if !formNameRe.MatchString(name) {
		return ErrNameCharacters
	}
	return nil
}

// CapitalizeWords upper-cases the first letter of every word and lower-cases
// the rest, e.g. "wONDER woman" becomes "Wonder Woman".
func CapitalizeWords(s string) string {
	if s == "" {
		return ""
	}
	return cases.Title(language.Und).String(s)
}
