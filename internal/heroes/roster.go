package heroes

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// DefaultRoster is the fixed set of names a fresh store starts from.
var DefaultRoster = []string{
	"Superman",
	"Batman",
	"Spiderman",
	"Wonder Woman",
	"Ironman",
	"Hulk",
	"Thor",
	"Captain America",
	"Black Widow",
	"Flash",
	"Aquaman",
	"Green Lantern",
	"Manolito El Fuerte",
}

// rosterFile is the on-disk shape of a roster override:
//
//	names = ["Superman", "Batman"]
type rosterFile struct {
	Names []string `toml:"names"`
}

// LoadRoster reads a TOML roster file. Blank and repeated names (ignoring case)
// are rejected so the roster always satisfies the store invariants.
func LoadRoster(path string) ([]string, error) {
	var f rosterFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode roster %s: %w", path, err)
	}
	if err := checkRoster(f.Names); err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return f.Names, nil
}

func checkRoster(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			return err
		}
		key := FoldName(name)
		if seen[key] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[key] = true
	}
	return nil
}

// BuildRoster turns names into heroes with fresh identities from seq.
func BuildRoster(seq *Sequence, names []string) []Hero {
	list := make([]Hero, 0, len(names))
	for _, name := range names {
		list = append(list, New(seq, name))
	}
	return list
}
