package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/joestump/superheroes/internal/heroes"
)

// heroRow is a row in the heroes table. name_key holds the folded name and
// carries the unique index that keeps names case-insensitively distinct.
type heroRow struct {
	ID      int    `db:"id"`
	Name    string `db:"name"`
	NameKey string `db:"name_key"`
}

func (r heroRow) hero() heroes.Hero {
	return heroes.Hero{ID: r.ID, Name: r.Name}
}

func toHeroes(rows []heroRow) []heroes.Hero {
	list := make([]heroes.Hero, 0, len(rows))
	for _, r := range rows {
		list = append(list, r.hero())
	}
	return list
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SQLSource is the sqlx-backed Source. It keeps its own copy of the roster
// and enforces the hero invariants itself, rejecting with taxonomy errors.
type SQLSource struct {
	db     *sqlx.DB
	roster []string
}

// NewSQLSource returns a SQLSource on db. The heroes table must already exist
// (see db.Migrate).
func NewSQLSource(db *sqlx.DB, roster []string) *SQLSource {
	if len(roster) == 0 {
		roster = heroes.DefaultRoster
	}
	return &SQLSource{db: db, roster: append([]string(nil), roster...)}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *SQLSource) q(query string) string { return s.db.Rebind(query) }

// GetAll returns every hero ordered by id.
func (s *SQLSource) GetAll(ctx context.Context) ([]heroes.Hero, error) {
	var rows []heroRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, name, name_key FROM heroes ORDER BY id ASC`); err != nil {
		return nil, err
	}
	return toHeroes(rows), nil
}

// GetAllPaginated returns one 1-based page of heroes ordered by id.
func (s *SQLSource) GetAllPaginated(ctx context.Context, page, pageSize int) ([]heroes.Hero, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []heroes.Hero{}, nil
	}
	var rows []heroRow
	err := s.db.SelectContext(ctx, &rows, s.q(`
		SELECT id, name, name_key FROM heroes ORDER BY id ASC LIMIT ? OFFSET ?
	`), pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return toHeroes(rows), nil
}

// GetByID returns the hero with id or heroes.ErrNotFound.
func (s *SQLSource) GetByID(ctx context.Context, id int) (heroes.Hero, error) {
	var r heroRow
	err := s.db.GetContext(ctx, &r, s.q(`SELECT id, name, name_key FROM heroes WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return heroes.Hero{}, heroes.ErrNotFound
	}
	if err != nil {
		return heroes.Hero{}, err
	}
	return r.hero(), nil
}

// Create inserts hero. An existing id wins over an existing name when both
// collide.
func (s *SQLSource) Create(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return heroes.Hero{}, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM heroes WHERE id = ?`), hero.ID); err != nil {
		return heroes.Hero{}, err
	}
	if n > 0 {
		return heroes.Hero{}, heroes.ErrDuplicateID
	}
	key := heroes.FoldName(hero.Name)
	if err := tx.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM heroes WHERE name_key = ?`), key); err != nil {
		return heroes.Hero{}, err
	}
	if n > 0 {
		return heroes.Hero{}, heroes.ErrDuplicateName
	}

	if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO heroes (id, name, name_key) VALUES (?, ?, ?)`), hero.ID, hero.Name, key); err != nil {
		return heroes.Hero{}, fmt.Errorf("insert hero %d: %w", hero.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return heroes.Hero{}, err
	}
	return hero, nil
}

// Update renames the hero with hero.ID. A missing id is reported before a
// name collision; the hero's own current name never collides.
func (s *SQLSource) Update(ctx context.Context, hero heroes.Hero) (heroes.Hero, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return heroes.Hero{}, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM heroes WHERE id = ?`), hero.ID); err != nil {
		return heroes.Hero{}, err
	}
	if n == 0 {
		return heroes.Hero{}, heroes.ErrNotFound
	}
	key := heroes.FoldName(hero.Name)
	if err := tx.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM heroes WHERE name_key = ? AND id <> ?`), key, hero.ID); err != nil {
		return heroes.Hero{}, err
	}
	if n > 0 {
		return heroes.Hero{}, heroes.ErrDuplicateName
	}

	if _, err := tx.ExecContext(ctx, s.q(`UPDATE heroes SET name = ?, name_key = ? WHERE id = ?`), hero.Name, key, hero.ID); err != nil {
		return heroes.Hero{}, fmt.Errorf("update hero %d: %w", hero.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return heroes.Hero{}, err
	}
	return hero, nil
}

// Delete removes the hero with id or returns heroes.ErrNotFound.
func (s *SQLSource) Delete(ctx context.Context, id int) (int, error) {
	result, err := s.db.ExecContext(ctx, s.q(`DELETE FROM heroes WHERE id = ?`), id)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, heroes.ErrNotFound
	}
	return id, nil
}

// FindByName returns heroes whose name contains name, ignoring case. An empty
// name returns everything.
func (s *SQLSource) FindByName(ctx context.Context, name string) ([]heroes.Hero, error) {
	key := heroes.FoldName(name)
	if key == "" {
		return s.GetAll(ctx)
	}
	var rows []heroRow
	err := s.db.SelectContext(ctx, &rows, s.q(`
		SELECT id, name, name_key FROM heroes WHERE name_key LIKE ? ESCAPE '!' ORDER BY id ASC
	`), "%"+likeEscaper.Replace(key)+"%")
	if err != nil {
		return nil, err
	}
	return toHeroes(rows), nil
}

// GetMockHeroes returns the stored heroes, seeding the roster first when the
// table is empty.
func (s *SQLSource) GetMockHeroes(ctx context.Context) ([]heroes.Hero, error) {
	list, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 {
		return list, nil
	}
	return s.Reset(ctx)
}

// Reset replaces every row with the roster, numbered from 1.
func (s *SQLSource) Reset(ctx context.Context) ([]heroes.Hero, error) {
	list := heroes.BuildRoster(heroes.NewSequence(), s.roster)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM heroes`); err != nil {
		return nil, err
	}
	for _, h := range list {
		_, err := tx.ExecContext(ctx, s.q(`INSERT INTO heroes (id, name, name_key) VALUES (?, ?, ?)`), h.ID, h.Name, heroes.FoldName(h.Name))
		if err != nil {
			return nil, fmt.Errorf("seed hero %q: %w", h.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return list, nil
}
