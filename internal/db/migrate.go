package db

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/joestump/superheroes/internal/db/migrations"
)

//go:embed migrations
var Migrations embed.FS

// Migrate runs all pending goose migrations from the embedded migration files.
// It must be called before the hero data source or the session store touch
// the database.
func Migrate(db *sqlx.DB, driver string) error {
	d, err := lookup(driver)
	if err != nil {
		return err
	}

	if err := goose.SetDialect(d.dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := migrations.SetDialect(d.dialect); err != nil {
		return err
	}

	sub, err := fs.Sub(Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("sub migrations fs: %w", err)
	}

	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)
	if err := goose.Up(db.DB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
