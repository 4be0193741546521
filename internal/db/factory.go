// Package db opens the optional SQL database used by the sql data source and
// the persistent session stores, and applies its migrations.
package db

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// driver describes how one HEROES_DB_DRIVER value is opened and migrated.
type driver struct {
	sqlName string   // name registered with database/sql
	dialect string   // goose dialect, also picks the sessions DDL
	setup   []string // run once on the fresh pool
}

// modernc.org/sqlite registers itself as "sqlite" and needs no CGO.
var drivers = map[string]driver{
	"sqlite3":  {sqlName: "sqlite", dialect: "sqlite3", setup: []string{"PRAGMA journal_mode=WAL"}},
	"mysql":    {sqlName: "mysql", dialect: "mysql"},
	"postgres": {sqlName: "postgres", dialect: "postgres"},
}

func lookup(name string) (driver, error) {
	d, ok := drivers[name]
	if !ok {
		return driver{}, fmt.Errorf("unsupported DB driver %q: must be sqlite3, mysql, or postgres", name)
	}
	return d, nil
}

// New opens the database for the configured driver and applies that driver's
// connection setup.
func New(name, dsn string) (*sqlx.DB, error) {
	d, err := lookup(name)
	if err != nil {
		return nil, err
	}
	conn, err := sqlx.Open(d.sqlName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	for _, stmt := range d.setup {
		if _, err := conn.Exec(stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s setup %q: %w", name, stmt, err)
		}
	}
	return conn, nil
}
