// Package migrations holds the schema migrations. The heroes table is plain
// SQL; the sessions table is a Go migration because each scs store expects
// its own column types.
package migrations

import "fmt"

// sessionsDDL is keyed by goose dialect and matches the sqlite3store,
// mysqlstore and postgresstore schemas.
var sessionsDDL = map[string]string{
	"sqlite3": `CREATE TABLE IF NOT EXISTS sessions (
    token  TEXT PRIMARY KEY,
    data   BLOB NOT NULL,
    expiry REAL NOT NULL
)`,
	"mysql": `CREATE TABLE IF NOT EXISTS sessions (
    token  VARCHAR(43) PRIMARY KEY,
    data   BLOB NOT NULL,
    expiry TIMESTAMP(6) NOT NULL
)`,
	"postgres": `CREATE TABLE IF NOT EXISTS sessions (
    token  TEXT PRIMARY KEY,
    data   BYTEA NOT NULL,
    expiry TIMESTAMPTZ NOT NULL
)`,
}

var dialect = "sqlite3"

// SetDialect selects the DDL the Go migrations emit. Call it before goose.Up.
func SetDialect(d string) error {
	if _, ok := sessionsDDL[d]; !ok {
		return fmt.Errorf("no sessions schema for dialect %q", d)
	}
	dialect = d
	return nil
}
