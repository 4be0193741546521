package welcome

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

// NewSessionManager creates an SCS session manager. With a nil db sessions
// live in memory; otherwise driver selects the matching store: "mysql",
// "postgres", or "sqlite3" (default).
func NewSessionManager(db *sqlx.DB, driver string, lifetime time.Duration) *scs.SessionManager {
	sm := scs.New()
	if db != nil {
		switch driver {
		case "mysql":
			sm.Store = mysqlstore.New(db.DB)
		case "postgres":
			sm.Store = postgresstore.New(db.DB)
		default: // sqlite3
			sm.Store = sqlite3store.New(db.DB)
		}
	}
	sm.Lifetime = lifetime
	sm.Cookie.Name = "superheroes_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	return sm
}
