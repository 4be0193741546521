// Package welcome tracks whether a visitor has already dismissed the welcome
// message. The flag lives in the visitor's session, so it survives restarts
// whenever sessions are stored in the database.
package welcome

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

// ShownKey is the session key holding the flag.
const ShownKey = "welcome_shown"

// Flag reads and writes the welcome flag. Every method needs a context that
// went through the session manager's LoadAndSave middleware.
type Flag struct {
	sessions *scs.SessionManager
}

func New(sessions *scs.SessionManager) *Flag {
	return &Flag{sessions: sessions}
}

// ShouldShow reports whether the welcome message is still due.
func (f *Flag) ShouldShow(ctx context.Context) bool {
	return !f.sessions.GetBool(ctx, ShownKey)
}

// Dismiss records that the welcome message has been shown.
func (f *Flag) Dismiss(ctx context.Context) {
	f.sessions.Put(ctx, ShownKey, true)
}
