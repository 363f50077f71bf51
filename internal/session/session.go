// Package session contains the in-memory registry of the web user sessions of
// the catalog administration interface and the service that periodically
// removes expired sessions from it.
package session

import (
	"time"

	"github.com/ShopCraft/CatalogAdmin/internal/adminuser"
)

// Token is the opaque string identifying a session.  Tokens are generated by
// the login flow and must be unpredictable.
type Token string

// Session represents an authenticated web user session.
type Session struct {
	// Expires is the moment after which the session is no longer valid.  A
	// session is valid only strictly before Expires.
	Expires time.Time

	// Username is the login of the web user associated with the session.
	Username adminuser.Login

	// UserID is the identifier of the web user associated with the session.
	UserID adminuser.UserID
}

// isExpired returns true if s is no longer valid at now.
func (s *Session) isExpired(now time.Time) (ok bool) {
	return !now.Before(s.Expires)
}
