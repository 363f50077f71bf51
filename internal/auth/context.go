package auth

import (
	"context"

	"github.com/ShopCraft/CatalogAdmin/internal/adminuser"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
)

// ctxKey is the type for context keys.
type ctxKey int

// Context key values.
const (
	ctxKeyUser ctxKey = iota
)

// userInfo is the authenticated web user with their session.
type userInfo struct {
	user *adminuser.User
	sess *session.Session
}

// WithUser returns a copy of the parent context with the web user and their
// session added.  u and s must not be nil.
func WithUser(parent context.Context, u *adminuser.User, s *session.Session) (ctx context.Context) {
	return context.WithValue(parent, ctxKeyUser, &userInfo{
		user: u,
		sess: s,
	})
}

// UserFromContext returns the web user and their session from the context, if
// any.
func UserFromContext(ctx context.Context) (u *adminuser.User, s *session.Session, ok bool) {
	info, ok := ctx.Value(ctxKeyUser).(*userInfo)
	if !ok {
		return nil, nil, false
	}

	return info.user, info.sess, true
}
