package adminuser

import (
	"context"

	"github.com/AdguardTeam/golibs/errors"
	"golang.org/x/crypto/bcrypt"
)

// Login is the type for web user logins.
type Login string

// NewLogin returns a web user login.
func NewLogin(s string) (l Login, err error) {
	if s == "" {
		return "", errors.ErrEmptyValue
	}

	return Login(s), nil
}

// Password is an interface that defines methods for handling web user
// passwords.
type Password interface {
	// Authenticate returns true if the provided password is allowed.
	Authenticate(ctx context.Context, password string) (ok bool)

	// Hash returns a hashed representation of the web user password.
	Hash() (b []byte)
}

// DefaultPassword is the default bcrypt implementation of the [Password]
// interface.
type DefaultPassword struct {
	hash []byte
}

// NewDefaultPassword returns the new properly initialized *DefaultPassword.
// hash must be a bcrypt hash.
func NewDefaultPassword(hash string) (p *DefaultPassword) {
	return &DefaultPassword{
		hash: []byte(hash),
	}
}

// HashPassword returns the bcrypt hash of passwd using the default cost.
func HashPassword(passwd string) (hash string, err error) {
	b, err := bcrypt.GenerateFromPassword([]byte(passwd), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// type check
var _ Password = (*DefaultPassword)(nil)

// Authenticate implements the [Password] interface for *DefaultPassword.
func (p *DefaultPassword) Authenticate(_ context.Context, passwd string) (ok bool) {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(passwd)) == nil
}

// Hash implements the [Password] interface for *DefaultPassword.
func (p *DefaultPassword) Hash() (b []byte) {
	return p.hash
}
