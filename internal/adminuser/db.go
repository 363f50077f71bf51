package adminuser

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/AdguardTeam/golibs/errors"
)

// DB is an interface that defines methods for interacting with user
// information.  All methods must be safe for concurrent use.
type DB interface {
	// All retrieves all users from the database, sorted by login.
	All(ctx context.Context) (users []*User, err error)

	// ByLogin retrieves a user by their login.  u must not be modified.
	ByLogin(ctx context.Context, login Login) (u *User, err error)

	// ByID retrieves a user by their identifier.  u must not be modified.
	ByID(ctx context.Context, id UserID) (u *User, err error)

	// Create adds a new user to the database.  If the credentials already
	// exist, it returns the [errors.ErrDuplicated] error.  u must not be
	// modified.
	Create(ctx context.Context, u *User) (err error)
}

// DefaultDB is the default in-memory implementation of the [DB] interface.
type DefaultDB struct {
	// mu protects all properties below.
	mu *sync.Mutex

	// loginToUserID maps a web user login to their UserID.
	loginToUserID map[Login]UserID

	// userIDToUser maps a UserID to a web user.  The values must not be nil.
	// It must be synchronized with loginToUserID.
	userIDToUser map[UserID]*User
}

// NewDefaultDB returns the new properly initialized *DefaultDB.
func NewDefaultDB() (db *DefaultDB) {
	return &DefaultDB{
		mu:            &sync.Mutex{},
		loginToUserID: map[Login]UserID{},
		userIDToUser:  map[UserID]*User{},
	}
}

// type check
var _ DB = (*DefaultDB)(nil)

// All implements the [DB] interface for *DefaultDB.
func (db *DefaultDB) All(_ context.Context) (users []*User, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(db.userIDToUser) == 0 {
		return nil, nil
	}

	users = slices.SortedStableFunc(
		maps.Values(db.userIDToUser),
		func(a, b *User) (res int) {
			return cmp.Compare(a.Login, b.Login)
		},
	)

	return users, nil
}

// ByLogin implements the [DB] interface for *DefaultDB.
func (db *DefaultDB) ByLogin(_ context.Context, login Login) (u *User, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id, ok := db.loginToUserID[login]
	if !ok {
		return nil, nil
	}

	u, ok = db.userIDToUser[id]
	if !ok {
		// Should not happen.
		panic(fmt.Errorf("no web user present with login %q", login))
	}

	return u, nil
}

// ByID implements the [DB] interface for *DefaultDB.
func (db *DefaultDB) ByID(_ context.Context, id UserID) (u *User, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.userIDToUser[id], nil
}

// Create implements the [DB] interface for *DefaultDB.
func (db *DefaultDB) Create(_ context.Context, u *User) (err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return addLocked(db.userIDToUser, db.loginToUserID, u)
}

// Replace atomically replaces all stored users with users.  If any of users is
// invalid, the database is left unchanged.
func (db *DefaultDB) Replace(_ context.Context, users []*User) (err error) {
	byID := make(map[UserID]*User, len(users))
	byLogin := make(map[Login]UserID, len(users))

	var errs []error
	for i, u := range users {
		err = addLocked(byID, byLogin, u)
		if err != nil {
			errs = append(errs, fmt.Errorf("user at index %d: %w", i, err))
		}
	}

	if err = errors.Join(errs...); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	db.userIDToUser, db.loginToUserID = byID, byLogin

	return nil
}

// addLocked validates u and adds it to the maps.  If the maps belong to a
// [DefaultDB], its mu is expected to be locked.
func addLocked(byID map[UserID]*User, byLogin map[Login]UserID, u *User) (err error) {
	if u.ID <= 0 {
		return fmt.Errorf("userid: %w", errors.ErrNotPositive)
	}

	if u.Login == "" {
		return fmt.Errorf("login: %w", errors.ErrEmptyValue)
	}

	if _, ok := byID[u.ID]; ok {
		return fmt.Errorf("userid: %w", errors.ErrDuplicated)
	}

	if _, ok := byLogin[u.Login]; ok {
		return fmt.Errorf("login: %w", errors.ErrDuplicated)
	}

	byID[u.ID] = u
	byLogin[u.Login] = u.ID

	return nil
}
