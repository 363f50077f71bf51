// Package adminuser contains types and logic for dealing with the web users
// of the catalog administration interface.
package adminuser

import (
	"fmt"
	"strconv"

	"github.com/AdguardTeam/golibs/errors"
)

// UserID is the type for the unique IDs of web users.  Valid IDs are
// positive.
type UserID int64

// NewUserID returns a web user identifier.  id must be positive.
func NewUserID(id int64) (uid UserID, err error) {
	if id <= 0 {
		return 0, fmt.Errorf("user id %d: %w", id, errors.ErrNotPositive)
	}

	return UserID(id), nil
}

// String implements the [fmt.Stringer] interface for UserID.
func (id UserID) String() (s string) {
	return strconv.FormatInt(int64(id), 10)
}

// User represents a web user.
type User struct {
	// Password stores the password information for the web user.  It must not
	// be nil.
	Password Password

	// Login is the login name of the web user.  It must not be empty.
	Login Login

	// ID is the unique identifier for the web user.  It must be positive.
	ID UserID
}
