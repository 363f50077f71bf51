package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/AdguardTeam/golibs/validate"
	"github.com/ShopCraft/CatalogAdmin/internal/session"
)

// TokenLength is the length of the random part of a session token in bytes.
// The string form of a token is twice as long.
const TokenLength = 16

// NewToken returns a cryptographically secure randomly generated session
// token.  Any error returned is an error from the cryptographic randomness
// reader.
func NewToken() (t session.Token, err error) {
	b := make([]byte, TokenLength)
	_, err = rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}

	return session.Token(hex.EncodeToString(b)), nil
}

// ParseToken converts a cookie value into a session token checking its
// format.
func ParseToken(val string) (t session.Token, err error) {
	b, err := hex.DecodeString(val)
	if err != nil {
		return "", fmt.Errorf("decoding token: %w", err)
	}

	err = validate.Equal("token length", len(b), TokenLength)
	if err != nil {
		// Don't wrap the error because it's informative enough as is.
		return "", err
	}

	return session.Token(val), nil
}
