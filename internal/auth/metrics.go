package auth

import "context"

// LoginResult is the result of a login attempt.
type LoginResult string

// Valid [LoginResult] values.
const (
	LoginResultSuccess LoginResult = "success"
	LoginResultInvalid LoginResult = "invalid"
	LoginResultBlocked LoginResult = "blocked"
)

// Metrics is an interface for collection of the authentication statistics.
// All methods must be safe for concurrent use.
type Metrics interface {
	// OnLogin is called after each login attempt.
	OnLogin(ctx context.Context, res LoginResult)
}

// EmptyMetrics is the implementation of the [Metrics] interface that does
// nothing.
type EmptyMetrics struct{}

// type check
var _ Metrics = EmptyMetrics{}

// OnLogin implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) OnLogin(_ context.Context, _ LoginResult) {}
