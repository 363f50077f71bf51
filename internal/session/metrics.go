package session

import (
	"context"
	"time"
)

// Metrics is an interface for collection of the session registry statistics.
// All methods must be safe for concurrent use.
type Metrics interface {
	// OnCreate is called when a session is stored.
	OnCreate(ctx context.Context)

	// OnDelete is called when an existing session is removed explicitly.
	OnDelete(ctx context.Context)

	// OnSweep is called after each sweep with the number of removed sessions
	// and the time it took.
	OnSweep(ctx context.Context, removed int, dur time.Duration)

	// SetStored sets the number of currently stored sessions.
	SetStored(ctx context.Context, n int)
}

// EmptyMetrics is the implementation of the [Metrics] interface that does
// nothing.
type EmptyMetrics struct{}

// type check
var _ Metrics = EmptyMetrics{}

// OnCreate implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) OnCreate(_ context.Context) {}

// OnDelete implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) OnDelete(_ context.Context) {}

// OnSweep implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) OnSweep(_ context.Context, _ int, _ time.Duration) {}

// SetStored implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) SetStored(_ context.Context, _ int) {}
