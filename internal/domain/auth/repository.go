package auth

import (
	"context"
	"time"
)

type LoginAttemptRepository interface {
	// Create records a pending attempt before any matching happens.
	Create(ctx context.Context, attempt LoginAttempt) (LoginAttempt, error)

	// MarkSuccess resolves the attempt with the matched user and score.
	MarkSuccess(ctx context.Context, id string, userID string, confidence float64) error

	// MarkFailed resolves the attempt with a failure reason. userID may be
	// nil when no account was identified.
	MarkFailed(ctx context.Context, id string, userID *string, reason string) error

	// CountRecentFailed counts failed attempts for the user since the cutoff.
	CountRecentFailed(ctx context.Context, userID string, since time.Time) (int, error)

	// ClearFailed wipes the user's failed-attempt history after a success.
	ClearFailed(ctx context.Context, userID string) error

	List(ctx context.Context, filter AttemptFilter) ([]LoginAttempt, error)
}
