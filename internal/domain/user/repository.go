package user

import (
	"context"
	"time"
)

// UserRepository defines data access methods for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)

	GetByID(ctx context.Context, id string) (User, error)

	GetByEmail(ctx context.Context, email string) (User, error)

	// MarkFaceRegistered stamps the time the user enrolled a face.
	MarkFaceRegistered(ctx context.Context, userID string, at time.Time) error

	// RecordLogin stores last login time and the observed location, if any.
	RecordLogin(ctx context.Context, userID string, at time.Time, lat *float64, lon *float64) error
}
