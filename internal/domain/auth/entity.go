package auth

import (
	"time"
)

// Login attempt lifecycle.
const (
	AttemptStatusPending = "pending"
	AttemptStatusSuccess = "success"
	AttemptStatusFailed  = "failed"
)

const (
	// MaxFailedAttempts within LockoutWindow locks face login for a user.
	MaxFailedAttempts = 5
	LockoutWindow     = 15 * time.Minute
)

// LoginAttempt is the audit row for one face login or verification try.
// Attempts are recorded before the matching outcome is known.
type LoginAttempt struct {
	ID            string
	MatchedUserID *string
	ProbeHash     string
	Latitude      *float64
	Longitude     *float64
	DeviceInfo    *string
	IPAddress     *string
	UserAgent     *string
	Status        string
	FailureReason *string
	Confidence    *float64
	AttemptedAt   time.Time
	ResolvedAt    *time.Time
}
