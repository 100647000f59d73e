package user

import (
	"time"
)

type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	Position         *string
	IsAdmin          bool
	IsActive         bool
	FaceRegisteredAt *time.Time
	LastLoginAt      *time.Time
	LastLoginLat     *float64
	LastLoginLon     *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
