package timelog

import (
	"time"
)

// TimeLogEntry is one raw time-in (and eventually time-out) observation.
// Entries are append-only facts; the daily record is derived from them.
type TimeLogEntry struct {
	ID                string
	UserID            string
	EventID           string
	TimeIn            time.Time
	TimeOut           *time.Time
	Latitude          float64
	Longitude         float64
	DistanceMeters    float64
	WithinRadius      bool
	OutLatitude       *float64
	OutLongitude      *float64
	OutDistanceMeters *float64
	OutWithinRadius   *bool
	AutoClosed        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Open reports whether the entry still lacks a time-out.
func (e TimeLogEntry) Open() bool {
	return e.TimeOut == nil
}
