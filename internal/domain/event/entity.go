package event

import (
	"time"
)

type Event struct {
	ID          string
	Name        string
	Description *string
	Address     *string
	Date        time.Time
	StartTime   *string // HH:MM, informational
	EndTime     *string
	Latitude    *float64
	Longitude   *float64
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasLocation reports whether the event can anchor a geofence check.
func (e Event) HasLocation() bool {
	return e.Latitude != nil && e.Longitude != nil
}
