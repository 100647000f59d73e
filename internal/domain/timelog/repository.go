package timelog

import (
	"context"
	"time"
)

type TimeLogRepository interface {
	Create(ctx context.Context, entry TimeLogEntry) (TimeLogEntry, error)

	GetByID(ctx context.Context, id string) (TimeLogEntry, error)

	// GetOpenEntry returns the open entry for (user, event), ErrNoActiveLog if none.
	GetOpenEntry(ctx context.Context, userID string, eventID string) (TimeLogEntry, error)

	// CloseEntry records the time-out observation on an open entry.
	CloseEntry(ctx context.Context, id string, timeOut time.Time, lat float64, lon float64, distance float64, withinRadius bool, autoClosed bool) error

	// ListByUserAndDate returns all entries for the user on the local date,
	// ordered by time_in ascending. The daily fold consumes this.
	ListByUserAndDate(ctx context.Context, userID string, eventID string, date time.Time) ([]TimeLogEntry, error)

	// ListStaleOpen returns open entries whose time_in is older than cutoff.
	ListStaleOpen(ctx context.Context, cutoff time.Time) ([]TimeLogEntry, error)
}
