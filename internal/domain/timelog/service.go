package timelog

import (
	"context"
)

// TimeLogService processes raw time-in/time-out observations. Geofence
// distance is recorded but never blocks the entry.
type TimeLogService interface {
	TimeIn(ctx context.Context, req TimeInRequest) (TimeInResponse, error)

	TimeOut(ctx context.Context, req TimeOutRequest) (TimeOutResponse, error)

	// AutoCloseStale closes open entries older than the cutoff and reprocesses
	// their daily records. Returns the number of entries closed.
	AutoCloseStale(ctx context.Context) (int, error)
}
