package dtr

import (
	"context"
	"time"
)

type DTRRepository interface {
	// GetOrCreateForUpdate fetches the record for (user, event, date),
	// creating an empty one if missing, and locks it for the duration of
	// the surrounding transaction so concurrent folds serialize.
	GetOrCreateForUpdate(ctx context.Context, userID string, eventID string, date time.Time) (DailyTimeRecord, error)

	GetByUserEventDate(ctx context.Context, userID string, eventID string, date time.Time) (DailyTimeRecord, error)

	Update(ctx context.Context, rec DailyTimeRecord) error

	// ListByUserRange returns records for the user between start and end
	// inclusive, ordered by log_date ascending.
	ListByUserRange(ctx context.Context, userID string, eventID *string, start time.Time, end time.Time) ([]DailyTimeRecord, error)
}
