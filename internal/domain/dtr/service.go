package dtr

import (
	"context"
	"time"
)

// DTRService maintains derived daily records over raw time log entries.
type DTRService interface {
	// ProcessTimeLog refolds the daily record for (user, event, date) from
	// its time log entries. Must run inside the caller's transaction.
	ProcessTimeLog(ctx context.Context, userID string, eventID string, date time.Time) (DailyTimeRecord, error)

	// SetSchedule upserts scheduled in/out times and recomputes the record.
	SetSchedule(ctx context.Context, req SetScheduleRequest) (DTRResponse, error)

	GetMyDTR(ctx context.Context, userID string, filter MyDTRFilter) (ListDTRResponse, error)

	GetOvertimeSummary(ctx context.Context, userID string, start time.Time, end time.Time) (OvertimeSummaryResponse, error)

	GetLateSummary(ctx context.Context, userID string, start time.Time, end time.Time) (LateSummaryResponse, error)
}
