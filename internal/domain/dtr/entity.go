package dtr

import (
	"time"
)

// Daily record status values, derived, never stored.
const (
	StatusAbsent        = "Absent"
	StatusOnDuty        = "On Duty"
	StatusCompletedOT   = "Completed with OT"
	StatusCompletedUT   = "Completed with UT"
	StatusCompletedLate = "Completed (Late)"
	StatusCompleted     = "Completed"
)

// DailyTimeRecord is the derived attendance summary for one user on one
// event day. Raw time log entries are the source of truth; every field
// below actual_time_in is recomputable from them.
type DailyTimeRecord struct {
	ID               string
	UserID           string
	EventID          string
	LogDate          time.Time
	ScheduledTimeIn  *string // HH:MM
	ScheduledTimeOut *string // HH:MM
	ActualTimeIn     *time.Time
	ActualTimeOut    *time.Time
	LateMinutes      int
	OvertimeMinutes  int
	UndertimeMinutes int
	TotalHours       float64
	RegularHours     float64
	OvertimeHours    float64
	TimeLogCount     int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Status derives the display status from the record's current fields.
func (r DailyTimeRecord) Status() string {
	switch {
	case r.ActualTimeIn == nil:
		return StatusAbsent
	case r.ActualTimeOut == nil:
		return StatusOnDuty
	case r.OvertimeMinutes > 0:
		return StatusCompletedOT
	case r.UndertimeMinutes > 0:
		return StatusCompletedUT
	case r.LateMinutes > 0:
		return StatusCompletedLate
	default:
		return StatusCompleted
	}
}
