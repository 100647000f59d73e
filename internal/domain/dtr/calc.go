package dtr

import (
	"math"
	"time"
)

const (
	// GracePeriodMinutes is forgiven before lateness starts counting.
	GracePeriodMinutes = 15

	// StandardWorkMinutes is the full-day baseline (8 hours).
	StandardWorkMinutes = 480

	// MinOvertimeMinutes below which overtime is not credited.
	MinOvertimeMinutes = 30

	lunchStartHour = 12
	lunchEndHour   = 13
)

// Observation is the slice of a raw time log entry the fold cares about.
type Observation struct {
	TimeIn       time.Time
	TimeOut      *time.Time
	WithinRadius bool
}

// Recompute folds the day's observations into the record's derived fields.
// Observations must be ordered by TimeIn ascending. The fold is
// deterministic and idempotent: running it twice over the same entries
// yields the same record.
func Recompute(rec *DailyTimeRecord, obs []Observation) {
	rec.TimeLogCount = len(obs)
	rec.ActualTimeIn = nil
	rec.ActualTimeOut = nil
	rec.LateMinutes = 0
	rec.OvertimeMinutes = 0
	rec.UndertimeMinutes = 0
	rec.TotalHours = 0
	rec.RegularHours = 0
	rec.OvertimeHours = 0

	for _, o := range obs {
		// First within-radius time-in of the day wins.
		if rec.ActualTimeIn == nil && o.WithinRadius {
			t := o.TimeIn
			rec.ActualTimeIn = &t
		}
		// Latest time-out of the day wins.
		if o.TimeOut != nil {
			if rec.ActualTimeOut == nil || o.TimeOut.After(*rec.ActualTimeOut) {
				t := *o.TimeOut
				rec.ActualTimeOut = &t
			}
		}
	}

	if rec.ActualTimeIn != nil && rec.ScheduledTimeIn != nil {
		rec.LateMinutes = lateMinutes(*rec.ActualTimeIn, *rec.ScheduledTimeIn, rec.LogDate)
	}

	if rec.ActualTimeIn == nil || rec.ActualTimeOut == nil {
		return
	}

	worked := workedMinutes(*rec.ActualTimeIn, *rec.ActualTimeOut)

	rec.TotalHours = round2(float64(worked) / 60)
	rec.RegularHours = math.Min(8, rec.TotalHours)

	if ot := worked - StandardWorkMinutes; ot >= MinOvertimeMinutes {
		rec.OvertimeMinutes = ot
		rec.OvertimeHours = round2(float64(ot) / 60)
	}

	if worked < StandardWorkMinutes {
		rec.UndertimeMinutes = StandardWorkMinutes - worked
	}
}

// lateMinutes compares the actual arrival to the scheduled clock on the
// given date. The grace period is forgiven in full, not tapered.
func lateMinutes(actual time.Time, scheduled string, date time.Time) int {
	sched, err := atClock(date, scheduled, actual.Location())
	if err != nil {
		return 0
	}

	raw := int(actual.Sub(sched).Minutes())
	if raw <= GracePeriodMinutes {
		return 0
	}
	return raw - GracePeriodMinutes
}

// workedMinutes is the in→out span minus the overlap with the fixed
// lunch window [12:00, 13:00) on the day of arrival.
func workedMinutes(in, out time.Time) int {
	if !out.After(in) {
		return 0
	}

	lunchStart := time.Date(in.Year(), in.Month(), in.Day(), lunchStartHour, 0, 0, 0, in.Location())
	lunchEnd := time.Date(in.Year(), in.Month(), in.Day(), lunchEndHour, 0, 0, 0, in.Location())

	total := int(out.Sub(in).Minutes())
	total -= overlapMinutes(in, out, lunchStart, lunchEnd)
	if total < 0 {
		return 0
	}
	return total
}

func overlapMinutes(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Minutes())
}

// atClock combines a date with an HH:MM clock value in the given location.
func atClock(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		t, err = time.Parse("15:04:05", clock)
		if err != nil {
			return time.Time{}, err
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
