package dtr

import (
	"time"

	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/validator"
)

type SetScheduleRequest struct {
	UserID           string `json:"user_id"`
	EventID          string `json:"event_id"`
	Date             string `json:"date"` // YYYY-MM-DD
	ScheduledTimeIn  string `json:"scheduled_time_in"`
	ScheduledTimeOut string `json:"scheduled_time_out"`
}

func (r *SetScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if _, valid := validator.IsValidTimeOfDay(r.ScheduledTimeIn); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_time_in",
			Message: "scheduled_time_in must be in HH:MM format",
		})
	}

	if _, valid := validator.IsValidTimeOfDay(r.ScheduledTimeOut); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "scheduled_time_out",
			Message: "scheduled_time_out must be in HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MyDTRFilter struct {
	EventID   *string `json:"event_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *MyDTRFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DTRResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	EventID          string  `json:"event_id"`
	LogDate          string  `json:"log_date"`
	ScheduledTimeIn  *string `json:"scheduled_time_in,omitempty"`
	ScheduledTimeOut *string `json:"scheduled_time_out,omitempty"`
	ActualTimeIn     *string `json:"actual_time_in,omitempty"`
	ActualTimeOut    *string `json:"actual_time_out,omitempty"`
	LateMinutes      int     `json:"late_minutes"`
	OvertimeMinutes  int     `json:"overtime_minutes"`
	UndertimeMinutes int     `json:"undertime_minutes"`
	TotalHours       float64 `json:"total_hours"`
	RegularHours     float64 `json:"regular_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
	TimeLogCount     int     `json:"time_log_count"`
	Status           string  `json:"status"`
}

func ToDTRResponse(r DailyTimeRecord) DTRResponse {
	resp := DTRResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		EventID:          r.EventID,
		LogDate:          r.LogDate.Format("2006-01-02"),
		ScheduledTimeIn:  r.ScheduledTimeIn,
		ScheduledTimeOut: r.ScheduledTimeOut,
		LateMinutes:      r.LateMinutes,
		OvertimeMinutes:  r.OvertimeMinutes,
		UndertimeMinutes: r.UndertimeMinutes,
		TotalHours:       r.TotalHours,
		RegularHours:     r.RegularHours,
		OvertimeHours:    r.OvertimeHours,
		TimeLogCount:     r.TimeLogCount,
		Status:           r.Status(),
	}
	if r.ActualTimeIn != nil {
		s := r.ActualTimeIn.Format(time.RFC3339)
		resp.ActualTimeIn = &s
	}
	if r.ActualTimeOut != nil {
		s := r.ActualTimeOut.Format(time.RFC3339)
		resp.ActualTimeOut = &s
	}
	return resp
}

type ListDTRResponse struct {
	Records            []DTRResponse `json:"records"`
	TotalHours         float64       `json:"total_hours"`
	TotalLateMinutes   int           `json:"total_late_minutes"`
	TotalOvertimeHours float64       `json:"total_overtime_hours"`
	DaysPresent        int           `json:"days_present"`
}

type OvertimeSummaryResponse struct {
	UserID             string        `json:"user_id"`
	StartDate          string        `json:"start_date"`
	EndDate            string        `json:"end_date"`
	TotalOvertimeHours float64       `json:"total_overtime_hours"`
	DaysWithOvertime   int           `json:"days_with_overtime"`
	Records            []DTRResponse `json:"records"`
}

type LateSummaryResponse struct {
	UserID           string        `json:"user_id"`
	StartDate        string        `json:"start_date"`
	EndDate          string        `json:"end_date"`
	TotalLateMinutes int           `json:"total_late_minutes"`
	DaysLate         int           `json:"days_late"`
	Records          []DTRResponse `json:"records"`
}
