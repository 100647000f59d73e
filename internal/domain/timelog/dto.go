package timelog

import (
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/validator"
)

type TimeInRequest struct {
	UserID    string  `json:"-"`
	EventID   string  `json:"event_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *TimeInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimeOutRequest struct {
	UserID    string  `json:"-"`
	EventID   string  `json:"event_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (r *TimeOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EventID) {
		errs = append(errs, validator.ValidationError{
			Field:   "event_id",
			Message: "event_id is required",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimeInResponse struct {
	ID             string  `json:"id"`
	EventID        string  `json:"event_id"`
	TimeIn         string  `json:"time_in"`
	DistanceMeters float64 `json:"distance_meters"`
	WithinRadius   bool    `json:"within_radius"`
	LateMinutes    int     `json:"late_minutes"`
}

type TimeOutResponse struct {
	ID               string  `json:"id"`
	EventID          string  `json:"event_id"`
	TimeOut          string  `json:"time_out"`
	DistanceMeters   float64 `json:"distance_meters"`
	WithinRadius     bool    `json:"within_radius"`
	TotalHours       float64 `json:"total_hours"`
	OvertimeMinutes  int     `json:"overtime_minutes"`
	UndertimeMinutes int     `json:"undertime_minutes"`
}
