package dtr

import "errors"

var (
	ErrRecordNotFound = errors.New("daily time record not found")

	// ErrInvalidScheduleRange means scheduled time-out is not after time-in.
	ErrInvalidScheduleRange = errors.New("scheduled time out must be after scheduled time in")
)
