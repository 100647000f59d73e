package timelog

import "errors"

var (
	// ErrActiveLogExists means the user already has an open entry for the event.
	ErrActiveLogExists = errors.New("you already have an active time log for this event")

	// ErrNoActiveLog means time-out was requested with nothing open.
	ErrNoActiveLog = errors.New("no active time log found for this event")

	ErrTimeLogNotFound = errors.New("time log not found")
)
