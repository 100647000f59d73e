package event

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventLocationNotSet = errors.New("event location has not been set")
)
