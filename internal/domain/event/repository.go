package event

import (
	"context"
)

type EventRepository interface {
	Create(ctx context.Context, e Event) (Event, error)

	GetByID(ctx context.Context, id string) (Event, error)

	List(ctx context.Context) ([]Event, error)

	// SetLocation pins the event's geofence anchor.
	SetLocation(ctx context.Context, id string, lat float64, lon float64) error
}
