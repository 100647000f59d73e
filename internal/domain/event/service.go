package event

import (
	"context"
)

// EventService defines admin-side event management.
type EventService interface {
	CreateEvent(ctx context.Context, req CreateEventRequest, createdBy string) (EventResponse, error)

	GetEvent(ctx context.Context, id string) (EventResponse, error)

	ListEvents(ctx context.Context) ([]EventResponse, error)

	SetLocation(ctx context.Context, req SetLocationRequest) (EventResponse, error)
}
