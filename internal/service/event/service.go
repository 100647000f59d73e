package event

import (
	"context"
	"fmt"
	"time"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/event"
)

type EventServiceImpl struct {
	event.EventRepository
}

func NewEventService(eventRepo event.EventRepository) event.EventService {
	return &EventServiceImpl{EventRepository: eventRepo}
}

// CreateEvent implements event.EventService.
func (s *EventServiceImpl) CreateEvent(ctx context.Context, req event.CreateEventRequest, createdBy string) (event.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return event.EventResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	created, err := s.EventRepository.Create(ctx, event.Event{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return event.EventResponse{}, fmt.Errorf("failed to create event: %w", err)
	}

	return event.ToEventResponse(created), nil
}

// GetEvent implements event.EventService.
func (s *EventServiceImpl) GetEvent(ctx context.Context, id string) (event.EventResponse, error) {
	e, err := s.EventRepository.GetByID(ctx, id)
	if err != nil {
		return event.EventResponse{}, err
	}
	return event.ToEventResponse(e), nil
}

// ListEvents implements event.EventService.
func (s *EventServiceImpl) ListEvents(ctx context.Context) ([]event.EventResponse, error) {
	events, err := s.EventRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	resp := make([]event.EventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, event.ToEventResponse(e))
	}
	return resp, nil
}

// SetLocation implements event.EventService.
func (s *EventServiceImpl) SetLocation(ctx context.Context, req event.SetLocationRequest) (event.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return event.EventResponse{}, err
	}

	if err := s.EventRepository.SetLocation(ctx, req.EventID, req.Latitude, req.Longitude); err != nil {
		return event.EventResponse{}, err
	}

	return s.GetEvent(ctx, req.EventID)
}
