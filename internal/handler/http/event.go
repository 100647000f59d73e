package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/event"
	"github.com/timekeep-ph/dtr-backend-go/internal/handler/http/response"
)

type EventHandler struct {
	eventService event.EventService
}

func NewEventHandler(eventService event.EventService) EventHandler {
	return EventHandler{eventService: eventService}
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req event.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.eventService.CreateEvent(r.Context(), req, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Event created", resp)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eventService.ListEvents(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.eventService.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *EventHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	var req event.SetLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EventID = chi.URLParam(r, "id")

	resp, err := h.eventService.SetLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
