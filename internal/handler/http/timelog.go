package http

import (
	"encoding/json"
	"net/http"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/timelog"
	"github.com/timekeep-ph/dtr-backend-go/internal/handler/http/response"
)

type TimeLogHandler struct {
	timeLogService timelog.TimeLogService
}

func NewTimeLogHandler(timeLogService timelog.TimeLogService) TimeLogHandler {
	return TimeLogHandler{timeLogService: timeLogService}
}

func (h *TimeLogHandler) TimeIn(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req timelog.TimeInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserID = userID

	resp, err := h.timeLogService.TimeIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time in recorded", resp)
}

func (h *TimeLogHandler) TimeOut(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req timelog.TimeOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserID = userID

	resp, err := h.timeLogService.TimeOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
