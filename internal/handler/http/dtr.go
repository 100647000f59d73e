package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/dtr"
	"github.com/timekeep-ph/dtr-backend-go/internal/handler/http/response"
)

type DTRHandler struct {
	dtrService dtr.DTRService
}

func NewDTRHandler(dtrService dtr.DTRService) DTRHandler {
	return DTRHandler{dtrService: dtrService}
}

func (h *DTRHandler) GetMyDTR(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	filter := dtr.MyDTRFilter{}
	q := r.URL.Query()
	if v := q.Get("event_id"); v != "" {
		filter.EventID = &v
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}

	resp, err := h.dtrService.GetMyDTR(r.Context(), userID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *DTRHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	var req dtr.SetScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.dtrService.SetSchedule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *DTRHandler) OvertimeSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	start, end, err := summaryRange(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	resp, err := h.dtrService.GetOvertimeSummary(r.Context(), userID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *DTRHandler) LateSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	start, end, err := summaryRange(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	resp, err := h.dtrService.GetLateSummary(r.Context(), userID, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// summaryRange reads start_date/end_date query params, defaulting to the
// trailing 30 days.
func summaryRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -30)

	q := r.URL.Query()
	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	}

	return start, end, nil
}
