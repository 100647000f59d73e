package dtr

import (
	"context"
	"fmt"
	"time"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/dtr"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/timelog"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/validator"
)

type DTRServiceImpl struct {
	txm database.TxManager
	dtr.DTRRepository
	timelog.TimeLogRepository
}

func NewDTRService(txm database.TxManager, dtrRepo dtr.DTRRepository, timeLogRepo timelog.TimeLogRepository) dtr.DTRService {
	return &DTRServiceImpl{
		txm:               txm,
		DTRRepository:     dtrRepo,
		TimeLogRepository: timeLogRepo,
	}
}

// ProcessTimeLog implements dtr.DTRService. It assumes the caller already
// opened a transaction; the row lock taken here lives until that
// transaction ends.
func (s *DTRServiceImpl) ProcessTimeLog(ctx context.Context, userID string, eventID string, date time.Time) (dtr.DailyTimeRecord, error) {
	day := truncateToDay(date)

	rec, err := s.DTRRepository.GetOrCreateForUpdate(ctx, userID, eventID, day)
	if err != nil {
		return dtr.DailyTimeRecord{}, fmt.Errorf("failed to load daily record: %w", err)
	}

	entries, err := s.TimeLogRepository.ListByUserAndDate(ctx, userID, eventID, day)
	if err != nil {
		return dtr.DailyTimeRecord{}, fmt.Errorf("failed to list time logs: %w", err)
	}

	dtr.Recompute(&rec, toObservations(entries))

	if err := s.DTRRepository.Update(ctx, rec); err != nil {
		return dtr.DailyTimeRecord{}, fmt.Errorf("failed to update daily record: %w", err)
	}

	return rec, nil
}

// SetSchedule implements dtr.DTRService.
func (s *DTRServiceImpl) SetSchedule(ctx context.Context, req dtr.SetScheduleRequest) (dtr.DTRResponse, error) {
	if err := req.Validate(); err != nil {
		return dtr.DTRResponse{}, err
	}

	inClock, _ := validator.IsValidTimeOfDay(req.ScheduledTimeIn)
	outClock, _ := validator.IsValidTimeOfDay(req.ScheduledTimeOut)
	if !outClock.After(inClock) {
		return dtr.DTRResponse{}, dtr.ErrInvalidScheduleRange
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	var result dtr.DailyTimeRecord
	err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.DTRRepository.GetOrCreateForUpdate(ctx, req.UserID, req.EventID, date)
		if err != nil {
			return fmt.Errorf("failed to load daily record: %w", err)
		}

		rec.ScheduledTimeIn = &req.ScheduledTimeIn
		rec.ScheduledTimeOut = &req.ScheduledTimeOut

		entries, err := s.TimeLogRepository.ListByUserAndDate(ctx, req.UserID, req.EventID, date)
		if err != nil {
			return fmt.Errorf("failed to list time logs: %w", err)
		}

		dtr.Recompute(&rec, toObservations(entries))

		if err := s.DTRRepository.Update(ctx, rec); err != nil {
			return fmt.Errorf("failed to update daily record: %w", err)
		}

		result = rec
		return nil
	})
	if err != nil {
		return dtr.DTRResponse{}, err
	}

	return dtr.ToDTRResponse(result), nil
}

// GetMyDTR implements dtr.DTRService.
func (s *DTRServiceImpl) GetMyDTR(ctx context.Context, userID string, filter dtr.MyDTRFilter) (dtr.ListDTRResponse, error) {
	if err := filter.Validate(); err != nil {
		return dtr.ListDTRResponse{}, err
	}

	start, end := rangeFromFilter(filter)

	records, err := s.DTRRepository.ListByUserRange(ctx, userID, filter.EventID, start, end)
	if err != nil {
		return dtr.ListDTRResponse{}, fmt.Errorf("failed to list daily records: %w", err)
	}

	resp := dtr.ListDTRResponse{Records: make([]dtr.DTRResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, dtr.ToDTRResponse(rec))
		resp.TotalHours += rec.TotalHours
		resp.TotalLateMinutes += rec.LateMinutes
		resp.TotalOvertimeHours += rec.OvertimeHours
		if rec.ActualTimeIn != nil {
			resp.DaysPresent++
		}
	}

	return resp, nil
}

// GetOvertimeSummary implements dtr.DTRService.
func (s *DTRServiceImpl) GetOvertimeSummary(ctx context.Context, userID string, start time.Time, end time.Time) (dtr.OvertimeSummaryResponse, error) {
	records, err := s.DTRRepository.ListByUserRange(ctx, userID, nil, start, end)
	if err != nil {
		return dtr.OvertimeSummaryResponse{}, fmt.Errorf("failed to list daily records: %w", err)
	}

	resp := dtr.OvertimeSummaryResponse{
		UserID:    userID,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Records:   make([]dtr.DTRResponse, 0),
	}
	for _, rec := range records {
		if rec.OvertimeMinutes == 0 {
			continue
		}
		resp.Records = append(resp.Records, dtr.ToDTRResponse(rec))
		resp.TotalOvertimeHours += rec.OvertimeHours
		resp.DaysWithOvertime++
	}

	return resp, nil
}

// GetLateSummary implements dtr.DTRService.
func (s *DTRServiceImpl) GetLateSummary(ctx context.Context, userID string, start time.Time, end time.Time) (dtr.LateSummaryResponse, error) {
	records, err := s.DTRRepository.ListByUserRange(ctx, userID, nil, start, end)
	if err != nil {
		return dtr.LateSummaryResponse{}, fmt.Errorf("failed to list daily records: %w", err)
	}

	resp := dtr.LateSummaryResponse{
		UserID:    userID,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Records:   make([]dtr.DTRResponse, 0),
	}
	for _, rec := range records {
		if rec.LateMinutes == 0 {
			continue
		}
		resp.Records = append(resp.Records, dtr.ToDTRResponse(rec))
		resp.TotalLateMinutes += rec.LateMinutes
		resp.DaysLate++
	}

	return resp, nil
}

func toObservations(entries []timelog.TimeLogEntry) []dtr.Observation {
	obs := make([]dtr.Observation, 0, len(entries))
	for _, e := range entries {
		obs = append(obs, dtr.Observation{
			TimeIn:       e.TimeIn,
			TimeOut:      e.TimeOut,
			WithinRadius: e.WithinRadius,
		})
	}
	return obs
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// rangeFromFilter defaults to the trailing 30 days.
func rangeFromFilter(filter dtr.MyDTRFilter) (time.Time, time.Time) {
	now := time.Now()
	end := truncateToDay(now)
	start := end.AddDate(0, 0, -30)

	if filter.StartDate != nil && *filter.StartDate != "" {
		if t, err := time.Parse("2006-01-02", *filter.StartDate); err == nil {
			start = t
		}
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		if t, err := time.Parse("2006-01-02", *filter.EndDate); err == nil {
			end = t
		}
	}

	return start, end
}
