package timelog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/dtr"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/event"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/timelog"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/geo"
)

// StaleEntryAge is how long an open entry may sit before the auto-close
// job claims it.
const StaleEntryAge = 20 * time.Hour

type TimeLogServiceImpl struct {
	txm database.TxManager
	timelog.TimeLogRepository
	event.EventRepository
	dtrService dtr.DTRService
}

func NewTimeLogService(txm database.TxManager, timeLogRepo timelog.TimeLogRepository, eventRepo event.EventRepository, dtrService dtr.DTRService) timelog.TimeLogService {
	return &TimeLogServiceImpl{
		txm:               txm,
		TimeLogRepository: timeLogRepo,
		EventRepository:   eventRepo,
		dtrService:        dtrService,
	}
}

// TimeIn implements timelog.TimeLogService. Entries outside the geofence
// are still recorded; within_radius is advisory and the daily fold decides
// what counts.
func (s *TimeLogServiceImpl) TimeIn(ctx context.Context, req timelog.TimeInRequest) (timelog.TimeInResponse, error) {
	if err := req.Validate(); err != nil {
		return timelog.TimeInResponse{}, err
	}

	ev, err := s.EventRepository.GetByID(ctx, req.EventID)
	if err != nil {
		return timelog.TimeInResponse{}, err
	}
	if !ev.HasLocation() {
		return timelog.TimeInResponse{}, event.ErrEventLocationNotSet
	}

	now := time.Now()
	distance := geo.Distance(req.Latitude, req.Longitude, *ev.Latitude, *ev.Longitude)
	within := geo.WithinRadius(distance, geo.DefaultRadiusMeters)

	var (
		created timelog.TimeLogEntry
		rec     dtr.DailyTimeRecord
	)
	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.TimeLogRepository.GetOpenEntry(ctx, req.UserID, req.EventID)
		if err == nil {
			return timelog.ErrActiveLogExists
		}
		if !errors.Is(err, timelog.ErrNoActiveLog) {
			return fmt.Errorf("failed to check open entry: %w", err)
		}

		created, err = s.TimeLogRepository.Create(ctx, timelog.TimeLogEntry{
			UserID:         req.UserID,
			EventID:        req.EventID,
			TimeIn:         now,
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			DistanceMeters: distance,
			WithinRadius:   within,
		})
		if err != nil {
			return fmt.Errorf("failed to create time log: %w", err)
		}

		rec, err = s.dtrService.ProcessTimeLog(ctx, req.UserID, req.EventID, now)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return timelog.TimeInResponse{}, err
	}

	return timelog.TimeInResponse{
		ID:             created.ID,
		EventID:        created.EventID,
		TimeIn:         created.TimeIn.Format(time.RFC3339),
		DistanceMeters: distance,
		WithinRadius:   within,
		LateMinutes:    rec.LateMinutes,
	}, nil
}

// TimeOut implements timelog.TimeLogService.
func (s *TimeLogServiceImpl) TimeOut(ctx context.Context, req timelog.TimeOutRequest) (timelog.TimeOutResponse, error) {
	if err := req.Validate(); err != nil {
		return timelog.TimeOutResponse{}, err
	}

	ev, err := s.EventRepository.GetByID(ctx, req.EventID)
	if err != nil {
		return timelog.TimeOutResponse{}, err
	}
	if !ev.HasLocation() {
		return timelog.TimeOutResponse{}, event.ErrEventLocationNotSet
	}

	now := time.Now()
	distance := geo.Distance(req.Latitude, req.Longitude, *ev.Latitude, *ev.Longitude)
	within := geo.WithinRadius(distance, geo.DefaultRadiusMeters)

	var (
		open timelog.TimeLogEntry
		rec  dtr.DailyTimeRecord
	)
	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		open, err = s.TimeLogRepository.GetOpenEntry(ctx, req.UserID, req.EventID)
		if err != nil {
			return err
		}

		if err := s.TimeLogRepository.CloseEntry(ctx, open.ID, now, req.Latitude, req.Longitude, distance, within, false); err != nil {
			return fmt.Errorf("failed to close time log: %w", err)
		}

		// Fold over the day the entry opened, not the day it closed
		rec, err = s.dtrService.ProcessTimeLog(ctx, req.UserID, req.EventID, open.TimeIn)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return timelog.TimeOutResponse{}, err
	}

	return timelog.TimeOutResponse{
		ID:               open.ID,
		EventID:          open.EventID,
		TimeOut:          now.Format(time.RFC3339),
		DistanceMeters:   distance,
		WithinRadius:     within,
		TotalHours:       rec.TotalHours,
		OvertimeMinutes:  rec.OvertimeMinutes,
		UndertimeMinutes: rec.UndertimeMinutes,
	}, nil
}

// AutoCloseStale implements timelog.TimeLogService. Stale entries close at
// the observer's last known position so the exit distance stays honest.
func (s *TimeLogServiceImpl) AutoCloseStale(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-StaleEntryAge)

	stale, err := s.TimeLogRepository.ListStaleOpen(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale entries: %w", err)
	}

	closed := 0
	for _, entry := range stale {
		entry := entry
		err := s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
			now := time.Now()
			if err := s.TimeLogRepository.CloseEntry(ctx, entry.ID, now, entry.Latitude, entry.Longitude, entry.DistanceMeters, entry.WithinRadius, true); err != nil {
				return err
			}
			if _, err := s.dtrService.ProcessTimeLog(ctx, entry.UserID, entry.EventID, entry.TimeIn); err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			// Another worker may have closed it already
			if errors.Is(err, timelog.ErrNoActiveLog) {
				continue
			}
			return closed, err
		}
		closed++
	}

	return closed, nil
}
