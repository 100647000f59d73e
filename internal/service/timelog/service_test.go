package timelog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/dtr"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/event"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/timelog"
)

// eventLat/eventLon anchor the fakes at a fixed venue.
const (
	eventLat = 14.5636541
	eventLon = 121.0676173
)

type fakeTxManager struct{}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEventRepo struct {
	events map[string]event.Event
}

func (f *fakeEventRepo) Create(ctx context.Context, e event.Event) (event.Event, error) {
	f.events[e.ID] = e
	return e, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return event.Event{}, event.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]event.Event, error) {
	var out []event.Event
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) SetLocation(ctx context.Context, id string, lat float64, lon float64) error {
	e, ok := f.events[id]
	if !ok {
		return event.ErrEventNotFound
	}
	e.Latitude = &lat
	e.Longitude = &lon
	f.events[id] = e
	return nil
}

type fakeTimeLogRepo struct {
	entries map[string]timelog.TimeLogEntry
	nextID  int
}

func (f *fakeTimeLogRepo) Create(ctx context.Context, entry timelog.TimeLogEntry) (timelog.TimeLogEntry, error) {
	f.nextID++
	entry.ID = fmt.Sprintf("tl-%d", f.nextID)
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeTimeLogRepo) GetByID(ctx context.Context, id string) (timelog.TimeLogEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return timelog.TimeLogEntry{}, timelog.ErrTimeLogNotFound
	}
	return e, nil
}

func (f *fakeTimeLogRepo) GetOpenEntry(ctx context.Context, userID string, eventID string) (timelog.TimeLogEntry, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.EventID == eventID && e.TimeOut == nil {
			return e, nil
		}
	}
	return timelog.TimeLogEntry{}, timelog.ErrNoActiveLog
}

func (f *fakeTimeLogRepo) CloseEntry(ctx context.Context, id string, timeOut time.Time, lat float64, lon float64, distance float64, withinRadius bool, autoClosed bool) error {
	e, ok := f.entries[id]
	if !ok || e.TimeOut != nil {
		return timelog.ErrNoActiveLog
	}
	e.TimeOut = &timeOut
	e.OutLatitude = &lat
	e.OutLongitude = &lon
	e.OutDistanceMeters = &distance
	e.OutWithinRadius = &withinRadius
	e.AutoClosed = autoClosed
	f.entries[id] = e
	return nil
}

func (f *fakeTimeLogRepo) ListByUserAndDate(ctx context.Context, userID string, eventID string, date time.Time) ([]timelog.TimeLogEntry, error) {
	var out []timelog.TimeLogEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeTimeLogRepo) ListStaleOpen(ctx context.Context, cutoff time.Time) ([]timelog.TimeLogEntry, error) {
	var out []timelog.TimeLogEntry
	for _, e := range f.entries {
		if e.TimeOut == nil && e.TimeIn.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeDTRService struct {
	processCalls int
	record       dtr.DailyTimeRecord
}

func (f *fakeDTRService) ProcessTimeLog(ctx context.Context, userID string, eventID string, date time.Time) (dtr.DailyTimeRecord, error) {
	f.processCalls++
	return f.record, nil
}

func (f *fakeDTRService) SetSchedule(ctx context.Context, req dtr.SetScheduleRequest) (dtr.DTRResponse, error) {
	return dtr.DTRResponse{}, nil
}

func (f *fakeDTRService) GetMyDTR(ctx context.Context, userID string, filter dtr.MyDTRFilter) (dtr.ListDTRResponse, error) {
	return dtr.ListDTRResponse{}, nil
}

func (f *fakeDTRService) GetOvertimeSummary(ctx context.Context, userID string, start time.Time, end time.Time) (dtr.OvertimeSummaryResponse, error) {
	return dtr.OvertimeSummaryResponse{}, nil
}

func (f *fakeDTRService) GetLateSummary(ctx context.Context, userID string, start time.Time, end time.Time) (dtr.LateSummaryResponse, error) {
	return dtr.LateSummaryResponse{}, nil
}

func newTestService() (timelog.TimeLogService, *fakeTimeLogRepo, *fakeEventRepo, *fakeDTRService) {
	lat, lon := eventLat, eventLon
	eventRepo := &fakeEventRepo{events: map[string]event.Event{
		"e1": {ID: "e1", Name: "Summit", Latitude: &lat, Longitude: &lon},
		"e2": {ID: "e2", Name: "No Venue Yet"},
	}}
	logRepo := &fakeTimeLogRepo{entries: make(map[string]timelog.TimeLogEntry)}
	dtrSvc := &fakeDTRService{}
	svc := NewTimeLogService(&fakeTxManager{}, logRepo, eventRepo, dtrSvc)
	return svc, logRepo, eventRepo, dtrSvc
}

func TestTimeInWithinRadius(t *testing.T) {
	svc, _, _, dtrSvc := newTestService()

	resp, err := svc.TimeIn(context.Background(), timelog.TimeInRequest{
		UserID:    "u1",
		EventID:   "e1",
		Latitude:  eventLat,
		Longitude: eventLon,
	})
	require.NoError(t, err)
	assert.True(t, resp.WithinRadius)
	assert.InDelta(t, 0, resp.DistanceMeters, 0.001)
	assert.Equal(t, 1, dtrSvc.processCalls)
}

func TestTimeInOutsideRadiusStillRecorded(t *testing.T) {
	svc, logRepo, _, _ := newTestService()

	// Roughly 1km north of the venue
	resp, err := svc.TimeIn(context.Background(), timelog.TimeInRequest{
		UserID:    "u1",
		EventID:   "e1",
		Latitude:  eventLat + 0.009,
		Longitude: eventLon,
	})
	require.NoError(t, err)
	assert.False(t, resp.WithinRadius)
	assert.Greater(t, resp.DistanceMeters, 50.0)
	assert.Len(t, logRepo.entries, 1)
}

func TestTimeInDuplicateOpenEntry(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := timelog.TimeInRequest{UserID: "u1", EventID: "e1", Latitude: eventLat, Longitude: eventLon}
	_, err := svc.TimeIn(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.TimeIn(context.Background(), req)
	assert.ErrorIs(t, err, timelog.ErrActiveLogExists)
}

func TestTimeInEventWithoutLocation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.TimeIn(context.Background(), timelog.TimeInRequest{
		UserID:    "u1",
		EventID:   "e2",
		Latitude:  eventLat,
		Longitude: eventLon,
	})
	assert.ErrorIs(t, err, event.ErrEventLocationNotSet)
}

func TestTimeInUnknownEvent(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.TimeIn(context.Background(), timelog.TimeInRequest{
		UserID:    "u1",
		EventID:   "missing",
		Latitude:  eventLat,
		Longitude: eventLon,
	})
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestTimeOutWithoutOpenEntry(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.TimeOut(context.Background(), timelog.TimeOutRequest{
		UserID:    "u1",
		EventID:   "e1",
		Latitude:  eventLat,
		Longitude: eventLon,
	})
	assert.ErrorIs(t, err, timelog.ErrNoActiveLog)
}

func TestTimeOutClosesEntry(t *testing.T) {
	svc, logRepo, _, dtrSvc := newTestService()
	dtrSvc.record = dtr.DailyTimeRecord{TotalHours: 8, UndertimeMinutes: 0}

	_, err := svc.TimeIn(context.Background(), timelog.TimeInRequest{
		UserID: "u1", EventID: "e1", Latitude: eventLat, Longitude: eventLon,
	})
	require.NoError(t, err)

	resp, err := svc.TimeOut(context.Background(), timelog.TimeOutRequest{
		UserID: "u1", EventID: "e1", Latitude: eventLat, Longitude: eventLon,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.0, resp.TotalHours)
	assert.Equal(t, 2, dtrSvc.processCalls)

	_, err = logRepo.GetOpenEntry(context.Background(), "u1", "e1")
	assert.ErrorIs(t, err, timelog.ErrNoActiveLog)
}

func TestTimeInValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.TimeIn(context.Background(), timelog.TimeInRequest{
		UserID:    "u1",
		EventID:   "",
		Latitude:  200,
		Longitude: eventLon,
	})
	require.Error(t, err)
}

func TestAutoCloseStale(t *testing.T) {
	svc, logRepo, _, dtrSvc := newTestService()

	old := time.Now().Add(-25 * time.Hour)
	logRepo.entries["stale"] = timelog.TimeLogEntry{
		ID: "stale", UserID: "u1", EventID: "e1", TimeIn: old,
		Latitude: eventLat, Longitude: eventLon, WithinRadius: true,
	}
	recent := time.Now().Add(-1 * time.Hour)
	logRepo.entries["fresh"] = timelog.TimeLogEntry{
		ID: "fresh", UserID: "u2", EventID: "e1", TimeIn: recent,
		Latitude: eventLat, Longitude: eventLon, WithinRadius: true,
	}

	closed, err := svc.AutoCloseStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.True(t, logRepo.entries["stale"].AutoClosed)
	assert.NotNil(t, logRepo.entries["stale"].TimeOut)
	assert.Nil(t, logRepo.entries["fresh"].TimeOut)
	assert.Equal(t, 1, dtrSvc.processCalls)
}
