package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/timelog"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
)

type timeLogRepositoryImpl struct {
	db *database.DB
}

func NewTimeLogRepository(db *database.DB) timelog.TimeLogRepository {
	return &timeLogRepositoryImpl{db: db}
}

const timeLogColumns = `id, user_id, event_id, time_in, time_out, latitude, longitude,
		distance_meters, within_radius, out_latitude, out_longitude,
		out_distance_meters, out_within_radius, auto_closed, created_at, updated_at`

func scanTimeLog(row pgx.Row) (timelog.TimeLogEntry, error) {
	var e timelog.TimeLogEntry
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.EventID,
		&e.TimeIn,
		&e.TimeOut,
		&e.Latitude,
		&e.Longitude,
		&e.DistanceMeters,
		&e.WithinRadius,
		&e.OutLatitude,
		&e.OutLongitude,
		&e.OutDistanceMeters,
		&e.OutWithinRadius,
		&e.AutoClosed,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func (r *timeLogRepositoryImpl) Create(ctx context.Context, entry timelog.TimeLogEntry) (timelog.TimeLogEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_logs (user_id, event_id, time_in, latitude, longitude,
			distance_meters, within_radius)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + timeLogColumns

	created, err := scanTimeLog(q.QueryRow(ctx, query,
		entry.UserID,
		entry.EventID,
		entry.TimeIn,
		entry.Latitude,
		entry.Longitude,
		entry.DistanceMeters,
		entry.WithinRadius,
	))
	if err != nil {
		return timelog.TimeLogEntry{}, err
	}

	return created, nil
}

func (r *timeLogRepositoryImpl) GetByID(ctx context.Context, id string) (timelog.TimeLogEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeLogColumns + ` FROM time_logs WHERE id = $1`

	e, err := scanTimeLog(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timelog.TimeLogEntry{}, timelog.ErrTimeLogNotFound
		}
		return timelog.TimeLogEntry{}, err
	}

	return e, nil
}

func (r *timeLogRepositoryImpl) GetOpenEntry(ctx context.Context, userID string, eventID string) (timelog.TimeLogEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeLogColumns + `
		FROM time_logs
		WHERE user_id = $1 AND event_id = $2 AND time_out IS NULL
		ORDER BY time_in DESC
		LIMIT 1`

	e, err := scanTimeLog(q.QueryRow(ctx, query, userID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timelog.TimeLogEntry{}, timelog.ErrNoActiveLog
		}
		return timelog.TimeLogEntry{}, err
	}

	return e, nil
}

func (r *timeLogRepositoryImpl) CloseEntry(ctx context.Context, id string, timeOut time.Time, lat float64, lon float64, distance float64, withinRadius bool, autoClosed bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_logs
		SET time_out = $1, out_latitude = $2, out_longitude = $3,
			out_distance_meters = $4, out_within_radius = $5, auto_closed = $6,
			updated_at = NOW()
		WHERE id = $7 AND time_out IS NULL`

	tag, err := q.Exec(ctx, query, timeOut, lat, lon, distance, withinRadius, autoClosed, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return timelog.ErrNoActiveLog
	}
	return nil
}

func (r *timeLogRepositoryImpl) ListByUserAndDate(ctx context.Context, userID string, eventID string, date time.Time) ([]timelog.TimeLogEntry, error) {
	q := GetQuerier(ctx, r.db)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT ` + timeLogColumns + `
		FROM time_logs
		WHERE user_id = $1 AND event_id = $2 AND time_in >= $3 AND time_in < $4
		ORDER BY time_in ASC`

	rows, err := q.Query(ctx, query, userID, eventID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []timelog.TimeLogEntry
	for rows.Next() {
		e, err := scanTimeLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *timeLogRepositoryImpl) ListStaleOpen(ctx context.Context, cutoff time.Time) ([]timelog.TimeLogEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeLogColumns + `
		FROM time_logs
		WHERE time_out IS NULL AND time_in < $1
		ORDER BY time_in ASC`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []timelog.TimeLogEntry
	for rows.Next() {
		e, err := scanTimeLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
