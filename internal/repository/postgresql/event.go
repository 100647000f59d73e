package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/event"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
)

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) event.EventRepository {
	return &eventRepositoryImpl{db: db}
}

const eventColumns = `id, name, description, address, date, start_time, end_time,
		latitude, longitude, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (event.Event, error) {
	var e event.Event
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.Address,
		&e.Date,
		&e.StartTime,
		&e.EndTime,
		&e.Latitude,
		&e.Longitude,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func (r *eventRepositoryImpl) Create(ctx context.Context, e event.Event) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO events (name, description, address, date, start_time, end_time,
			latitude, longitude, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + eventColumns

	created, err := scanEvent(q.QueryRow(ctx, query,
		e.Name,
		e.Description,
		e.Address,
		e.Date,
		e.StartTime,
		e.EndTime,
		e.Latitude,
		e.Longitude,
		e.CreatedBy,
	))
	if err != nil {
		return event.Event{}, err
	}

	return created, nil
}

func (r *eventRepositoryImpl) GetByID(ctx context.Context, id string) (event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrEventNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}

func (r *eventRepositoryImpl) List(ctx context.Context) ([]event.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date DESC, created_at DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

func (r *eventRepositoryImpl) SetLocation(ctx context.Context, id string, lat float64, lon float64) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE events SET latitude = $1, longitude = $2, updated_at = NOW() WHERE id = $3`

	tag, err := q.Exec(ctx, query, lat, lon, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return event.ErrEventNotFound
	}
	return nil
}
