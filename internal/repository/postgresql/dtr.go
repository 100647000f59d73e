package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/dtr"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
)

type dtrRepositoryImpl struct {
	db *database.DB
}

func NewDTRRepository(db *database.DB) dtr.DTRRepository {
	return &dtrRepositoryImpl{db: db}
}

const dtrColumns = `id, user_id, event_id, log_date, scheduled_time_in, scheduled_time_out,
		actual_time_in, actual_time_out, late_minutes, overtime_minutes,
		undertime_minutes, total_hours, regular_hours, overtime_hours,
		time_log_count, created_at, updated_at`

func scanDTR(row pgx.Row) (dtr.DailyTimeRecord, error) {
	var rec dtr.DailyTimeRecord
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.EventID,
		&rec.LogDate,
		&rec.ScheduledTimeIn,
		&rec.ScheduledTimeOut,
		&rec.ActualTimeIn,
		&rec.ActualTimeOut,
		&rec.LateMinutes,
		&rec.OvertimeMinutes,
		&rec.UndertimeMinutes,
		&rec.TotalHours,
		&rec.RegularHours,
		&rec.OvertimeHours,
		&rec.TimeLogCount,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

// GetOrCreateForUpdate inserts an empty record if absent, then locks the row.
// ON CONFLICT DO NOTHING keeps concurrent inserts from failing; the FOR
// UPDATE read serializes the folds that follow.
func (r *dtrRepositoryImpl) GetOrCreateForUpdate(ctx context.Context, userID string, eventID string, date time.Time) (dtr.DailyTimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO daily_time_records (user_id, event_id, log_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_id, log_date) DO NOTHING`

	if _, err := q.Exec(ctx, insertQuery, userID, eventID, date); err != nil {
		return dtr.DailyTimeRecord{}, fmt.Errorf("ensure daily record: %w", err)
	}

	selectQuery := `
		SELECT ` + dtrColumns + `
		FROM daily_time_records
		WHERE user_id = $1 AND event_id = $2 AND log_date = $3
		FOR UPDATE`

	rec, err := scanDTR(q.QueryRow(ctx, selectQuery, userID, eventID, date))
	if err != nil {
		return dtr.DailyTimeRecord{}, fmt.Errorf("lock daily record: %w", err)
	}

	return rec, nil
}

func (r *dtrRepositoryImpl) GetByUserEventDate(ctx context.Context, userID string, eventID string, date time.Time) (dtr.DailyTimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dtrColumns + `
		FROM daily_time_records
		WHERE user_id = $1 AND event_id = $2 AND log_date = $3`

	rec, err := scanDTR(q.QueryRow(ctx, query, userID, eventID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dtr.DailyTimeRecord{}, dtr.ErrRecordNotFound
		}
		return dtr.DailyTimeRecord{}, err
	}

	return rec, nil
}

func (r *dtrRepositoryImpl) Update(ctx context.Context, rec dtr.DailyTimeRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE daily_time_records
		SET scheduled_time_in = $1, scheduled_time_out = $2,
			actual_time_in = $3, actual_time_out = $4,
			late_minutes = $5, overtime_minutes = $6, undertime_minutes = $7,
			total_hours = $8, regular_hours = $9, overtime_hours = $10,
			time_log_count = $11, updated_at = NOW()
		WHERE id = $12`

	tag, err := q.Exec(ctx, query,
		rec.ScheduledTimeIn,
		rec.ScheduledTimeOut,
		rec.ActualTimeIn,
		rec.ActualTimeOut,
		rec.LateMinutes,
		rec.OvertimeMinutes,
		rec.UndertimeMinutes,
		rec.TotalHours,
		rec.RegularHours,
		rec.OvertimeHours,
		rec.TimeLogCount,
		rec.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return dtr.ErrRecordNotFound
	}
	return nil
}

func (r *dtrRepositoryImpl) ListByUserRange(ctx context.Context, userID string, eventID *string, start time.Time, end time.Time) ([]dtr.DailyTimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dtrColumns + `
		FROM daily_time_records
		WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3`
	args := []interface{}{userID, start, end}

	if eventID != nil {
		query += ` AND event_id = $4`
		args = append(args, *eventID)
	}
	query += ` ORDER BY log_date ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []dtr.DailyTimeRecord
	for rows.Next() {
		rec, err := scanDTR(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
