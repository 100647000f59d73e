package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/auth"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
)

type loginAttemptRepositoryImpl struct {
	db *database.DB
}

func NewLoginAttemptRepository(db *database.DB) auth.LoginAttemptRepository {
	return &loginAttemptRepositoryImpl{db: db}
}

const attemptColumns = `id, matched_user_id, probe_hash, latitude, longitude, device_info,
		ip_address, user_agent, status, failure_reason, confidence,
		attempted_at, resolved_at`

func scanAttempt(row pgx.Row) (auth.LoginAttempt, error) {
	var a auth.LoginAttempt
	err := row.Scan(
		&a.ID,
		&a.MatchedUserID,
		&a.ProbeHash,
		&a.Latitude,
		&a.Longitude,
		&a.DeviceInfo,
		&a.IPAddress,
		&a.UserAgent,
		&a.Status,
		&a.FailureReason,
		&a.Confidence,
		&a.AttemptedAt,
		&a.ResolvedAt,
	)
	return a, err
}

func (r *loginAttemptRepositoryImpl) Create(ctx context.Context, attempt auth.LoginAttempt) (auth.LoginAttempt, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO login_attempts (probe_hash, latitude, longitude, device_info,
			ip_address, user_agent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + attemptColumns

	created, err := scanAttempt(q.QueryRow(ctx, query,
		attempt.ProbeHash,
		attempt.Latitude,
		attempt.Longitude,
		attempt.DeviceInfo,
		attempt.IPAddress,
		attempt.UserAgent,
		auth.AttemptStatusPending,
	))
	if err != nil {
		return auth.LoginAttempt{}, err
	}

	return created, nil
}

func (r *loginAttemptRepositoryImpl) MarkSuccess(ctx context.Context, id string, userID string, confidence float64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE login_attempts
		SET status = $1, matched_user_id = $2, confidence = $3, resolved_at = NOW()
		WHERE id = $4`

	_, err := q.Exec(ctx, query, auth.AttemptStatusSuccess, userID, confidence, id)
	return err
}

func (r *loginAttemptRepositoryImpl) MarkFailed(ctx context.Context, id string, userID *string, reason string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE login_attempts
		SET status = $1, matched_user_id = $2, failure_reason = $3, resolved_at = NOW()
		WHERE id = $4`

	_, err := q.Exec(ctx, query, auth.AttemptStatusFailed, userID, reason, id)
	return err
}

func (r *loginAttemptRepositoryImpl) CountRecentFailed(ctx context.Context, userID string, since time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM login_attempts
		WHERE matched_user_id = $1 AND status = $2 AND attempted_at >= $3`

	var count int
	err := q.QueryRow(ctx, query, userID, auth.AttemptStatusFailed, since).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *loginAttemptRepositoryImpl) ClearFailed(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM login_attempts WHERE matched_user_id = $1 AND status = $2`

	_, err := q.Exec(ctx, query, userID, auth.AttemptStatusFailed)
	return err
}

func (r *loginAttemptRepositoryImpl) List(ctx context.Context, filter auth.AttemptFilter) ([]auth.LoginAttempt, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attemptColumns + ` FROM login_attempts WHERE 1=1`
	var args []interface{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(` AND matched_user_id = $%d`, len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(` ORDER BY attempted_at DESC LIMIT $%d`, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []auth.LoginAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}
