package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/face"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
)

type faceEmbeddingRepositoryImpl struct {
	db *database.DB
}

func NewFaceEmbeddingRepository(db *database.DB) face.FaceEmbeddingRepository {
	return &faceEmbeddingRepositoryImpl{db: db}
}

// Embeddings are stored as JSONB arrays.
func scanEmbedding(row pgx.Row) (face.FaceEmbedding, error) {
	var (
		emb face.FaceEmbedding
		raw []byte
	)
	err := row.Scan(
		&emb.ID,
		&emb.UserID,
		&raw,
		&emb.ImagePath,
		&emb.IsPrimary,
		&emb.DeviceInfo,
		&emb.CreatedAt,
		&emb.UpdatedAt,
	)
	if err != nil {
		return face.FaceEmbedding{}, err
	}
	if err := json.Unmarshal(raw, &emb.Embedding); err != nil {
		return face.FaceEmbedding{}, fmt.Errorf("decode embedding: %w", err)
	}
	return emb, nil
}

const embeddingColumns = `id, user_id, embedding, image_path, is_primary, device_info,
		created_at, updated_at`

func (r *faceEmbeddingRepositoryImpl) CreateAsPrimary(ctx context.Context, emb face.FaceEmbedding) (face.FaceEmbedding, error) {
	q := GetQuerier(ctx, r.db)

	demoteQuery := `UPDATE face_embeddings SET is_primary = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND is_primary = TRUE`
	if _, err := q.Exec(ctx, demoteQuery, emb.UserID); err != nil {
		return face.FaceEmbedding{}, fmt.Errorf("demote previous primary: %w", err)
	}

	raw, err := json.Marshal(emb.Embedding)
	if err != nil {
		return face.FaceEmbedding{}, fmt.Errorf("encode embedding: %w", err)
	}

	insertQuery := `
		INSERT INTO face_embeddings (user_id, embedding, image_path, is_primary, device_info)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING ` + embeddingColumns

	created, err := scanEmbedding(q.QueryRow(ctx, insertQuery,
		emb.UserID,
		raw,
		emb.ImagePath,
		emb.DeviceInfo,
	))
	if err != nil {
		return face.FaceEmbedding{}, err
	}

	return created, nil
}

func (r *faceEmbeddingRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]face.FaceEmbedding, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + embeddingColumns + `
		FROM face_embeddings
		WHERE user_id = $1
		ORDER BY is_primary DESC, created_at DESC`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var embeddings []face.FaceEmbedding
	for rows.Next() {
		emb, err := scanEmbedding(rows)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, emb)
	}

	return embeddings, rows.Err()
}

func (r *faceEmbeddingRepositoryImpl) CountByUserID(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM face_embeddings WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *faceEmbeddingRepositoryImpl) ListCandidates(ctx context.Context) ([]face.Candidate, error) {
	return r.listCandidates(ctx, nil)
}

func (r *faceEmbeddingRepositoryImpl) ListCandidatesExcluding(ctx context.Context, userID string) ([]face.Candidate, error) {
	return r.listCandidates(ctx, &userID)
}

func (r *faceEmbeddingRepositoryImpl) listCandidates(ctx context.Context, excludeUserID *string) ([]face.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT fe.user_id, fe.embedding
		FROM face_embeddings fe
		JOIN users u ON u.id = fe.user_id
		WHERE u.is_active = TRUE`
	var args []interface{}

	if excludeUserID != nil {
		query += ` AND fe.user_id != $1`
		args = append(args, *excludeUserID)
	}
	query += ` ORDER BY fe.is_primary DESC, fe.created_at ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []face.Candidate
	for rows.Next() {
		var (
			c   face.Candidate
			raw []byte
		)
		if err := rows.Scan(&c.UserID, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &c.Embedding); err != nil {
			return nil, fmt.Errorf("decode embedding: %w", err)
		}
		candidates = append(candidates, c)
	}

	return candidates, rows.Err()
}

func (r *faceEmbeddingRepositoryImpl) Delete(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM face_embeddings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return face.ErrEmbeddingNotFound
	}
	return nil
}
