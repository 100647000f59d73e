package face

import (
	"context"
)

type FaceEmbeddingRepository interface {
	// CreateAsPrimary inserts the embedding as the user's primary,
	// demoting any previous primary in the same transaction.
	CreateAsPrimary(ctx context.Context, emb FaceEmbedding) (FaceEmbedding, error)

	GetByUserID(ctx context.Context, userID string) ([]FaceEmbedding, error)

	CountByUserID(ctx context.Context, userID string) (int, error)

	// ListCandidates returns every stored embedding with its owner,
	// for open-set identification scans.
	ListCandidates(ctx context.Context) ([]Candidate, error)

	// ListCandidatesExcluding skips one user, for duplicate-enrollment checks.
	ListCandidatesExcluding(ctx context.Context, userID string) ([]Candidate, error)

	Delete(ctx context.Context, id string, userID string) error
}
