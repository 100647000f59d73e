package face

import (
	"time"
)

// FaceEmbedding is one enrolled face vector for a user. A user may hold
// several embeddings; exactly one is primary at any time.
type FaceEmbedding struct {
	ID         string
	UserID     string
	Embedding  []float64
	ImagePath  *string
	IsPrimary  bool
	DeviceInfo *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Candidate pairs a stored embedding with its owner for matching scans.
type Candidate struct {
	UserID    string
	Embedding []float64
}
