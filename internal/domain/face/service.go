package face

import (
	"context"
)

// FaceService handles enrollment and matching of face embeddings.
type FaceService interface {
	// RegisterFace embeds the capture, guards against enrolling a face that
	// belongs to another account, optionally cross-checks a confirmation
	// capture, stores the image and inserts the embedding as primary.
	RegisterFace(ctx context.Context, req RegisterFaceRequest) (RegisterFaceResponse, error)

	// VerifyFace scores the probe against the user's own embeddings.
	VerifyFace(ctx context.Context, userID string, probe []float64) (VerifyFaceResult, error)

	// Identify finds the best-matching user across all embeddings.
	// A below-threshold best returns an empty user ID with no error.
	Identify(ctx context.Context, probe []float64) (IdentifyResult, error)

	RegistrationStatus(ctx context.Context, userID string) (RegistrationStatusResponse, error)
}
