package embedder

import (
	"context"
	"errors"
)

var (
	// ErrNoFaceDetected is returned when the inference service finds no face
	// in the submitted image.
	ErrNoFaceDetected = errors.New("no face detected in image")

	// ErrMultipleFacesDetected is returned when more than one face is found.
	ErrMultipleFacesDetected = errors.New("multiple faces detected in image")
)

// Embedder converts a face image into a fixed-length embedding vector.
type Embedder interface {
	Embed(ctx context.Context, image []byte) ([]float64, error)
}
