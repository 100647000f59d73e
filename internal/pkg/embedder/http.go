package embedder

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPEmbedder calls an external face embedding inference endpoint.
type HTTPEmbedder struct {
	endpoint   string
	apiKey     string
	dimensions int
	client     *http.Client
}

func NewHTTPEmbedder(endpoint string, apiKey string, dimensions int) *HTTPEmbedder {
	return &HTTPEmbedder{
		endpoint:   endpoint,
		apiKey:     apiKey,
		dimensions: dimensions,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type embedRequest struct {
	Image string `json:"image"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
	FaceCount int       `json:"face_count"`
	Error     string    `json:"error,omitempty"`
}

func (e *HTTPEmbedder) Embed(ctx context.Context, image []byte) ([]float64, error) {
	payload, err := json.Marshal(embedRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read embed response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result embedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}

	switch {
	case result.FaceCount == 0:
		return nil, ErrNoFaceDetected
	case result.FaceCount > 1:
		return nil, ErrMultipleFacesDetected
	}

	if len(result.Embedding) != e.dimensions {
		return nil, fmt.Errorf("embedding service returned %d dimensions, expected %d", len(result.Embedding), e.dimensions)
	}

	return result.Embedding, nil
}
