package face

import (
	"math"
)

const (
	// DefaultSimilarityThreshold is the score a probe must reach to count
	// as the same person.
	DefaultSimilarityThreshold = 0.75

	// EarlyExitThreshold short-circuits the candidate scan. A score this
	// high is unambiguous.
	EarlyExitThreshold = 0.95

	// ConfirmThreshold is the stricter bar for the second enrollment capture.
	ConfirmThreshold = 0.8
)

// Similarity scores two embeddings on [0, 1] via cosine similarity
// remapped as (cos+1)/2. Empty or zero-norm input scores 0 without error.
// Vectors of different lengths are never comparable.
func Similarity(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, nil
	}
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	score := (cos + 1) / 2

	// Rounding can push the score a hair outside [0, 1]
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}

// FindBestMatch scans candidates for the highest-scoring owner of probe.
// Strict greater-than keeps the first of tied scores. A below-threshold
// best is the normal negative: empty user ID, best score, nil error. A
// candidate with mismatched dimensions surfaces the error, since stored
// embeddings are expected to share the probe's dimensionality.
func FindBestMatch(probe []float64, candidates []Candidate, threshold float64) (string, float64, error) {
	var (
		bestUserID string
		bestScore  float64
	)

	for _, c := range candidates {
		score, err := Similarity(probe, c.Embedding)
		if err != nil {
			return "", 0, err
		}
		if score > bestScore {
			bestScore = score
			bestUserID = c.UserID
			if bestScore >= EarlyExitThreshold {
				break
			}
		}
	}

	if bestScore < threshold {
		return "", bestScore, nil
	}
	return bestUserID, bestScore, nil
}
