package face

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/face"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/user"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/embedder"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/storage"
)

type FaceServiceImpl struct {
	txm      database.TxManager
	embedder embedder.Embedder
	storage  storage.FileStorage
	face.FaceEmbeddingRepository
	user.UserRepository
	threshold float64
}

func NewFaceService(
	txm database.TxManager,
	emb embedder.Embedder,
	fileStorage storage.FileStorage,
	faceRepo face.FaceEmbeddingRepository,
	userRepo user.UserRepository,
	threshold float64,
) face.FaceService {
	if threshold <= 0 {
		threshold = face.DefaultSimilarityThreshold
	}
	return &FaceServiceImpl{
		txm:                     txm,
		embedder:                emb,
		storage:                 fileStorage,
		FaceEmbeddingRepository: faceRepo,
		UserRepository:          userRepo,
		threshold:               threshold,
	}
}

// RegisterFace implements face.FaceService.
func (s *FaceServiceImpl) RegisterFace(ctx context.Context, req face.RegisterFaceRequest) (face.RegisterFaceResponse, error) {
	if err := req.Validate(); err != nil {
		return face.RegisterFaceResponse{}, err
	}

	if _, err := s.UserRepository.GetByID(ctx, req.UserID); err != nil {
		return face.RegisterFaceResponse{}, err
	}

	probe, err := s.embedder.Embed(ctx, req.Image)
	if err != nil {
		return face.RegisterFaceResponse{}, err
	}

	// A face enrolled by someone else cannot be enrolled again
	others, err := s.FaceEmbeddingRepository.ListCandidatesExcluding(ctx, req.UserID)
	if err != nil {
		return face.RegisterFaceResponse{}, fmt.Errorf("failed to list candidates: %w", err)
	}
	matchedUser, _, err := face.FindBestMatch(probe, others, s.threshold)
	if err != nil {
		return face.RegisterFaceResponse{}, err
	}
	if matchedUser != "" {
		return face.RegisterFaceResponse{}, face.ErrFaceAlreadyRegistered
	}

	var confirmScore *float64
	if len(req.ConfirmImage) > 0 {
		confirmProbe, err := s.embedder.Embed(ctx, req.ConfirmImage)
		if err != nil {
			return face.RegisterFaceResponse{}, err
		}
		score, err := face.Similarity(probe, confirmProbe)
		if err != nil {
			return face.RegisterFaceResponse{}, err
		}
		if score < face.ConfirmThreshold {
			return face.RegisterFaceResponse{}, face.ErrConfirmMismatch
		}
		confirmScore = &score
	}

	imagePath, err := s.storage.Upload(ctx,
		bytes.NewReader(req.Image),
		fmt.Sprintf("faces/%s/%s.jpg", req.UserID, uuid.New().String()),
		"image/jpeg",
	)
	if err != nil {
		return face.RegisterFaceResponse{}, fmt.Errorf("failed to store face image: %w", err)
	}

	var created face.FaceEmbedding
	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.FaceEmbeddingRepository.CreateAsPrimary(ctx, face.FaceEmbedding{
			UserID:     req.UserID,
			Embedding:  probe,
			ImagePath:  &imagePath,
			DeviceInfo: req.DeviceInfo,
		})
		if err != nil {
			return fmt.Errorf("failed to store embedding: %w", err)
		}

		if err := s.UserRepository.MarkFaceRegistered(ctx, req.UserID, time.Now()); err != nil {
			return fmt.Errorf("failed to mark face registered: %w", err)
		}
		return nil
	})
	if err != nil {
		return face.RegisterFaceResponse{}, err
	}

	imageURL, err := s.storage.GetURL(ctx, imagePath, 0)
	if err != nil {
		imageURL = ""
	}

	resp := face.RegisterFaceResponse{
		EmbeddingID:  created.ID,
		ConfirmScore: confirmScore,
		IsPrimary:    created.IsPrimary,
	}
	if imageURL != "" {
		resp.ImageURL = &imageURL
	}
	return resp, nil
}

// VerifyFace implements face.FaceService. The probe is scored against the
// user's own embeddings only.
func (s *FaceServiceImpl) VerifyFace(ctx context.Context, userID string, probe []float64) (face.VerifyFaceResult, error) {
	embeddings, err := s.FaceEmbeddingRepository.GetByUserID(ctx, userID)
	if err != nil {
		return face.VerifyFaceResult{}, fmt.Errorf("failed to load embeddings: %w", err)
	}
	if len(embeddings) == 0 {
		return face.VerifyFaceResult{}, face.ErrNoFaceRegistered
	}

	var best float64
	for _, emb := range embeddings {
		score, err := face.Similarity(probe, emb.Embedding)
		if err != nil {
			return face.VerifyFaceResult{}, err
		}
		if score > best {
			best = score
			if best >= face.EarlyExitThreshold {
				break
			}
		}
	}

	return face.VerifyFaceResult{
		Verified: best >= s.threshold,
		Score:    best,
	}, nil
}

// Identify implements face.FaceService.
func (s *FaceServiceImpl) Identify(ctx context.Context, probe []float64) (face.IdentifyResult, error) {
	candidates, err := s.FaceEmbeddingRepository.ListCandidates(ctx)
	if err != nil {
		return face.IdentifyResult{}, fmt.Errorf("failed to list candidates: %w", err)
	}

	userID, score, err := face.FindBestMatch(probe, candidates, s.threshold)
	if err != nil {
		return face.IdentifyResult{}, err
	}

	return face.IdentifyResult{UserID: userID, Score: score}, nil
}

// RegistrationStatus implements face.FaceService.
func (s *FaceServiceImpl) RegistrationStatus(ctx context.Context, userID string) (face.RegistrationStatusResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return face.RegistrationStatusResponse{}, err
	}

	count, err := s.FaceEmbeddingRepository.CountByUserID(ctx, userID)
	if err != nil {
		return face.RegistrationStatusResponse{}, fmt.Errorf("failed to count embeddings: %w", err)
	}

	resp := face.RegistrationStatusResponse{
		Registered:     count > 0,
		EmbeddingCount: count,
	}
	if u.FaceRegisteredAt != nil {
		formatted := u.FaceRegisteredAt.Format(time.RFC3339)
		resp.RegisteredAt = &formatted
	}
	return resp, nil
}
