package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/auth"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/face"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/user"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/database"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/embedder"
	jwtpkg "github.com/timekeep-ph/dtr-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	txm      database.TxManager
	embedder embedder.Embedder
	faces    face.FaceService
	auth.LoginAttemptRepository
	user.UserRepository
	jwtService jwtpkg.Service
}

func NewAuthService(
	txm database.TxManager,
	emb embedder.Embedder,
	faceService face.FaceService,
	attemptRepo auth.LoginAttemptRepository,
	userRepo user.UserRepository,
	jwtService jwtpkg.Service,
) auth.AuthService {
	return &AuthServiceImpl{
		txm:                    txm,
		embedder:               emb,
		faces:                  faceService,
		LoginAttemptRepository: attemptRepo,
		UserRepository:         userRepo,
		jwtService:             jwtService,
	}
}

// LoginWithFace implements auth.AuthService. The pending attempt is
// recorded before identification so failed probes leave a trace even when
// no account is ever matched.
func (s *AuthServiceImpl) LoginWithFace(ctx context.Context, req auth.FaceLoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	probe, err := s.embedder.Embed(ctx, req.Image)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	attempt, err := s.LoginAttemptRepository.Create(ctx, auth.LoginAttempt{
		ProbeHash:  hashProbe(req.Image),
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		DeviceInfo: req.DeviceInfo,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
	})
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to record login attempt: %w", err)
	}

	match, err := s.faces.Identify(ctx, probe)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if match.UserID == "" {
		if err := s.LoginAttemptRepository.MarkFailed(ctx, attempt.ID, nil, "face not recognized"); err != nil {
			return auth.LoginResponse{}, fmt.Errorf("failed to resolve attempt: %w", err)
		}
		return auth.LoginResponse{}, auth.ErrFaceNotRecognized
	}

	u, err := s.UserRepository.GetByID(ctx, match.UserID)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	if !u.IsActive {
		if err := s.LoginAttemptRepository.MarkFailed(ctx, attempt.ID, &u.ID, "account disabled"); err != nil {
			return auth.LoginResponse{}, fmt.Errorf("failed to resolve attempt: %w", err)
		}
		return auth.LoginResponse{}, auth.ErrAccountDisabled
	}

	locked, err := s.isLockedOut(ctx, u.ID)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if locked {
		if err := s.LoginAttemptRepository.MarkFailed(ctx, attempt.ID, &u.ID, "too many failed attempts"); err != nil {
			return auth.LoginResponse{}, fmt.Errorf("failed to resolve attempt: %w", err)
		}
		return auth.LoginResponse{}, auth.ErrTooManyAttempts
	}

	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.LoginAttemptRepository.MarkSuccess(ctx, attempt.ID, u.ID, match.Score); err != nil {
			return fmt.Errorf("failed to resolve attempt: %w", err)
		}
		if err := s.LoginAttemptRepository.ClearFailed(ctx, u.ID); err != nil {
			return fmt.Errorf("failed to clear failed attempts: %w", err)
		}
		if err := s.UserRepository.RecordLogin(ctx, u.ID, time.Now(), req.Latitude, req.Longitude); err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.LoginResponse{}, err
	}

	score := match.Score
	resp, err := s.issueTokens(u)
	if err != nil {
		return auth.LoginResponse{}, err
	}
	resp.Confidence = &score
	return resp, nil
}

// VerifyFace implements auth.AuthService. The lockout gate runs before the
// probe is ever embedded or compared; a locked account learns nothing about
// its stored embeddings.
func (s *AuthServiceImpl) VerifyFace(ctx context.Context, req auth.VerifyFaceRequest) (auth.VerifyFaceResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.VerifyFaceResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return auth.VerifyFaceResponse{}, err
	}
	if !u.IsActive {
		return auth.VerifyFaceResponse{}, auth.ErrAccountDisabled
	}

	attempt, err := s.LoginAttemptRepository.Create(ctx, auth.LoginAttempt{
		ProbeHash:  hashProbe(req.Image),
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		DeviceInfo: req.DeviceInfo,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
	})
	if err != nil {
		return auth.VerifyFaceResponse{}, fmt.Errorf("failed to record attempt: %w", err)
	}

	locked, err := s.isLockedOut(ctx, u.ID)
	if err != nil {
		return auth.VerifyFaceResponse{}, err
	}
	if locked {
		if err := s.LoginAttemptRepository.MarkFailed(ctx, attempt.ID, &u.ID, "too many failed attempts"); err != nil {
			return auth.VerifyFaceResponse{}, fmt.Errorf("failed to resolve attempt: %w", err)
		}
		return auth.VerifyFaceResponse{}, auth.ErrTooManyAttempts
	}

	probe, err := s.embedder.Embed(ctx, req.Image)
	if err != nil {
		return auth.VerifyFaceResponse{}, err
	}

	result, err := s.faces.VerifyFace(ctx, u.ID, probe)
	if err != nil {
		return auth.VerifyFaceResponse{}, err
	}

	if !result.Verified {
		if err := s.LoginAttemptRepository.MarkFailed(ctx, attempt.ID, &u.ID, "face not recognized"); err != nil {
			return auth.VerifyFaceResponse{}, fmt.Errorf("failed to resolve attempt: %w", err)
		}
		return auth.VerifyFaceResponse{Verified: false, Score: result.Score}, nil
	}

	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.LoginAttemptRepository.MarkSuccess(ctx, attempt.ID, u.ID, result.Score); err != nil {
			return fmt.Errorf("failed to resolve attempt: %w", err)
		}
		if err := s.LoginAttemptRepository.ClearFailed(ctx, u.ID); err != nil {
			return fmt.Errorf("failed to clear failed attempts: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.VerifyFaceResponse{}, err
	}

	return auth.VerifyFaceResponse{Verified: true, Score: result.Score}, nil
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	u, err := s.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if !u.IsActive {
		return auth.LoginResponse{}, auth.ErrAccountDisabled
	}

	if err := s.UserRepository.RecordLogin(ctx, u.ID, time.Now(), nil, nil); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to record login: %w", err)
	}

	return s.issueTokens(u)
}

// RefreshToken implements auth.AuthService.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (auth.RefreshTokenResponse, error) {
	if refreshToken == "" {
		return auth.RefreshTokenResponse{}, auth.ErrInvalidToken
	}
	if s.jwtService.IsTokenRevoked(refreshToken) {
		return auth.RefreshTokenResponse{}, auth.ErrInvalidToken
	}

	token, err := s.jwtService.JWTAuth().Decode(refreshToken)
	if err != nil {
		return auth.RefreshTokenResponse{}, auth.ErrInvalidToken
	}
	if err := jwt.Validate(token); err != nil {
		return auth.RefreshTokenResponse{}, auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return auth.RefreshTokenResponse{}, auth.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return auth.RefreshTokenResponse{}, auth.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return auth.RefreshTokenResponse{}, auth.ErrInvalidToken
	}

	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.RefreshTokenResponse{}, auth.ErrInvalidToken
	}
	if !u.IsActive {
		return auth.RefreshTokenResponse{}, auth.ErrAccountDisabled
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return auth.RefreshTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.RefreshTokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// ListAttempts implements auth.AuthService.
func (s *AuthServiceImpl) ListAttempts(ctx context.Context, filter auth.AttemptFilter) ([]auth.AttemptResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	attempts, err := s.LoginAttemptRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	resp := make([]auth.AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		resp = append(resp, auth.AttemptResponse{
			ID:            a.ID,
			MatchedUserID: a.MatchedUserID,
			Status:        a.Status,
			FailureReason: a.FailureReason,
			Confidence:    a.Confidence,
			Latitude:      a.Latitude,
			Longitude:     a.Longitude,
			IPAddress:     a.IPAddress,
			AttemptedAt:   a.AttemptedAt.Format(time.RFC3339),
		})
	}

	return resp, nil
}

func (s *AuthServiceImpl) isLockedOut(ctx context.Context, userID string) (bool, error) {
	count, err := s.LoginAttemptRepository.CountRecentFailed(ctx, userID, time.Now().Add(-auth.LockoutWindow))
	if err != nil {
		return false, fmt.Errorf("failed to count failed attempts: %w", err)
	}
	return count >= auth.MaxFailedAttempts, nil
}

func (s *AuthServiceImpl) issueTokens(u user.User) (auth.LoginResponse, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user.ToUserResponse(u),
	}, nil
}

func hashProbe(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}
