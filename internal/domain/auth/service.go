package auth

import (
	"context"
)

// AuthService covers face login, face verification, and the password
// fallback. Every face operation leaves an audit row.
type AuthService interface {
	// LoginWithFace identifies the probe across all enrolled faces and
	// issues a token pair on a confident match.
	LoginWithFace(ctx context.Context, req FaceLoginRequest) (LoginResponse, error)

	// VerifyFace checks the probe against one known user's embeddings.
	// The lockout gate runs before any embedding comparison.
	VerifyFace(ctx context.Context, req VerifyFaceRequest) (VerifyFaceResponse, error)

	// Login is the email/password fallback.
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	RefreshToken(ctx context.Context, refreshToken string) (RefreshTokenResponse, error)

	// ListAttempts exposes the audit trail to admins.
	ListAttempts(ctx context.Context, filter AttemptFilter) ([]AttemptResponse, error)
}
