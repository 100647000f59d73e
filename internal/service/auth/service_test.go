package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/auth"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/face"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/user"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/embedder"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/jwt"
)

type fakeTxManager struct{}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type spyEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (s *spyEmbedder) Embed(ctx context.Context, image []byte) ([]float64, error) {
	s.calls++
	v, ok := s.vectors[string(image)]
	if !ok {
		return nil, embedder.ErrNoFaceDetected
	}
	return v, nil
}

// spyFaceService counts comparisons so tests can assert none happened.
type spyFaceService struct {
	identifyResult face.IdentifyResult
	verifyResult   face.VerifyFaceResult
	identifyCalls  int
	verifyCalls    int
}

func (s *spyFaceService) RegisterFace(ctx context.Context, req face.RegisterFaceRequest) (face.RegisterFaceResponse, error) {
	return face.RegisterFaceResponse{}, nil
}

func (s *spyFaceService) VerifyFace(ctx context.Context, userID string, probe []float64) (face.VerifyFaceResult, error) {
	s.verifyCalls++
	return s.verifyResult, nil
}

func (s *spyFaceService) Identify(ctx context.Context, probe []float64) (face.IdentifyResult, error) {
	s.identifyCalls++
	return s.identifyResult, nil
}

func (s *spyFaceService) RegistrationStatus(ctx context.Context, userID string) (face.RegistrationStatusResponse, error) {
	return face.RegistrationStatusResponse{}, nil
}

type fakeAttemptRepo struct {
	attempts map[string]auth.LoginAttempt
	nextID   int
}

func (f *fakeAttemptRepo) Create(ctx context.Context, attempt auth.LoginAttempt) (auth.LoginAttempt, error) {
	f.nextID++
	attempt.ID = fmt.Sprintf("att-%d", f.nextID)
	attempt.Status = auth.AttemptStatusPending
	attempt.AttemptedAt = time.Now()
	f.attempts[attempt.ID] = attempt
	return attempt, nil
}

func (f *fakeAttemptRepo) MarkSuccess(ctx context.Context, id string, userID string, confidence float64) error {
	a := f.attempts[id]
	a.Status = auth.AttemptStatusSuccess
	a.MatchedUserID = &userID
	a.Confidence = &confidence
	f.attempts[id] = a
	return nil
}

func (f *fakeAttemptRepo) MarkFailed(ctx context.Context, id string, userID *string, reason string) error {
	a := f.attempts[id]
	a.Status = auth.AttemptStatusFailed
	a.MatchedUserID = userID
	a.FailureReason = &reason
	f.attempts[id] = a
	return nil
}

func (f *fakeAttemptRepo) CountRecentFailed(ctx context.Context, userID string, since time.Time) (int, error) {
	count := 0
	for _, a := range f.attempts {
		if a.Status == auth.AttemptStatusFailed && a.MatchedUserID != nil && *a.MatchedUserID == userID && !a.AttemptedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttemptRepo) ClearFailed(ctx context.Context, userID string) error {
	for id, a := range f.attempts {
		if a.Status == auth.AttemptStatusFailed && a.MatchedUserID != nil && *a.MatchedUserID == userID {
			delete(f.attempts, id)
		}
	}
	return nil
}

func (f *fakeAttemptRepo) List(ctx context.Context, filter auth.AttemptFilter) ([]auth.LoginAttempt, error) {
	var out []auth.LoginAttempt
	for _, a := range f.attempts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAttemptRepo) seedFailed(userID string, n int, at time.Time) {
	for i := 0; i < n; i++ {
		f.nextID++
		id := fmt.Sprintf("seed-%d", f.nextID)
		reason := "face not recognized"
		f.attempts[id] = auth.LoginAttempt{
			ID:            id,
			MatchedUserID: &userID,
			Status:        auth.AttemptStatusFailed,
			FailureReason: &reason,
			AttemptedAt:   at,
		}
	}
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) MarkFaceRegistered(ctx context.Context, userID string, at time.Time) error {
	return nil
}

func (f *fakeUserRepo) RecordLogin(ctx context.Context, userID string, at time.Time, lat *float64, lon *float64) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.LastLoginAt = &at
	u.LastLoginLat = lat
	u.LastLoginLon = lon
	f.users[userID] = u
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

type testDeps struct {
	svc      auth.AuthService
	embedder *spyEmbedder
	faces    *spyFaceService
	attempts *fakeAttemptRepo
	users    *fakeUserRepo
	jwt      jwt.Service
}

func newTestService(t *testing.T) testDeps {
	emb := &spyEmbedder{vectors: map[string][]float64{
		"alice": {1, 0, 0},
	}}
	faces := &spyFaceService{}
	attempts := &fakeAttemptRepo{attempts: make(map[string]auth.LoginAttempt)}
	users := &fakeUserRepo{users: map[string]user.User{
		"alice": {
			ID: "alice", Name: "Alice", Email: "alice@example.com",
			PasswordHash: hashPassword(t, "s3cret"), IsActive: true,
		},
		"carol": {
			ID: "carol", Name: "Carol", Email: "carol@example.com",
			PasswordHash: hashPassword(t, "s3cret"), IsActive: false,
		},
	}}
	jwtService := jwt.NewJWTService("test-secret-key", "1h", "168h")
	svc := NewAuthService(&fakeTxManager{}, emb, faces, attempts, users, jwtService)
	return testDeps{svc: svc, embedder: emb, faces: faces, attempts: attempts, users: users, jwt: jwtService}
}

func TestLoginWithFaceSuccess(t *testing.T) {
	d := newTestService(t)
	d.faces.identifyResult = face.IdentifyResult{UserID: "alice", Score: 0.92}

	resp, err := d.svc.LoginWithFace(context.Background(), auth.FaceLoginRequest{Image: []byte("alice")})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.ID)
	require.NotNil(t, resp.Confidence)
	assert.Equal(t, 0.92, *resp.Confidence)
	assert.NotNil(t, d.users.users["alice"].LastLoginAt)

	// The attempt resolved as success
	var found bool
	for _, a := range d.attempts.attempts {
		if a.Status == auth.AttemptStatusSuccess {
			found = true
			require.NotNil(t, a.MatchedUserID)
			assert.Equal(t, "alice", *a.MatchedUserID)
		}
	}
	assert.True(t, found)
}

func TestLoginWithFaceNotRecognized(t *testing.T) {
	d := newTestService(t)
	d.faces.identifyResult = face.IdentifyResult{UserID: "", Score: 0.41}

	_, err := d.svc.LoginWithFace(context.Background(), auth.FaceLoginRequest{Image: []byte("alice")})
	assert.ErrorIs(t, err, auth.ErrFaceNotRecognized)

	var failed int
	for _, a := range d.attempts.attempts {
		if a.Status == auth.AttemptStatusFailed {
			failed++
			assert.Nil(t, a.MatchedUserID)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestLoginWithFaceDisabledAccount(t *testing.T) {
	d := newTestService(t)
	d.faces.identifyResult = face.IdentifyResult{UserID: "carol", Score: 0.9}
	d.embedder.vectors["carol"] = []float64{0, 1, 0}

	_, err := d.svc.LoginWithFace(context.Background(), auth.FaceLoginRequest{Image: []byte("carol")})
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestLoginWithFaceLockout(t *testing.T) {
	d := newTestService(t)
	d.faces.identifyResult = face.IdentifyResult{UserID: "alice", Score: 0.9}
	d.attempts.seedFailed("alice", auth.MaxFailedAttempts, time.Now())

	_, err := d.svc.LoginWithFace(context.Background(), auth.FaceLoginRequest{Image: []byte("alice")})
	assert.ErrorIs(t, err, auth.ErrTooManyAttempts)
}

func TestLoginWithFaceLockoutExpired(t *testing.T) {
	d := newTestService(t)
	d.faces.identifyResult = face.IdentifyResult{UserID: "alice", Score: 0.9}
	d.attempts.seedFailed("alice", auth.MaxFailedAttempts, time.Now().Add(-auth.LockoutWindow-time.Minute))

	_, err := d.svc.LoginWithFace(context.Background(), auth.FaceLoginRequest{Image: []byte("alice")})
	assert.NoError(t, err)
}

func TestVerifyFaceLockoutBeforeComparison(t *testing.T) {
	d := newTestService(t)
	d.attempts.seedFailed("alice", auth.MaxFailedAttempts, time.Now())

	_, err := d.svc.VerifyFace(context.Background(), auth.VerifyFaceRequest{
		UserID: "alice",
		Image:  []byte("alice"),
	})
	assert.ErrorIs(t, err, auth.ErrTooManyAttempts)

	// Locked accounts never reach the embedder or the matcher
	assert.Equal(t, 0, d.embedder.calls)
	assert.Equal(t, 0, d.faces.verifyCalls)
}

func TestVerifyFaceSuccessClearsFailures(t *testing.T) {
	d := newTestService(t)
	d.faces.verifyResult = face.VerifyFaceResult{Verified: true, Score: 0.88}
	d.attempts.seedFailed("alice", auth.MaxFailedAttempts-1, time.Now())

	resp, err := d.svc.VerifyFace(context.Background(), auth.VerifyFaceRequest{
		UserID: "alice",
		Image:  []byte("alice"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Verified)

	count, err := d.attempts.CountRecentFailed(context.Background(), "alice", time.Now().Add(-auth.LockoutWindow))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestVerifyFaceMismatchAudited(t *testing.T) {
	d := newTestService(t)
	d.faces.verifyResult = face.VerifyFaceResult{Verified: false, Score: 0.3}

	resp, err := d.svc.VerifyFace(context.Background(), auth.VerifyFaceRequest{
		UserID: "alice",
		Image:  []byte("alice"),
	})
	require.NoError(t, err)
	assert.False(t, resp.Verified)

	count, err := d.attempts.CountRecentFailed(context.Background(), "alice", time.Now().Add(-auth.LockoutWindow))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPasswordLogin(t *testing.T) {
	d := newTestService(t)

	resp, err := d.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice", resp.User.ID)
}

func TestPasswordLoginWrongPassword(t *testing.T) {
	d := newTestService(t)

	_, err := d.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestPasswordLoginUnknownEmail(t *testing.T) {
	d := newTestService(t)

	_, err := d.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cret",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestPasswordLoginDisabled(t *testing.T) {
	d := newTestService(t)

	_, err := d.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "carol@example.com",
		Password: "s3cret",
	})
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestRefreshToken(t *testing.T) {
	d := newTestService(t)

	refreshToken, _, err := d.jwt.GenerateRefreshToken("alice")
	require.NoError(t, err)

	resp, err := d.svc.RefreshToken(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	d := newTestService(t)

	accessToken, _, err := d.jwt.GenerateAccessToken("alice", "alice@example.com", false)
	require.NoError(t, err)

	_, err = d.svc.RefreshToken(context.Background(), accessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshTokenRevoked(t *testing.T) {
	d := newTestService(t)

	refreshToken, _, err := d.jwt.GenerateRefreshToken("alice")
	require.NoError(t, err)
	d.jwt.RevokeToken(refreshToken)

	_, err = d.svc.RefreshToken(context.Background(), refreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshTokenGarbage(t *testing.T) {
	d := newTestService(t)

	_, err := d.svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
