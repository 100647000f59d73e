package face

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/face"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/user"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/embedder"
)

type fakeTxManager struct{}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeEmbedder maps image bytes to canned vectors.
type fakeEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (f *fakeEmbedder) Embed(ctx context.Context, image []byte) ([]float64, error) {
	f.calls++
	v, ok := f.vectors[string(image)]
	if !ok {
		return nil, embedder.ErrNoFaceDetected
	}
	return v, nil
}

type fakeStorage struct {
	uploads []string
}

func (f *fakeStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	f.uploads = append(f.uploads, path)
	return path, nil
}

func (f *fakeStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error { return nil }

func (f *fakeStorage) GetURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return "http://localhost/" + path, nil
}

func (f *fakeStorage) Exists(ctx context.Context, path string) (bool, error) { return true, nil }

type fakeFaceRepo struct {
	embeddings map[string][]face.FaceEmbedding
	nextID     int
}

func (f *fakeFaceRepo) CreateAsPrimary(ctx context.Context, emb face.FaceEmbedding) (face.FaceEmbedding, error) {
	for i := range f.embeddings[emb.UserID] {
		f.embeddings[emb.UserID][i].IsPrimary = false
	}
	f.nextID++
	emb.ID = fmt.Sprintf("emb-%d", f.nextID)
	emb.IsPrimary = true
	f.embeddings[emb.UserID] = append(f.embeddings[emb.UserID], emb)
	return emb, nil
}

func (f *fakeFaceRepo) GetByUserID(ctx context.Context, userID string) ([]face.FaceEmbedding, error) {
	return f.embeddings[userID], nil
}

func (f *fakeFaceRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	return len(f.embeddings[userID]), nil
}

func (f *fakeFaceRepo) ListCandidates(ctx context.Context) ([]face.Candidate, error) {
	return f.listCandidates(""), nil
}

func (f *fakeFaceRepo) ListCandidatesExcluding(ctx context.Context, userID string) ([]face.Candidate, error) {
	return f.listCandidates(userID), nil
}

func (f *fakeFaceRepo) listCandidates(exclude string) []face.Candidate {
	var out []face.Candidate
	for userID, embs := range f.embeddings {
		if userID == exclude {
			continue
		}
		for _, emb := range embs {
			out = append(out, face.Candidate{UserID: userID, Embedding: emb.Embedding})
		}
	}
	return out
}

func (f *fakeFaceRepo) Delete(ctx context.Context, id string, userID string) error {
	return nil
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
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.FaceRegisteredAt = &at
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepo) RecordLogin(ctx context.Context, userID string, at time.Time, lat *float64, lon *float64) error {
	return nil
}

var (
	aliceVec    = []float64{1, 0, 0, 0}
	bobVec      = []float64{0, 1, 0, 0}
	strangerVec = []float64{0, 0, 0, 1}
)

func newTestService() (face.FaceService, *fakeFaceRepo, *fakeUserRepo, *fakeEmbedder, *fakeStorage) {
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"alice":    aliceVec,
		"alice2":   aliceVec,
		"bob":      bobVec,
		"stranger": strangerVec,
	}}
	faceRepo := &fakeFaceRepo{embeddings: make(map[string][]face.FaceEmbedding)}
	userRepo := &fakeUserRepo{users: map[string]user.User{
		"alice": {ID: "alice", Name: "Alice", Email: "alice@example.com", IsActive: true},
		"bob":   {ID: "bob", Name: "Bob", Email: "bob@example.com", IsActive: true},
	}}
	st := &fakeStorage{}
	svc := NewFaceService(&fakeTxManager{}, emb, st, faceRepo, userRepo, face.DefaultSimilarityThreshold)
	return svc, faceRepo, userRepo, emb, st
}

func TestRegisterFace(t *testing.T) {
	svc, faceRepo, userRepo, _, st := newTestService()

	resp, err := svc.RegisterFace(context.Background(), face.RegisterFaceRequest{
		UserID: "alice",
		Image:  []byte("alice"),
	})
	require.NoError(t, err)
	assert.True(t, resp.IsPrimary)
	assert.NotEmpty(t, resp.EmbeddingID)
	assert.Len(t, st.uploads, 1)
	assert.NotNil(t, userRepo.users["alice"].FaceRegisteredAt)
	require.Len(t, faceRepo.embeddings["alice"], 1)
	assert.Equal(t, aliceVec, faceRepo.embeddings["alice"][0].Embedding)
}

func TestRegisterFaceDemotesPreviousPrimary(t *testing.T) {
	svc, faceRepo, _, _, _ := newTestService()

	_, err := svc.RegisterFace(context.Background(), face.RegisterFaceRequest{UserID: "alice", Image: []byte("alice")})
	require.NoError(t, err)
	_, err = svc.RegisterFace(context.Background(), face.RegisterFaceRequest{UserID: "alice", Image: []byte("alice2")})
	require.NoError(t, err)

	embs := faceRepo.embeddings["alice"]
	require.Len(t, embs, 2)
	assert.False(t, embs[0].IsPrimary)
	assert.True(t, embs[1].IsPrimary)
}

func TestRegisterFaceBelongsToAnotherUser(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.RegisterFace(context.Background(), face.RegisterFaceRequest{UserID: "alice", Image: []byte("alice")})
	require.NoError(t, err)

	// Bob submits Alice's face
	_, err = svc.RegisterFace(context.Background(), face.RegisterFaceRequest{UserID: "bob", Image: []byte("alice")})
	assert.ErrorIs(t, err, face.ErrFaceAlreadyRegistered)
}

func TestRegisterFaceConfirmMismatch(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.RegisterFace(context.Background(), face.RegisterFaceRequest{
		UserID:       "alice",
		Image:        []byte("alice"),
		ConfirmImage: []byte("bob"),
	})
	assert.ErrorIs(t, err, face.ErrConfirmMismatch)
}

func TestRegisterFaceConfirmMatch(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	resp, err := svc.RegisterFace(context.Background(), face.RegisterFaceRequest{
		UserID:       "alice",
		Image:        []byte("alice"),
		ConfirmImage: []byte("alice2"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ConfirmScore)
	assert.InDelta(t, 1.0, *resp.ConfirmScore, 1e-9)
}

func TestRegisterFaceNoFaceDetected(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.RegisterFace(context.Background(), face.RegisterFaceRequest{
		UserID: "alice",
		Image:  []byte("blurry"),
	})
	assert.ErrorIs(t, err, embedder.ErrNoFaceDetected)
}

func TestVerifyFace(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.RegisterFace(context.Background(), face.RegisterFaceRequest{UserID: "alice", Image: []byte("alice")})
	require.NoError(t, err)

	result, err := svc.VerifyFace(context.Background(), "alice", aliceVec)
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.InDelta(t, 1.0, result.Score, 1e-9)

	result, err = svc.VerifyFace(context.Background(), "alice", strangerVec)
	require.NoError(t, err)
	assert.False(t, result.Verified)
}

func TestVerifyFaceNoneRegistered(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.VerifyFace(context.Background(), "alice", aliceVec)
	assert.ErrorIs(t, err, face.ErrNoFaceRegistered)
}

func TestIdentify(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.RegisterFace(context.Background(), face.RegisterFaceRequest{UserID: "alice", Image: []byte("alice")})
	require.NoError(t, err)
	_, err = svc.RegisterFace(context.Background(), face.RegisterFaceRequest{UserID: "bob", Image: []byte("bob")})
	require.NoError(t, err)

	result, err := svc.Identify(context.Background(), bobVec)
	require.NoError(t, err)
	assert.Equal(t, "bob", result.UserID)

	// A stranger matches nobody
	result, err = svc.Identify(context.Background(), strangerVec)
	require.NoError(t, err)
	assert.Empty(t, result.UserID)
}

func TestRegistrationStatus(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	status, err := svc.RegistrationStatus(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, status.Registered)
	assert.Equal(t, 0, status.EmbeddingCount)

	_, err = svc.RegisterFace(context.Background(), face.RegisterFaceRequest{UserID: "alice", Image: []byte("alice")})
	require.NoError(t, err)

	status, err = svc.RegistrationStatus(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, status.Registered)
	assert.Equal(t, 1, status.EmbeddingCount)
	assert.NotNil(t, status.RegisteredAt)
}
