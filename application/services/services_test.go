package services

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"telecare-backend/domain"
	"telecare-backend/infrastructure/cache"
	apperrors "telecare-backend/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mocks ---

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *mockProfileRepo) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

type mockDoctorRepo struct {
	mock.Mock
}

func (m *mockDoctorRepo) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Doctor), args.Error(1)
}

func (m *mockDoctorRepo) FindByID(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Doctor), args.Error(1)
}

type mockAIClient struct {
	mock.Mock
}

func (m *mockAIClient) AnalyzeImage(ctx context.Context, image []byte) (*domain.ImageAnalysis, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImageAnalysis), args.Error(1)
}

func (m *mockAIClient) ReviewAnswers(ctx context.Context, questions, answers []string) (*domain.AnswerReview, error) {
	args := m.Called(ctx, questions, answers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnswerReview), args.Error(1)
}

func newCacheStore(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewStoreWithClient(client, nil, zap.NewNop()), mr
}

func waitForKey(t *testing.T, mr *miniredis.Miniredis, key string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return mr.Exists(key)
	}, time.Second, 10*time.Millisecond, "expected write-back of %s", key)
}

// --- ProfileService ---

func TestProfileService_GetProfileCachesSecondRead(t *testing.T) {
	store, mr := newCacheStore(t)
	repo := new(mockProfileRepo)
	svc := NewProfileService(repo, store, zap.NewNop())

	want := &domain.UserProfile{ID: "u1", FullName: "Pat Doe"}
	repo.On("FindByID", mock.Anything, "u1").Return(want, nil).Once()

	first, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, want, first)

	waitForKey(t, mr, cache.UserProfileKey("u1"))

	second, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, want, second)

	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestProfileService_NotFoundIsNotCached(t *testing.T) {
	store, mr := newCacheStore(t)
	repo := new(mockProfileRepo)
	svc := NewProfileService(repo, store, zap.NewNop())

	repo.On("FindByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("profile"))

	_, err := svc.GetProfile(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
	assert.False(t, mr.Exists(cache.UserProfileKey("missing")))
}

func TestProfileService_UpdateInvalidatesCache(t *testing.T) {
	store, mr := newCacheStore(t)
	repo := new(mockProfileRepo)
	svc := NewProfileService(repo, store, zap.NewNop())

	key := cache.UserProfileKey("u1")
	require.NoError(t, mr.Set(key, `{"id":"u1","full_name":"Stale Name"}`))

	name := "Fresh Name"
	updated := &domain.UserProfile{ID: "u1", FullName: name}
	repo.On("Update", mock.Anything, "u1", domain.ProfileUpdate{FullName: &name}).Return(updated, nil)

	got, err := svc.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, updated, got)
	assert.False(t, mr.Exists(key), "stale profile must be evicted on write")
}

// --- DoctorService ---

func TestDoctorService_ListCachesPerFilter(t *testing.T) {
	store, mr := newCacheStore(t)
	repo := new(mockDoctorRepo)
	svc := NewDoctorService(repo, store, zap.NewNop())

	all := []domain.Doctor{{ID: "d1"}, {ID: "d2"}}
	cardio := []domain.Doctor{{ID: "d1"}}
	repo.On("List", mock.Anything, domain.DoctorFilter{}).Return(all, nil).Once()
	repo.On("List", mock.Anything, domain.DoctorFilter{Specialization: "cardiology"}).Return(cardio, nil).Once()

	got, err := svc.ListDoctors(context.Background(), domain.DoctorFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	waitForKey(t, mr, cache.DoctorListAllKey)

	got, err = svc.ListDoctors(context.Background(), domain.DoctorFilter{Specialization: "cardiology"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	waitForKey(t, mr, cache.DoctorListKey(domain.DoctorFilter{Specialization: "cardiology"}))

	// Both variants now served from cache
	_, err = svc.ListDoctors(context.Background(), domain.DoctorFilter{})
	require.NoError(t, err)
	_, err = svc.ListDoctors(context.Background(), domain.DoctorFilter{Specialization: "cardiology"})
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "List", 2)
}

func TestDoctorService_ListNormalizesFilterForKeyAndQuery(t *testing.T) {
	store, mr := newCacheStore(t)
	repo := new(mockDoctorRepo)
	svc := NewDoctorService(repo, store, zap.NewNop())

	// The repository must only ever see the normalized filter, the same
	// value the cache key is derived from
	normalized := domain.DoctorFilter{Specialization: "cardiology"}
	cardio := []domain.Doctor{{ID: "d1"}}
	repo.On("List", mock.Anything, normalized).Return(cardio, nil).Once()

	got, err := svc.ListDoctors(context.Background(), domain.DoctorFilter{Specialization: "Cardiology"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	waitForKey(t, mr, cache.DoctorListKey(normalized))

	// Case variants share the entry and never issue a second query
	got, err = svc.ListDoctors(context.Background(), domain.DoctorFilter{Specialization: "CARDIOLOGY"})
	require.NoError(t, err)
	assert.Equal(t, cardio, got)

	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestDoctorService_InvalidateDoctorEvictsEntityAndListing(t *testing.T) {
	store, mr := newCacheStore(t)
	repo := new(mockDoctorRepo)
	svc := NewDoctorService(repo, store, zap.NewNop())

	require.NoError(t, mr.Set(cache.DoctorKey("d1"), `{"id":"d1"}`))
	require.NoError(t, mr.Set(cache.DoctorListAllKey, `[]`))

	svc.InvalidateDoctor(context.Background(), "d1")

	assert.False(t, mr.Exists(cache.DoctorKey("d1")))
	assert.False(t, mr.Exists(cache.DoctorListAllKey))
}

// --- AIService ---

func TestAIService_AnalyzeImageDeduplicatesByContent(t *testing.T) {
	store, mr := newCacheStore(t)
	client := new(mockAIClient)
	svc := NewAIService(client, store, zap.NewNop())

	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	encoded := base64.StdEncoding.EncodeToString(raw)
	dataURL := "data:image/png;base64," + encoded

	analysis := &domain.ImageAnalysis{Condition: "eczema", Confidence: 0.91}
	client.On("AnalyzeImage", mock.Anything, raw).Return(analysis, nil).Once()

	first, err := svc.AnalyzeImage(context.Background(), encoded)
	require.NoError(t, err)
	assert.Equal(t, "eczema", first.Condition)

	waitForKey(t, mr, cache.AIResultKey("detect-disease", cache.Digest(raw)))

	// Same image, different envelope: must replay the cached result
	second, err := svc.AnalyzeImage(context.Background(), dataURL)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	client.AssertNumberOfCalls(t, "AnalyzeImage", 1)
}

func TestAIService_AnalyzeImageRequiresPayload(t *testing.T) {
	store, _ := newCacheStore(t)
	svc := NewAIService(new(mockAIClient), store, zap.NewNop())

	_, err := svc.AnalyzeImage(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestAIService_ReviewAnswersKeyedByAnswersAndQuestions(t *testing.T) {
	store, mr := newCacheStore(t)
	client := new(mockAIClient)
	svc := NewAIService(client, store, zap.NewNop())

	questions := []string{"Any fever?", "How long?"}
	answers := []string{"yes", "three days"}

	review := &domain.AnswerReview{RiskLevel: "moderate"}
	client.On("ReviewAnswers", mock.Anything, questions, answers).Return(review, nil).Once()

	first, err := svc.ReviewAnswers(context.Background(), questions, answers)
	require.NoError(t, err)
	assert.Equal(t, "moderate", first.RiskLevel)

	key := cache.AIPairKey("review-answers", cache.AnswersDigest(answers), cache.AnswersDigest(questions))
	waitForKey(t, mr, key)

	second, err := svc.ReviewAnswers(context.Background(), questions, answers)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	client.AssertNumberOfCalls(t, "ReviewAnswers", 1)
}

func TestAIService_ReviewAnswersRequiresAnswers(t *testing.T) {
	store, _ := newCacheStore(t)
	svc := NewAIService(new(mockAIClient), store, zap.NewNop())

	_, err := svc.ReviewAnswers(context.Background(), []string{"q"}, nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAIService_ClientErrorPropagates(t *testing.T) {
	store, mr := newCacheStore(t)
	client := new(mockAIClient)
	svc := NewAIService(client, store, zap.NewNop())

	client.On("AnalyzeImage", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewExternalError("ai", nil))

	_, err := svc.AnalyzeImage(context.Background(), "aGVsbG8=")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	assert.Empty(t, mr.Keys())
}
