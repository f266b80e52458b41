package services

import (
	"context"

	"telecare-backend/application/ports"
	"telecare-backend/domain"
	"telecare-backend/infrastructure/cache"
	apperrors "telecare-backend/pkg/errors"

	"go.uber.org/zap"
)

// AI cache purposes, part of the key namespace
const (
	purposeDetect = "detect-disease"
	purposeReview = "review-answers"
)

// AIService deduplicates generative-model calls by content hash. Two
// users submitting the same image bytes share one model invocation;
// results are safe to cache for a long time because the key encodes the
// input identity.
type AIService struct {
	client ports.AIClient
	store  *cache.Store
	logger *zap.Logger
}

// NewAIService creates a content-addressed AI cache adapter
func NewAIService(client ports.AIClient, store *cache.Store, logger *zap.Logger) *AIService {
	return &AIService{
		client: client,
		store:  store,
		logger: logger,
	}
}

// AnalyzeImage runs (or replays) a disease-detection assessment of an
// uploaded image. The payload may arrive bare base64 or as a data URL;
// both normalize to the same digest.
func (s *AIService) AnalyzeImage(ctx context.Context, imagePayload string) (*domain.ImageAnalysis, error) {
	if imagePayload == "" {
		return nil, apperrors.NewValidationError("image payload is required")
	}

	image := cache.NormalizeImagePayload(imagePayload)
	key := cache.AIResultKey(purposeDetect, cache.Digest(image))

	return cache.GetOrCompute(ctx, s.store, key, cache.TTLMonthly,
		func(ctx context.Context) (*domain.ImageAnalysis, error) {
			return s.client.AnalyzeImage(ctx, image)
		})
}

// ReviewAnswers runs (or replays) a questionnaire review. The key
// combines the digest of the answers with a truncated digest of the
// questions, so the same answers against a different questionnaire are a
// distinct entry.
func (s *AIService) ReviewAnswers(ctx context.Context, questions, answers []string) (*domain.AnswerReview, error) {
	if len(answers) == 0 {
		return nil, apperrors.NewValidationError("at least one answer is required")
	}

	key := cache.AIPairKey(purposeReview, cache.AnswersDigest(answers), cache.AnswersDigest(questions))

	return cache.GetOrCompute(ctx, s.store, key, cache.TTLDaily,
		func(ctx context.Context) (*domain.AnswerReview, error) {
			return s.client.ReviewAnswers(ctx, questions, answers)
		})
}
