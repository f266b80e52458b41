// Package acl contains anti-corruption-layer clients for external
// services. External failures and formats are translated here so the
// application layer only ever sees domain types and AppErrors.
package acl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"telecare-backend/domain"
	"telecare-backend/infrastructure/config"
	apperrors "telecare-backend/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	aiRequestTimeout = 60 * time.Second

	analyzeImagePath  = "/v1/analyze-image"
	reviewAnswersPath = "/v1/review-answers"
)

// AIClient calls the inference endpoint over HTTP. A circuit breaker
// guards the calls so a struggling model service sheds load fast instead
// of tying up request goroutines on timeouts.
type AIClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewAIClient creates an inference client from config
func NewAIClient(cfg *config.Config, logger *zap.Logger) *AIClient {
	settings := gobreaker.Settings{
		Name:        "ai-inference",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &AIClient{
		endpoint:   cfg.AIEndpoint,
		apiKey:     cfg.AIAPIKey,
		httpClient: &http.Client{Timeout: aiRequestTimeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

type analyzeImageRequest struct {
	Image string `json:"image"`
}

type reviewAnswersRequest struct {
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}

// AnalyzeImage submits image bytes for disease detection
func (c *AIClient) AnalyzeImage(ctx context.Context, image []byte) (*domain.ImageAnalysis, error) {
	req := analyzeImageRequest{Image: base64.StdEncoding.EncodeToString(image)}

	var result domain.ImageAnalysis
	if err := c.post(ctx, analyzeImagePath, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReviewAnswers submits questionnaire answers for a risk assessment
func (c *AIClient) ReviewAnswers(ctx context.Context, questions, answers []string) (*domain.AnswerReview, error) {
	req := reviewAnswersRequest{Questions: questions, Answers: answers}

	var result domain.AnswerReview
	if err := c.post(ctx, reviewAnswersPath, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *AIClient) post(ctx context.Context, path string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.NewInternalError("encode ai request").WithCause(err)
	}

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doRequest(ctx, path, body)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return apperrors.NewExternalError("ai", err)
		}
		return err
	}

	if err := json.Unmarshal(raw.([]byte), result); err != nil {
		return apperrors.NewExternalError("ai", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *AIClient) doRequest(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("build ai request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("ai request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.NewNetworkError("read ai response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError("ai",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return respBody, nil
}
