package handlers

import (
	"net/http"

	"telecare-backend/application/services"
	"telecare-backend/pkg/common"
	apperrors "telecare-backend/pkg/errors"
	"telecare-backend/pkg/utils"

	"go.uber.org/zap"
)

// Uploaded images arrive base64-encoded in JSON; 12 MiB of body covers
// an 8 MiB image with room for the encoding overhead.
const maxImageBodyBytes = 12 * 1024 * 1024

// AIHandler serves the assessment endpoints backed by the inference
// service
type AIHandler struct {
	service *services.AIService
	logger  *zap.Logger
}

// NewAIHandler creates an AI handler
func NewAIHandler(service *services.AIService, logger *zap.Logger) *AIHandler {
	return &AIHandler{service: service, logger: logger}
}

// AnalyzeImageRequest is the POST /ai/analyze-image body
type AnalyzeImageRequest struct {
	Image string `json:"image" validate:"required"`
}

// ReviewAnswersRequest is the POST /ai/review-answers body
type ReviewAnswersRequest struct {
	Questions []string `json:"questions" validate:"required,min=1,dive,required"`
	Answers   []string `json:"answers" validate:"required,min=1,dive,required"`
}

// AnalyzeImage handles POST /api/v1/ai/analyze-image
func (h *AIHandler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeImageRequest
	if err := common.ParseJSONBody(r, &req, maxImageBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	analysis, err := h.service.AnalyzeImage(r.Context(), req.Image)
	if err != nil {
		h.logger.Error("image analysis failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, analysis)
}

// ReviewAnswers handles POST /api/v1/ai/review-answers
func (h *AIHandler) ReviewAnswers(w http.ResponseWriter, r *http.Request) {
	var req ReviewAnswersRequest
	if err := common.ParseJSONBody(r, &req, maxProfileBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if len(req.Questions) != len(req.Answers) {
		common.RespondAppError(w, apperrors.NewValidationError("questions and answers must have the same length"))
		return
	}

	review, err := h.service.ReviewAnswers(r.Context(), req.Questions, req.Answers)
	if err != nil {
		h.logger.Error("answer review failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, review)
}
