// Package handlers contains the REST endpoint implementations. Handlers
// stay thin: decode, validate, delegate to a service, encode.
package handlers

import (
	"net/http"

	"telecare-backend/application/services"
	"telecare-backend/domain"
	"telecare-backend/pkg/auth"
	"telecare-backend/pkg/common"
	apperrors "telecare-backend/pkg/errors"
	"telecare-backend/pkg/utils"

	"go.uber.org/zap"
)

const maxProfileBodyBytes = 64 * 1024

// ProfileHandler serves the authenticated user's profile
type ProfileHandler struct {
	service *services.ProfileService
	logger  *zap.Logger
}

// NewProfileHandler creates a profile handler
func NewProfileHandler(service *services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, logger: logger}
}

// UpdateProfileRequest is the PUT /profile body. All fields are optional;
// only the ones present are written.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), user.UserID)
	if err != nil {
		h.logger.Error("get profile failed", zap.String("user_id", user.UserID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req UpdateProfileRequest
	if err := common.ParseJSONBody(r, &req, maxProfileBodyBytes); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, err)
		return
	}

	update := domain.ProfileUpdate{
		FullName:  req.FullName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	}

	profile, err := h.service.UpdateProfile(r.Context(), user.UserID, update)
	if err != nil {
		h.logger.Error("update profile failed", zap.String("user_id", user.UserID), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, profile)
}
