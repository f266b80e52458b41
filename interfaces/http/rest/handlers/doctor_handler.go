package handlers

import (
	"net/http"
	"strconv"

	"telecare-backend/application/services"
	"telecare-backend/domain"
	"telecare-backend/pkg/common"
	apperrors "telecare-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DoctorHandler serves the doctor directory
type DoctorHandler struct {
	service *services.DoctorService
	logger  *zap.Logger
}

// NewDoctorHandler creates a doctor handler
func NewDoctorHandler(service *services.DoctorService, logger *zap.Logger) *DoctorHandler {
	return &DoctorHandler{service: service, logger: logger}
}

// ListDoctors handles GET /api/v1/doctors
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDoctorFilter(r)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	doctors, err := h.service.ListDoctors(r.Context(), filter)
	if err != nil {
		h.logger.Error("list doctors failed", zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// GetDoctor handles GET /api/v1/doctors/{id}
func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "id")
	if doctorID == "" {
		common.RespondAppError(w, apperrors.NewValidationError("doctor id is required"))
		return
	}

	doctor, err := h.service.GetDoctor(r.Context(), doctorID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			h.logger.Error("get doctor failed", zap.String("doctor_id", doctorID), zap.Error(err))
		}
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, doctor)
}

// parseDoctorFilter builds a directory filter from query parameters
func parseDoctorFilter(r *http.Request) (domain.DoctorFilter, error) {
	q := r.URL.Query()
	filter := domain.DoctorFilter{
		Specialization: q.Get("specialization"),
		Search:         q.Get("search"),
		AvailableOnly:  q.Get("available") == "true",
	}

	if raw := q.Get("min_fee"); raw != "" {
		fee, err := strconv.Atoi(raw)
		if err != nil || fee < 0 {
			return filter, apperrors.NewValidationError("min_fee must be a non-negative integer")
		}
		filter.MinFee = &fee
	}
	if raw := q.Get("max_fee"); raw != "" {
		fee, err := strconv.Atoi(raw)
		if err != nil || fee < 0 {
			return filter, apperrors.NewValidationError("max_fee must be a non-negative integer")
		}
		filter.MaxFee = &fee
	}
	return filter, nil
}
